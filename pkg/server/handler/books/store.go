/*
Copyright 2026 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package books

import (
	"errors"
	"slices"
	"sync"

	"github.com/unikorn-cloud/books-contract/pkg/openapi"
)

var (
	// ErrDuplicateID is raised when a book with the requested id exists.
	ErrDuplicateID = errors.New("book id already exists")

	// ErrDuplicateBook is raised when a book with the same title and author exists.
	ErrDuplicateBook = errors.New("book already exists")
)

type key struct {
	title  string
	author string
}

// Store is an in-memory book store, safe for concurrent use.
type Store struct {
	lock    sync.Mutex
	books   map[int]openapi.Book
	keys    map[key]int
	highest int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		books: map[int]openapi.Book{},
		keys:  map[key]int{},
	}
}

// Create stores a book.  When id is nil the next id after the highest ever
// used is assigned, so ids are never reused.
func (s *Store) Create(id *int, title, author string) (openapi.Book, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if id != nil {
		if _, ok := s.books[*id]; ok {
			return openapi.Book{}, ErrDuplicateID
		}
	}

	k := key{title: title, author: author}

	if _, ok := s.keys[k]; ok {
		return openapi.Book{}, ErrDuplicateBook
	}

	book := openapi.Book{
		ID:     s.highest + 1,
		Title:  title,
		Author: author,
	}

	if id != nil {
		book.ID = *id
	}

	s.highest = max(s.highest, book.ID)
	s.books[book.ID] = book
	s.keys[k] = book.ID

	return book, nil
}

// Get returns a book by id.
func (s *Store) Get(id int) (openapi.Book, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	book, ok := s.books[id]

	return book, ok
}

// List returns every book ordered by id.
func (s *Store) List() openapi.Books {
	s.lock.Lock()
	defer s.lock.Unlock()

	books := make(openapi.Books, 0, len(s.books))

	for _, book := range s.books {
		books = append(books, book)
	}

	slices.SortFunc(books, func(a, b openapi.Book) int {
		return a.ID - b.ID
	})

	return books
}
