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

package openapi

import (
	"net/http"
)

// Books API operations, used for routing and contract lookups.
const (
	CreateBookMethod = http.MethodPost
	CreateBookPath   = "/api/books"
	GetBookPath      = "/api/books/{bookID}"
)

// Book is a stored book.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookWrite is a book to create.
type BookWrite struct {
	ID     *BookID `json:"id,omitempty"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
}

// Books is a list of books.
type Books []Book
