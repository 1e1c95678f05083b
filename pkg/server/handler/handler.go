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

//nolint:revive
package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/unikorn-cloud/books-contract/pkg/openapi"
	"github.com/unikorn-cloud/books-contract/pkg/server/handler/books"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	errMalformed = errors.New("request body must be a JSON object")
)

type Handler struct {
	// store holds every book created.
	store *books.Store

	// options allows behaviour to be defined on the CLI.
	options *Options
}

func New(store *books.Store, options *Options) *Handler {
	return &Handler{
		store:   store,
		options: options,
	}
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func writeJSONResponse(w http.ResponseWriter, r *http.Request, status int, body any) {
	var buffer bytes.Buffer

	if err := json.NewEncoder(&buffer).Encode(body); err != nil {
		log.FromContext(r.Context()).Error(err, "failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, _ = w.Write(buffer.Bytes())
}

func handleError(w http.ResponseWriter, r *http.Request, status int, kind string, err error) {
	log.FromContext(r.Context()).V(1).Info("request rejected", "status", status, "error", err.Error())

	writeJSONResponse(w, r, status, &errorResponse{
		Error:       kind,
		Description: err.Error(),
	})
}

// field reads a mandatory string field.
func (h *Handler) field(object map[string]json.RawMessage, name string) (string, error) {
	raw, ok := object[name]
	if !ok || string(raw) == "null" {
		if h.options.Quirks.AcceptEmptyFields {
			return "", nil
		}

		return "", fmt.Errorf("%s is required", name)
	}

	var value string

	if err := json.Unmarshal(raw, &value); err != nil {
		if !h.options.Quirks.AcceptNonStringFields {
			return "", fmt.Errorf("%s must be a string", name)
		}

		value = string(bytes.Trim(raw, `"`))
	}

	if value == "" && !h.options.Quirks.AcceptEmptyFields {
		return "", fmt.Errorf("%s must not be empty", name)
	}

	if utf8.RuneCountInString(value) > h.options.MaxFieldLength {
		return "", fmt.Errorf("%s must be at most %d characters", name, h.options.MaxFieldLength)
	}

	return value, nil
}

// id reads the optional id field.
func (h *Handler) id(object map[string]json.RawMessage) (*int, error) {
	raw, ok := object["id"]
	if !ok || string(raw) == "null" || h.options.Quirks.IgnoreSuppliedID {
		return nil, nil //nolint:nilnil
	}

	var id openapi.BookID

	if err := json.Unmarshal(raw, &id); err != nil {
		if h.options.Quirks.AcceptNonIntegerID {
			return nil, nil //nolint:nilnil
		}

		return nil, err
	}

	return &id.Value, nil
}

// PostApiBooks creates a book.
func (h *Handler) PostApiBooks(w http.ResponseWriter, r *http.Request) {
	h.setUncacheable(w)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		handleError(w, r, http.StatusBadRequest, "invalid_request", err)
		return
	}

	var object map[string]json.RawMessage

	if err := json.Unmarshal(data, &object); err != nil || object == nil {
		handleError(w, r, http.StatusBadRequest, "invalid_request", errMalformed)
		return
	}

	id, err := h.id(object)
	if err != nil {
		handleError(w, r, http.StatusBadRequest, "invalid_request", err)
		return
	}

	title, err := h.field(object, "title")
	if err != nil {
		handleError(w, r, http.StatusBadRequest, "invalid_request", err)
		return
	}

	author, err := h.field(object, "author")
	if err != nil {
		handleError(w, r, http.StatusBadRequest, "invalid_request", err)
		return
	}

	book, err := h.store.Create(id, title, author)
	if err != nil {
		if errors.Is(err, books.ErrDuplicateID) || errors.Is(err, books.ErrDuplicateBook) {
			handleError(w, r, http.StatusAlreadyReported, "conflict", err)
			return
		}

		handleError(w, r, http.StatusInternalServerError, "server_error", err)

		return
	}

	log.FromContext(r.Context()).Info("book created", "id", book.ID)

	writeJSONResponse(w, r, http.StatusCreated, book)
}

// GetApiBooks lists all books.
func (h *Handler) GetApiBooks(w http.ResponseWriter, r *http.Request) {
	h.setUncacheable(w)
	writeJSONResponse(w, r, http.StatusOK, h.store.List())
}

// GetApiBooksBookID reads a single book.
func (h *Handler) GetApiBooksBookID(w http.ResponseWriter, r *http.Request) {
	h.setUncacheable(w)

	id, err := strconv.Atoi(chi.URLParam(r, "bookID"))
	if err != nil {
		handleError(w, r, http.StatusBadRequest, "invalid_request", fmt.Errorf("book id must be an integer"))
		return
	}

	book, ok := h.store.Get(id)
	if !ok {
		handleError(w, r, http.StatusNotFound, "not_found", fmt.Errorf("book %d not found", id))
		return
	}

	writeJSONResponse(w, r, http.StatusOK, book)
}
