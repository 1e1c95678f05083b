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

package api

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct {
	create string
}

// NewEndpoints creates a new Endpoints instance rooted at the configured
// create endpoint.
func NewEndpoints(create string) *Endpoints {
	return &Endpoints{
		create: "/" + strings.Trim(create, "/"),
	}
}

// Book endpoints.
func (e *Endpoints) CreateBook() string {
	return e.create
}

func (e *Endpoints) ListBooks() string {
	return e.create
}

func (e *Endpoints) GetBook(id int) string {
	return fmt.Sprintf("%s/%s", e.create, url.PathEscape(fmt.Sprint(id)))
}
