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
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrUndocumentedOperation is raised when the contract has no such method and path.
	ErrUndocumentedOperation = errors.New("operation not documented")

	// ErrUndocumentedStatus is raised when a status code is not a documented response.
	ErrUndocumentedStatus = errors.New("status not documented")

	// ErrSchemaViolation is raised when a response body does not match its schema.
	ErrSchemaViolation = errors.New("response violates schema")
)

//go:embed books.yaml
var booksSpec []byte

// Contract is a parsed and validated OpenAPI document.
type Contract struct {
	doc *openapi3.T
}

// Load parses and validates an OpenAPI document.
func Load(ctx context.Context, data []byte) (*Contract, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("failed to validate contract: %w", err)
	}

	return &Contract{
		doc: doc,
	}, nil
}

// LoadFile reads a contract from the filesystem.
func LoadFile(ctx context.Context, path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract: %w", err)
	}

	return Load(ctx, data)
}

//nolint:gochecknoglobals
var defaultContract = sync.OnceValues(func() (*Contract, error) {
	return Load(context.Background(), booksSpec)
})

// Default returns the built in books contract.
func Default() (*Contract, error) {
	return defaultContract()
}
