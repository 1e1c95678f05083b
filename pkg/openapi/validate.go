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
	"encoding/json"
	"fmt"
	"mime"
	"slices"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// operation looks up an operation.  Paths are matched literally, so
// templated paths must be given in their templated form.
func (c *Contract) operation(method, path string) (*openapi3.Operation, error) {
	item := c.doc.Paths.Find(path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUndocumentedOperation, method, path)
	}

	op := item.GetOperation(strings.ToUpper(method))
	if op == nil || op.Responses == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrUndocumentedOperation, method, path)
	}

	return op, nil
}

// Statuses returns the explicitly documented status codes of an operation.
func (c *Contract) Statuses(method, path string) ([]int, error) {
	op, err := c.operation(method, path)
	if err != nil {
		return nil, err
	}

	var statuses []int

	for key := range op.Responses.Map() {
		status, err := strconv.Atoi(key)
		if err != nil {
			continue
		}

		statuses = append(statuses, status)
	}

	slices.Sort(statuses)

	return statuses, nil
}

func (c *Contract) response(method, path string, status int) (*openapi3.Response, error) {
	op, err := c.operation(method, path)
	if err != nil {
		return nil, err
	}

	ref := op.Responses.Status(status)
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %s %s %d", ErrUndocumentedStatus, method, path, status)
	}

	return ref.Value, nil
}

// CheckStatus ensures the status is a documented response of the operation.
func (c *Contract) CheckStatus(method, path string, status int) error {
	_, err := c.response(method, path, status)

	return err
}

// ValidateResponse checks a response against the contract.  The status must
// be documented, and where the documented response has content the content
// type must be one of those listed and the body must satisfy its schema.
func (c *Contract) ValidateResponse(method, path string, status int, contentType string, body []byte) error {
	response, err := c.response(method, path, status)
	if err != nil {
		return err
	}

	if len(response.Content) == 0 {
		return nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: content type %q: %w", ErrSchemaViolation, contentType, err)
	}

	content := response.Content.Get(mediaType)
	if content == nil {
		return fmt.Errorf("%w: content type %q not documented for status %d", ErrSchemaViolation, mediaType, status)
	}

	if content.Schema == nil || content.Schema.Value == nil {
		return nil
	}

	var value any

	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("%w: body is not JSON: %w", ErrSchemaViolation, err)
	}

	if err := content.Schema.Value.VisitJSON(value); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	return nil
}
