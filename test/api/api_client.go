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

//nolint:err113,revive // dynamic errors and naming conventions acceptable in test code
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"

	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"
)

type APIClient struct {
	baseURL   string
	client    *http.Client
	config    *TestConfig
	endpoints *Endpoints
}

// Response is a raw response from the service.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
	TraceID     string
}

func NewAPIClientWithConfig(config *TestConfig) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(config.Endpoint),
	}
}

// Credentials looks up a role's credentials, failing the test if the role
// isn't configured.
func (c *APIClient) Credentials(role config.Role) *config.Credentials {
	credentials, err := c.config.CredentialsFor(role)
	if err != nil {
		ginkgo.Fail(err.Error())
	}

	return &credentials
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s traceparent=%s error=%v\n", method, path, context, duration, traceParent, err)
	c.logTraceContext(traceParent)
}

// logErrorWithStatus logs an error with HTTP status code.
func (c *APIClient) logErrorWithStatus(method, path string, duration time.Duration, statusCode int, traceParent string, err error, context string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] ERROR %s duration=%s status=%d traceparent=%s error=%v\n", method, path, context, duration, statusCode, traceParent, err)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expectedStatus, actualStatus int, body, traceParent string) {
	ginkgo.GinkgoWriter.Printf("[%s %s] UNEXPECTED STATUS expected=%d got=%d body=%s traceparent=%s\n", method, path, expectedStatus, actualStatus, body, traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	ginkgo.GinkgoWriter.Printf("TRACE CONTEXT: Use trace ID '%s' to search logs for this request\n", extractTraceID(traceParent))
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", randomHex(16), randomHex(8))
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, method, path string, credentials *config.Credentials, body *string, expectedStatus int) (*Response, error) {
	fullURL := c.baseURL + path

	var reader io.Reader

	if body != nil {
		reader = strings.NewReader(*body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if credentials != nil && !credentials.Empty() {
		req.SetBasicAuth(credentials.Username, credentials.Password)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logErrorWithStatus(method, path, duration, resp.StatusCode, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.config.LogRequests {
		ginkgo.GinkgoWriter.Printf("[%s %s] status=%d duration=%s traceparent=%s\n", method, path, resp.StatusCode, duration, traceParent)
	}

	if c.config.LogResponses && len(respBody) > 0 {
		ginkgo.GinkgoWriter.Printf("[%s %s] response body: %s\n", method, path, string(respBody))
	}

	response := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
		TraceID:     extractTraceID(traceParent),
	}

	if expectedStatus > 0 && resp.StatusCode != expectedStatus {
		c.logUnexpectedStatus(method, path, expectedStatus, resp.StatusCode, string(respBody), traceParent)
		return response, fmt.Errorf("unexpected status code: expected %d, got %d, body: %s (trace ID: %s)", expectedStatus, resp.StatusCode, string(respBody), response.TraceID)
	}

	return response, nil
}

// PostBook sends a raw create request and returns whatever the service
// responded with.  The body need not be valid JSON.
func (c *APIClient) PostBook(ctx context.Context, credentials *config.Credentials, body string) (*Response, error) {
	return c.doRequest(ctx, http.MethodPost, c.endpoints.CreateBook(), credentials, &body, 0)
}

// CreateBook creates a book, expecting the service to accept it.
func (c *APIClient) CreateBook(ctx context.Context, credentials *config.Credentials, body string) (*openapi.Book, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.endpoints.CreateBook(), credentials, &body, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}

	var book openapi.Book
	if err := json.Unmarshal(resp.Body, &book); err != nil {
		return nil, fmt.Errorf("unmarshaling book response: %w", err)
	}

	return &book, nil
}

// GetBook reads a book back.
func (c *APIClient) GetBook(ctx context.Context, credentials *config.Credentials, id int) (*openapi.Book, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.GetBook(id), credentials, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("getting book: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var book openapi.Book
		if err := json.Unmarshal(resp.Body, &book); err != nil {
			return nil, fmt.Errorf("unmarshaling book response: %w", err)
		}

		return &book, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("book '%d' not found (status: %d)", id, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(resp.Body))
	}
}

// ListBooks lists every book.
func (c *APIClient) ListBooks(ctx context.Context, credentials *config.Credentials) (openapi.Books, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.endpoints.ListBooks(), credentials, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	var books openapi.Books
	if err := json.Unmarshal(resp.Body, &books); err != nil {
		return nil, fmt.Errorf("unmarshaling books response: %w", err)
	}

	return books, nil
}
