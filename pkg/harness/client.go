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

package harness

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/unikorn-cloud/books-contract/pkg/config"
	"github.com/unikorn-cloud/books-contract/pkg/constants"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// traceState tags requests so they can be told apart from real
	// traffic in the service's logs.
	traceState = "test-automation=books-contract"
)

// exchange is a completed request and response.
type exchange struct {
	status      int
	body        []byte
	contentType string
	traceID     string
	curl        string
	duration    time.Duration
}

// newSpanContext creates a new random, sampled, W3C trace context for each
// request so if an error occurs we can find the request in the logs.
func newSpanContext() trace.SpanContext {
	var traceID trace.TraceID

	var spanID trace.SpanID

	_, _ = rand.Read(traceID[:])
	_, _ = rand.Read(spanID[:])

	state, _ := trace.ParseTraceState(traceState)

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		TraceState: state,
		Remote:     true,
	})
}

// send POSTs the body to the URL.  The exchange is returned even on error so
// the trace ID and curl line can be reported.
//
//nolint:cyclop
func (h *Harness) send(ctx context.Context, url string, credentials *config.Credentials, body string) (*exchange, error) {
	log := log.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return &exchange{}, &TransportError{Method: http.MethodPost, URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.VersionString())

	if credentials != nil && !credentials.Empty() {
		req.SetBasicAuth(credentials.Username, credentials.Password)
	}

	spanContext := newSpanContext()

	propagation.TraceContext{}.Inject(trace.ContextWithRemoteSpanContext(ctx, spanContext), propagation.HeaderCarrier(req.Header))

	result := &exchange{
		traceID: spanContext.TraceID().String(),
		curl:    curlCommand(req, body),
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	result.duration = time.Since(start)

	if err != nil {
		log.Info("request failed", "method", req.Method, "url", url, "duration", result.duration, "traceID", result.traceID, "error", err.Error())

		return result, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Info("reading response body failed", "method", req.Method, "url", url, "status", resp.StatusCode, "traceID", result.traceID, "error", err.Error())

		return result, &TransportError{Method: req.Method, URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	result.status = resp.StatusCode
	result.body = respBody
	result.contentType = resp.Header.Get("Content-Type")

	if h.config.LogRequests {
		log.Info("request", "method", req.Method, "url", url, "status", result.status, "duration", result.duration, "traceID", result.traceID)
	} else {
		log.V(1).Info("request", "method", req.Method, "url", url, "status", result.status, "duration", result.duration, "traceID", result.traceID)
	}

	if h.config.LogResponses && len(respBody) > 0 {
		log.Info("response", "method", req.Method, "url", url, "body", string(respBody), "traceID", result.traceID)
	}

	return result, nil
}

// curlCommand renders a request as a curl invocation that can be pasted into
// a shell, the password is never included.
func curlCommand(req *http.Request, body string) string {
	parts := []string{"curl", "-sS", "-X", req.Method}

	if username, _, ok := req.BasicAuth(); ok {
		parts = append(parts, "-u", shellQuote(username+":***"))
	}

	keys := make([]string, 0, len(req.Header))

	for key := range req.Header {
		if key == "Authorization" {
			continue
		}

		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		parts = append(parts, "-H", shellQuote(key+": "+req.Header.Get(key)))
	}

	if body != "" {
		parts = append(parts, "--data-raw", shellQuote(body))
	}

	parts = append(parts, shellQuote(req.URL.String()))

	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
