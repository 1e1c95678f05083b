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

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// logging attaches a request scoped logger to the context, tagged with the
// caller's trace parent so requests can be correlated with test output.
func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.Log.WithValues("method", r.Method, "path", r.URL.Path, "traceparent", r.Header.Get("Traceparent"))

		writer := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		start := time.Now()

		next.ServeHTTP(writer, r.WithContext(log.IntoContext(r.Context(), logger)))

		logger.V(1).Info("request", "status", writer.Status(), "duration", time.Since(start))
	})
}
