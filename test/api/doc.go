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

// Package api provides integration test utilities for the books API.
//
// # Separate Client Implementation
//
// This package intentionally maintains a separate HTTP client implementation
// (APIClient) alongside the contract harness. Having an independent client
// serves as a form of triangulation on the harness itself: the suites built
// on it assert the same contract through a second code path, so a defect
// in the harness cannot silently pass a broken service.
//
// The client includes features tailored for integration testing:
//   - W3C trace context propagation for request correlation
//   - Detailed error logging with trace IDs for debugging
//   - Per request credentials, so every role can be exercised
//   - Direct access to HTTP status codes and response bodies
//
// The suites also drive the harness directly with the embedded catalog,
// see RunCatalog.
package api
