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
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func generateRandomName(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, randomHex(4))
}

func GenerateTestID() string {
	return generateRandomName("test")
}

// GenerateTestTitle returns a title no other run will have used, so
// creation never collides with an existing book.
func GenerateTestTitle() string {
	return generateRandomName("testautomation-" + time.Now().Format("20060102-150405"))
}

// BookPayloadBuilder builds book payloads for testing.  Values are kept as
// any so tests can send deliberately mistyped fields.
type BookPayloadBuilder struct {
	payload map[string]any
}

// NewBookPayload creates a new book payload builder with a unique title.
func NewBookPayload() *BookPayloadBuilder {
	return &BookPayloadBuilder{
		payload: map[string]any{
			"title":  GenerateTestTitle(),
			"author": "Test Automation",
		},
	}
}

// WithID sets the optional id, which may be of any type.
func (b *BookPayloadBuilder) WithID(id any) *BookPayloadBuilder {
	b.payload["id"] = id
	return b
}

// WithTitle sets the title.
func (b *BookPayloadBuilder) WithTitle(title any) *BookPayloadBuilder {
	b.payload["title"] = title
	return b
}

// WithAuthor sets the author.
func (b *BookPayloadBuilder) WithAuthor(author any) *BookPayloadBuilder {
	b.payload["author"] = author
	return b
}

// WithTitleLength sets a unique title of exactly n characters.
func (b *BookPayloadBuilder) WithTitleLength(n int) *BookPayloadBuilder {
	title := GenerateTestTitle()

	if len(title) < n {
		title += strings.Repeat("x", n-len(title))
	}

	b.payload["title"] = title[:n]

	return b
}

// Without removes a field entirely.
func (b *BookPayloadBuilder) Without(field string) *BookPayloadBuilder {
	delete(b.payload, field)
	return b
}

// Title returns the title as it will be sent.
func (b *BookPayloadBuilder) Title() any {
	return b.payload["title"]
}

// Build returns the completed payload as JSON text.
func (b *BookPayloadBuilder) Build() string {
	data, err := json.Marshal(b.payload)
	if err != nil {
		panic(err)
	}

	return string(data)
}
