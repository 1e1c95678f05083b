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
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

var ErrInvalidBookID = errors.New("invalid book id: must be a JSON integer")

// BookID is an id that only decodes from a bare JSON integer, "75" and
// 75.5 are both rejected.
type BookID struct {
	Value int
}

func (n *BookID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	value, err := strconv.Atoi(string(data))
	if err != nil {
		return ErrInvalidBookID
	}

	*n = BookID{
		Value: value,
	}

	return nil
}

func (n BookID) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Value)
}
