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

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrUnsupportedPayload = errors.New("unsupported payload")

// Payload is a request body.  A YAML string is sent verbatim, a mapping or
// sequence is rendered as compact JSON with keys in the order written.
type Payload struct {
	Raw string
}

func (p *Payload) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.ShortTag() == "!!null" {
			p.Raw = ""

			return nil
		}

		p.Raw = node.Value

		return nil
	}

	var buffer bytes.Buffer

	if err := encodeJSON(&buffer, node); err != nil {
		return err
	}

	p.Raw = buffer.String()

	return nil
}

func (p Payload) MarshalYAML() (any, error) {
	return p.Raw, nil
}

func (p Payload) String() string {
	return p.Raw
}

// encodeJSON walks the node tree so mapping order is preserved, decoding
// into a Go map would sort the keys.
func encodeJSON(buffer *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) != 1 {
			return fmt.Errorf("%w: empty document", ErrUnsupportedPayload)
		}

		return encodeJSON(buffer, node.Content[0])
	case yaml.AliasNode:
		return encodeJSON(buffer, node.Alias)
	case yaml.MappingNode:
		buffer.WriteByte('{')

		for i := 0; i < len(node.Content); i += 2 {
			if i > 0 {
				buffer.WriteByte(',')
			}

			key, err := marshal(node.Content[i].Value)
			if err != nil {
				return err
			}

			buffer.Write(key)
			buffer.WriteByte(':')

			if err := encodeJSON(buffer, node.Content[i+1]); err != nil {
				return err
			}
		}

		buffer.WriteByte('}')

		return nil
	case yaml.SequenceNode:
		buffer.WriteByte('[')

		for i, child := range node.Content {
			if i > 0 {
				buffer.WriteByte(',')
			}

			if err := encodeJSON(buffer, child); err != nil {
				return err
			}
		}

		buffer.WriteByte(']')

		return nil
	case yaml.ScalarNode:
		var value any

		if err := node.Decode(&value); err != nil {
			return err
		}

		data, err := marshal(value)
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrUnsupportedPayload, node.Line, err)
		}

		buffer.Write(data)

		return nil
	}

	return fmt.Errorf("%w: line %d: unexpected node kind %d", ErrUnsupportedPayload, node.Line, node.Kind)
}

// marshal encodes a value without escaping HTML characters, so bodies read
// the same as they were written.
func marshal(value any) ([]byte, error) {
	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}
