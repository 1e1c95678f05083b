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

package handler

import (
	"github.com/spf13/pflag"
)

const (
	// DefaultMaxFieldLength bounds title and author.
	DefaultMaxFieldLength = 100
)

// Quirks reproduce the defects observed in the live books service.  All are
// off by default, giving the documented behaviour.
type Quirks struct {
	// IgnoreSuppliedID assigns the next sequential id regardless of any
	// id in the request.
	IgnoreSuppliedID bool
	// AcceptEmptyFields creates books with empty or missing titles and authors.
	AcceptEmptyFields bool
	// AcceptNonIntegerID treats a non-integer id as absent rather than
	// rejecting it.
	AcceptNonIntegerID bool
	// AcceptNonStringFields stores numeric titles and authors as text.
	AcceptNonStringFields bool
}

// LiveQuirks enables every quirk, mimicking the live service.
func LiveQuirks() Quirks {
	return Quirks{
		IgnoreSuppliedID:      true,
		AcceptEmptyFields:     true,
		AcceptNonIntegerID:    true,
		AcceptNonStringFields: true,
	}
}

// DefaultUsers are the accounts the live service ships with.
func DefaultUsers() map[string]string {
	return map[string]string{
		"admin": "password",
		"user":  "password",
	}
}

// Options allow behaviour to be defined on the CLI.
type Options struct {
	// Users maps usernames to passwords accepted for basic authentication.
	Users map[string]string
	// MaxFieldLength bounds title and author, in characters.
	MaxFieldLength int
	// Quirks select known defects to reproduce.
	Quirks Quirks
}

// NewOptions returns documented behaviour with the default users.
func NewOptions() *Options {
	return &Options{
		Users:          DefaultUsers(),
		MaxFieldLength: DefaultMaxFieldLength,
	}
}

func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringToStringVar(&o.Users, "user", DefaultUsers(), "Accepted basic authentication credentials as username=password.")
	f.IntVar(&o.MaxFieldLength, "max-field-length", DefaultMaxFieldLength, "Maximum title and author length in characters.")
	f.BoolVar(&o.Quirks.IgnoreSuppliedID, "quirk-ignore-supplied-id", false, "Ignore supplied ids and assign the next sequential id.")
	f.BoolVar(&o.Quirks.AcceptEmptyFields, "quirk-accept-empty-fields", false, "Accept empty or missing titles and authors.")
	f.BoolVar(&o.Quirks.AcceptNonIntegerID, "quirk-accept-non-integer-id", false, "Treat a non-integer id as absent.")
	f.BoolVar(&o.Quirks.AcceptNonStringFields, "quirk-accept-non-string-fields", false, "Accept non-string titles and authors.")
}
