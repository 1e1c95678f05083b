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

package cli

import (
	"context"

	"github.com/unikorn-cloud/books-contract/pkg/catalog"
	"github.com/unikorn-cloud/books-contract/pkg/openapi"
)

const (
	// ContractBuiltin selects the embedded books contract.
	ContractBuiltin = "builtin"
)

// loadCatalog reads the catalog at path, or the embedded one when unset,
// and keeps only the named scenarios when any are given.
func loadCatalog(path string, names []string) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)

	if path == "" {
		c, err = catalog.Default()
	} else {
		c, err = catalog.Load(path)
	}

	if err != nil {
		return nil, err
	}

	return c.Filter(names)
}

// loadContract returns nil for an empty source, the embedded contract for
// "builtin", otherwise the OpenAPI document at that path.
func loadContract(ctx context.Context, source string) (*openapi.Contract, error) {
	switch source {
	case "":
		return nil, nil //nolint:nilnil
	case ContractBuiltin:
		return openapi.Default()
	}

	return openapi.LoadFile(ctx, source)
}
