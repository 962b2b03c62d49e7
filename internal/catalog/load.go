// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed data/webtoons.txt
var defaultTable string

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	return New(Parse(defaultTable), defaultTable)
}

// Load reads a catalog table from path. An empty path selects [Default].
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read %s: %w", path, err)
	}

	text := string(raw)
	entries := Parse(text)
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: %s contains no rows", path)
	}

	return New(entries, text), nil
}
