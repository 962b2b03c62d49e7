// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// Repository mirrors the catalog into persistent storage.
type Repository interface {
	// Sync upserts every entry and removes rows whose title left the catalog.
	Sync(context context.Context, entries []Entry) (removed int64, err error)
}
