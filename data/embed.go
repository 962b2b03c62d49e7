// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package data embeds the SQL migrations shipped with the binary.
package data

import "embed"

// Migrations holds data/migrations/*.sql.
//
//go:embed migrations/*.sql
var Migrations embed.FS
