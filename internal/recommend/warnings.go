// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"fmt"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/pkg/slice"
)

// WarningKind classifies a soft check failure.
type WarningKind string

const (
	WarningExcluded WarningKind = "excluded"
	WarningUnknown  WarningKind = "unknown_title"
	WarningCount    WarningKind = "count"
)

// Warning reports a recommendation that does not follow the instructions.
// Warnings never fail a request.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Title   string      `json:"title,omitempty"`
	Message string      `json:"message"`
}

// Validate checks result against the catalog and the exclusion list.
func Validate(result *Result, c *catalog.Catalog, excludes []string) []Warning {
	var warnings []Warning

	if got := len(result.Recommendations); got != RecommendationCount {
		warnings = append(warnings, Warning{
			Kind:    WarningCount,
			Message: fmt.Sprintf("expected %d recommendations, got %d", RecommendationCount, got),
		})
	}

	excluded := slice.Set(slice.Map(excludes, catalog.NormalizeTitle))

	for _, recommendation := range result.Recommendations {
		title := catalog.NormalizeTitle(recommendation.Title)

		if _, ok := excluded[title]; ok {
			warnings = append(warnings, Warning{
				Kind:    WarningExcluded,
				Title:   title,
				Message: "title is in the exclusion list",
			})
		}
		if !c.Contains(title) {
			warnings = append(warnings, Warning{
				Kind:    WarningUnknown,
				Title:   title,
				Message: "title is not in the catalog",
			})
		}
	}

	return warnings
}
