// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library joins the static catalog with reader ratings and provides the
browse operations of the webtoon library: filter, sort and progressive reveal.

Every operation is a pure function over an aggregated snapshot. A snapshot is
always recomputed in full, so it is safe to rebuild after any change.
*/
package library

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/social"
)

// # Domain Constants

// SortKey selects the score used by [Sort].
type SortKey string

const (
	SortReference SortKey = "reference"
	SortUser      SortKey = "user"
)

// Genre sentinels that disable genre filtering.
const (
	GenreAll       = "ALL"
	GenreAllKorean = "전체"
)

// # Domain Models

// Stats is the reader score summary of a title.
type Stats struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// AggregatedWebtoon is a catalog entry joined with its reader statistics.
type AggregatedWebtoon struct {
	catalog.Entry
	UserAvgScore float64 `json:"user_avg_score"`
	ReviewCount  int     `json:"review_count"`
}

// # Operations

// Aggregate averages every rating above zero per title. Every catalog title
// is present in the result; titles without qualifying ratings get {0, 0}.
// Ratings for titles outside the catalog are aggregated too.
func Aggregate(c *catalog.Catalog, ratings []social.Rating) map[string]Stats {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, rating := range ratings {
		if rating.Value <= 0 {
			continue
		}
		title := catalog.NormalizeTitle(rating.WebtoonTitle)
		sums[title] += rating.Value
		counts[title]++
	}

	stats := make(map[string]Stats, c.Len()+len(counts))
	for _, title := range c.Titles() {
		stats[title] = Stats{}
	}
	for title, count := range counts {
		stats[title] = Stats{Avg: sums[title] / float64(count), Count: count}
	}

	return stats
}

// Merge joins every catalog entry, in catalog order, with its stats.
func Merge(c *catalog.Catalog, stats map[string]Stats) []AggregatedWebtoon {
	entries := c.Entries()
	merged := make([]AggregatedWebtoon, len(entries))

	for i, entry := range entries {
		summary := stats[entry.Title]
		merged[i] = AggregatedWebtoon{
			Entry:        entry,
			UserAvgScore: summary.Avg,
			ReviewCount:  summary.Count,
		}
	}
	return merged
}

// Filter keeps entries that carry genre (or any genre for a sentinel) and
// whose title contains query, compared with Unicode case folding.
func Filter(entries []AggregatedWebtoon, genre, query string) []AggregatedWebtoon {
	genre = strings.TrimSpace(genre)
	anyGenre := genre == "" || genre == GenreAll || genre == GenreAllKorean

	folder := cases.Fold()
	needle := folder.String(catalog.NormalizeTitle(query))

	filtered := make([]AggregatedWebtoon, 0, len(entries))
	for _, entry := range entries {
		if !anyGenre && !entry.HasGenre(genre) {
			continue
		}
		if needle != "" && !strings.Contains(folder.String(entry.Title), needle) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// Sort returns a copy ordered by key, highest score first. Ties keep their
// input order. Unknown keys sort by reference score.
func Sort(entries []AggregatedWebtoon, key SortKey) []AggregatedWebtoon {
	sorted := make([]AggregatedWebtoon, len(entries))
	copy(sorted, entries)

	score := func(entry AggregatedWebtoon) float64 {
		if key == SortUser {
			return entry.UserAvgScore
		}
		return entry.ReferenceScore
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})
	return sorted
}

// Paginate returns the revealed prefix entries[:offset+pageSize], clamped to
// the slice length. It only re-slices, so repeated calls with the same
// arguments yield the same prefix.
func Paginate(entries []AggregatedWebtoon, offset, pageSize int) []AggregatedWebtoon {
	offset, pageSize = max(offset, 0), max(pageSize, 0)

	// Compared against the remainder so offset+pageSize never overflows.
	if offset >= len(entries) || pageSize >= len(entries)-offset {
		return entries
	}
	return entries[:offset+pageSize]
}
