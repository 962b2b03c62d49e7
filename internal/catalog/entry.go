// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog owns the static webtoon reference table.

The table is a pipe-delimited text blob (one webtoon per line) that is parsed
leniently into [Entry] values and wrapped in an immutable [Catalog]. The same
text is embedded verbatim into recommendation prompts.

Lifecycle:

  - Load: read from CATALOG_PATH, or the embedded default table.
  - Sync: mirror entries into the relational 'webtoons' table at startup.
  - Serve: title lookup and genre listing over HTTP.
*/
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// # Domain Constants

const (
	// StatusOngoing marks a series that is still being published.
	StatusOngoing = "연재중"
	// StatusCompleted marks a finished series.
	StatusCompleted = "완결"
)

// # Domain Models

// Entry is one parsed catalog row. Entries are immutable once parsed.
type Entry struct {
	Title          string   `json:"title"`
	Platform       string   `json:"platform"`
	Genres         []string `json:"genres"`
	Status         string   `json:"status"`
	ReferenceScore float64  `json:"reference_score"`
}

// Completed reports whether the series has finished.
func (e Entry) Completed() bool {
	return e.Status == StatusCompleted
}

// HasGenre reports whether genre is one of the entry's genres.
func (e Entry) HasGenre(genre string) bool {
	for _, g := range e.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Catalog is an ordered, read-only set of entries with title lookup.
//
// # Concurrency
//
// A Catalog is never mutated after [New], so it is safe for concurrent use.
type Catalog struct {
	entries []Entry
	index   map[string]int
	text    string
}

// New builds a Catalog from parsed entries. The first occurrence of a
// duplicated title wins the lookup; order is preserved.
func New(entries []Entry, text string) *Catalog {
	index := make(map[string]int, len(entries))
	for position, entry := range entries {
		key := NormalizeTitle(entry.Title)
		if _, exists := index[key]; !exists {
			index[key] = position
		}
	}

	if text == "" {
		text = Format(entries)
	}

	return &Catalog{entries: entries, index: index, text: text}
}

// NormalizeTitle trims and NFC-normalizes a title for comparison.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Find looks up an entry by title.
func (c *Catalog) Find(title string) (Entry, bool) {
	position, ok := c.index[NormalizeTitle(title)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[position], true
}

// Contains reports whether a title is in the catalog.
func (c *Catalog) Contains(title string) bool {
	_, ok := c.index[NormalizeTitle(title)]
	return ok
}

// Titles returns every title in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.entries))
	for i, entry := range c.entries {
		titles[i] = entry.Title
	}
	return titles
}

// Genres returns the sorted set of genres used by any entry.
func (c *Catalog) Genres() []string {
	seen := make(map[string]struct{})
	for _, entry := range c.entries {
		for _, genre := range entry.Genres {
			seen[genre] = struct{}{}
		}
	}

	genres := make([]string, 0, len(seen))
	for genre := range seen {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}

// Text returns the catalog as prompt-ready text: the source table when the
// catalog was loaded from text, otherwise a re-serialisation of the entries.
func (c *Catalog) Text() string {
	return c.text
}
