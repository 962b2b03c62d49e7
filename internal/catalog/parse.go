// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/taibuivan/bolgeo/pkg/convert"
)

const (
	fieldSeparator = "|"
	genreSeparator = ","
	scoreSuffix    = "점"
)

// ordinalPrefix matches the "12. " numbering in front of a title.
var ordinalPrefix = regexp.MustCompile(`^\d+\.\s*`)

// Parse converts a catalog table into entries.
//
// Each line holding the field separator is one row:
//
//	index. title | platform | genre1, genre2, ... | status | score점
//
// Parsing never fails. Lines without a separator are skipped, missing fields
// default to empty values, and an unparsable score becomes 0.0.
func Parse(text string) []Entry {
	var entries []Entry

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, fieldSeparator) {
			continue
		}

		fields := strings.Split(line, fieldSeparator)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}

		title := NormalizeTitle(ordinalPrefix.ReplaceAllString(field(fields, 0), ""))
		if title == "" {
			continue
		}

		entries = append(entries, Entry{
			Title:          title,
			Platform:       field(fields, 1),
			Genres:         splitGenres(field(fields, 2)),
			Status:         field(fields, 3),
			ReferenceScore: parseScore(field(fields, 4)),
		})
	}

	return entries
}

// Format serialises entries back into the table format accepted by [Parse].
func Format(entries []Entry) string {
	var builder strings.Builder
	for i, entry := range entries {
		fmt.Fprintf(&builder, "%d. %s | %s | %s | %s | %s%s\n",
			i+1,
			entry.Title,
			entry.Platform,
			strings.Join(entry.Genres, genreSeparator+" "),
			entry.Status,
			strconv.FormatFloat(entry.ReferenceScore, 'f', 1, 64),
			scoreSuffix,
		)
	}
	return builder.String()
}

func field(fields []string, position int) string {
	if position < len(fields) {
		return fields[position]
	}
	return ""
}

func splitGenres(raw string) []string {
	genres := []string{}
	for _, genre := range strings.Split(raw, genreSeparator) {
		if genre = strings.TrimSpace(genre); genre != "" {
			genres = append(genres, genre)
		}
	}
	return genres
}

func parseScore(raw string) float64 {
	return convert.ToFloat64(strings.TrimSuffix(strings.TrimSpace(raw), scoreSuffix))
}
