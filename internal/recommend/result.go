// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taibuivan/bolgeo/pkg/convert"
)

// Recommendation is one suggested title as produced by the model.
type Recommendation struct {
	Title    string   `json:"title"`
	Platform string   `json:"platform"`
	Status   string   `json:"status"`
	Genres   []string `json:"genres"`
	Score    Score    `json:"score"`
}

// Result is the parsed model answer.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Score accepts both a JSON number and a numeric string such as "4.5".
type Score float64

// UnmarshalJSON implements [json.Unmarshaler].
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Score(convert.ToFloat64(strings.TrimSuffix(strings.TrimSpace(text), "점")))
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = Score(value)
	return nil
}

// ExtractJSON strips Markdown code fences around the model output.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(text, "```"); ok {
		// Drop the info string ("json") up to the end of the opening fence line.
		if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
			rest = rest[newline+1:]
		} else {
			rest = strings.TrimPrefix(rest, "json")
		}
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "```"))
	}

	return text
}

// ParseResult decodes the model output. Any failure wraps [ErrMalformedResponse].
func ParseResult(raw string) (*Result, error) {
	text := ExtractJSON(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedResponse)
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if result.Recommendations == nil {
		return nil, fmt.Errorf("%w: missing recommendations", ErrMalformedResponse)
	}

	return &result, nil
}
