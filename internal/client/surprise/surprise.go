// Package surprise turns the free-text answer of the destination recommender
// into at most three destination cards.
//
// The recommender is expected to number its suggestions as markdown
// headings:
//
//	## 1. Hampi
//	Boulder-strewn ruins of the Vijayanagara empire...
//
//	## 2. Ziro Valley
//	...
//
// Text before the first heading is ignored. An answer without any heading
// yields no destinations; callers render that as an empty result.
package surprise

import (
	"regexp"
	"strings"
)

// MaxDestinations is how many suggestions are shown.
const MaxDestinations = 3

type Destination struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var heading = regexp.MustCompile(`##\s*\d+\.\s*`)

// Parse never fails; malformed input simply produces fewer records.
func Parse(text string) []Destination {
	sections := heading.Split(text, -1)

	out := make([]Destination, 0, MaxDestinations)
	for i := 1; i < len(sections) && i <= MaxDestinations; i++ {
		name, rest, _ := strings.Cut(sections[i], "\n")
		out = append(out, Destination{
			Name:        strings.TrimSpace(name),
			Description: strings.TrimSpace(rest),
		})
	}
	return out
}
