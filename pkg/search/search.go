// Package search ranks log entries against a free text query.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"tableflip.dev/logger/pkg/entry"
)

// Rank returns the ids of entries that match query, most relevant first.
//
// A query that starts with '#' lists entries carrying that exact hashtag
// ahead of everything else. The remaining entries are ordered by fuzzy match
// score against their text; equal scores favour the newer entry. An empty
// query matches nothing.
func Rank(query string, entries []entry.Entry) []int64 {
	query = strings.TrimSpace(query)
	if query == "" || len(entries) == 0 {
		return nil
	}

	candidates := newestFirst(entries)
	results := make([]int64, 0)
	seen := make(map[int64]struct{})

	if tag, ok := hashtag(query); ok {
		for _, e := range candidates {
			if hasTag(e, tag) {
				results = append(results, e.ID)
				seen[e.ID] = struct{}{}
			}
		}
	}

	for _, m := range fuzzy.FindFrom(query, source(candidates)) {
		id := candidates[m.Index].ID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		results = append(results, id)
	}
	return results
}

// hashtag returns the tag name when query is a single #tag.
func hashtag(query string) (string, bool) {
	if !strings.HasPrefix(query, "#") || strings.ContainsAny(query, " \t") {
		return "", false
	}
	tag := strings.TrimPrefix(query, "#")
	return tag, tag != ""
}

func hasTag(e entry.Entry, tag string) bool {
	for _, t := range e.Hashtags() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func newestFirst(entries []entry.Entry) []entry.Entry {
	out := make([]entry.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created.Time) {
			return out[i].ID > out[j].ID
		}
		return out[i].Created.After(out[j].Created.Time)
	})
	return out
}

// source adapts entries to fuzzy.Source.
type source []entry.Entry

func (s source) String(i int) string { return s[i].Text }

func (s source) Len() int { return len(s) }
