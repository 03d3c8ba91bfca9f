package search

import (
	"testing"
	"time"

	"tableflip.dev/logger/pkg/entry"
)

func at(id int64, text string, minutes int) entry.Entry {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return entry.Entry{ID: id, Text: text, Created: entry.Timestamp{Time: base.Add(time.Duration(minutes) * time.Minute)}}
}

func TestRankEmptyQuery(t *testing.T) {
	entries := []entry.Entry{at(1, "hello", 0)}
	if got := Rank("   ", entries); got != nil {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestRankFuzzy(t *testing.T) {
	entries := []entry.Entry{
		at(1, "walked the dog", 0),
		at(2, "bought cat food", 1),
		at(3, "nothing here", 2),
	}
	got := Rank("cat", entries)
	if len(got) == 0 || got[0] != 2 {
		t.Fatalf("expected entry 2 first, got %v", got)
	}
	for _, id := range got {
		if id == 1 {
			t.Fatalf("did not expect entry 1 to match cat: %v", got)
		}
	}
}

func TestRankPrefersNewerOnTies(t *testing.T) {
	entries := []entry.Entry{
		at(1, "coffee", 0),
		at(2, "coffee", 5),
	}
	got := Rank("coffee", entries)
	if len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Fatalf("expected [2 1], got %v", got)
	}
}

func TestRankHashtagFirst(t *testing.T) {
	entries := []entry.Entry{
		at(1, "#work standup", 0),
		at(2, "#workout legs", 1),
		at(3, "lunch #Work", 2),
		at(4, "photo only", 3),
	}
	got := Rank("#work", entries)
	if len(got) < 2 {
		t.Fatalf("expected at least two results, got %v", got)
	}
	if got[0] != 3 || got[1] != 1 {
		t.Fatalf("expected exact hashtag matches [3 1] first, got %v", got)
	}
	seen := map[int64]int{}
	for _, id := range got {
		seen[id]++
		if seen[id] > 1 {
			t.Fatalf("duplicate id %d in %v", id, got)
		}
	}
}

func TestRankSkipsPhotoOnlyEntries(t *testing.T) {
	entries := []entry.Entry{{ID: 7, Photo: "abc"}}
	if got := Rank("abc", entries); len(got) != 0 {
		t.Fatalf("expected photo refs to be unsearchable, got %v", got)
	}
}
