package entry

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEqualComparesAllFields(t *testing.T) {
	now := time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC)
	base := Entry{ID: 1, Text: "coffee", Created: Timestamp{Time: now}}

	if !base.Equal(base) {
		t.Fatalf("expected entry to equal itself")
	}

	sameInstant := base
	sameInstant.Created = Timestamp{Time: now.In(time.FixedZone("X", 3600))}
	if !base.Equal(sameInstant) {
		t.Fatalf("expected same instant in another zone to be equal")
	}

	cases := map[string]Entry{
		"id":      {ID: 2, Text: "coffee", Created: Timestamp{Time: now}},
		"text":    {ID: 1, Text: "tea", Created: Timestamp{Time: now}},
		"created": {ID: 1, Text: "coffee", Created: Timestamp{Time: now.Add(time.Second)}},
		"photo":   {ID: 1, Text: "coffee", Created: Timestamp{Time: now}, Photo: "abc"},
	}
	for name, other := range cases {
		if base.Equal(other) {
			t.Fatalf("%s: expected entries to differ", name)
		}
	}
}

func TestHashtags(t *testing.T) {
	e := Entry{Text: "ran 5k #run #health then #run again"}
	tags := e.Hashtags()
	if len(tags) != 2 || tags[0] != "run" || tags[1] != "health" {
		t.Fatalf("unexpected tags: %v", tags)
	}
	if (Entry{Text: "nothing here"}).Hashtags() != nil {
		t.Fatalf("expected no tags")
	}
}

func TestWebSearchURLStripsHashtags(t *testing.T) {
	e := Entry{Text: "#books the left hand of darkness"}
	got := e.WebSearchURL()
	want := "https://google.com/search?q=the+left+hand+of+darkness"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestLinks(t *testing.T) {
	e := Entry{Text: "read https://go.dev/blog and http://example.com later"}
	links := e.Links()
	if len(links) != 2 || !strings.HasPrefix(links[0], "https://go.dev") {
		t.Fatalf("unexpected links: %v", links)
	}
}

func TestTimestampJSONRoundTrip(t *testing.T) {
	now := time.Date(2024, time.May, 1, 9, 30, 0, 123, time.UTC)
	in := Entry{ID: 7, Text: "hello", Created: Timestamp{Time: now}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Entry
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !in.Equal(out) {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}
