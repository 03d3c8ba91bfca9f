package entry

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// CurrentSchema tags records written by this version of the store.
const CurrentSchema = "v1"

// New builds a text entry stamped with the current time. The store assigns
// the ID when the entry is first persisted.
func New(text string) *Entry {
	return &Entry{
		Schema:  CurrentSchema,
		Text:    text,
		Created: Timestamp{Time: time.Now()},
	}
}

// NewPhoto builds a photo entry referencing a stored blob.
func NewPhoto(ref string) *Entry {
	return &Entry{
		Schema:  CurrentSchema,
		Photo:   ref,
		Created: Timestamp{Time: time.Now()},
	}
}

// Entry is a single log line. Entries are immutable once stored; the UI only
// ever holds copies.
type Entry struct {
	Schema  string    `json:"schema,omitempty" yaml:"schema,omitempty"`
	ID      int64     `json:"id" yaml:"id"`
	Text    string    `json:"text,omitempty" yaml:"text,omitempty"`
	Created Timestamp `json:"created" yaml:"created"`
	Photo   string    `json:"photo,omitempty" yaml:"photo,omitempty"`
}

// Equal reports whether two entries carry the same id, text, creation instant
// and photo reference.
func (e Entry) Equal(o Entry) bool {
	return e.ID == o.ID &&
		e.Text == o.Text &&
		e.Created.Equal(o.Created.Time) &&
		e.Photo == o.Photo
}

// HasPhoto reports whether the entry references a photo blob.
func (e Entry) HasPhoto() bool {
	return e.Photo != ""
}

func (e Entry) String() string {
	if e.HasPhoto() && e.Text == "" {
		return fmt.Sprintf("%d %s [photo]", e.ID, e.Created.Short())
	}
	return fmt.Sprintf("%d %s %s", e.ID, e.Created.Short(), e.Text)
}

var (
	hashtagPattern      = regexp.MustCompile(`#(\w+)`)
	hashtagStripPattern = regexp.MustCompile(`#(\w+\s?)`)
	linkPattern         = regexp.MustCompile(`https?://[^\s]+`)
)

// Hashtags returns the tags in the entry text, in order of appearance and
// without the leading '#'. Duplicates are dropped.
func (e Entry) Hashtags() []string {
	matches := hashtagPattern.FindAllStringSubmatch(e.Text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := m[1]
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Links returns the http(s) URLs found in the entry text.
func (e Entry) Links() []string {
	return linkPattern.FindAllString(e.Text, -1)
}

// WebSearchURL builds a web search link for the entry text with hashtags
// removed.
func (e Entry) WebSearchURL() string {
	cleaned := strings.TrimSpace(hashtagStripPattern.ReplaceAllString(e.Text, ""))
	return "https://google.com/search?q=" + url.QueryEscape(cleaned)
}
