package composer

import (
	"strings"
	"testing"
)

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func expectKinds(t *testing.T, got []Event, want ...EventKind) {
	t.Helper()
	k := kinds(got)
	if len(k) != len(want) {
		t.Fatalf("expected events %v, got %v", want, k)
	}
	for i := range k {
		if k[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, k)
		}
	}
}

// typeText proposes each rune as an insertion at the end of the text, the way
// a host forwards keystrokes.
func typeText(m *Machine, text string) []Decision {
	var out []Decision
	for _, r := range text {
		out = append(out, m.Propose(Insert(RuneLen(m.Text()), string(r))))
	}
	return out
}

func TestNewStartsEmpty(t *testing.T) {
	m := New(Options{})
	if m.Mode() != Empty {
		t.Fatalf("expected Empty, got %s", m.Mode())
	}
	if m.Stage() != StagePhoto {
		t.Fatalf("expected photo stage, got %s", m.Stage())
	}
	if m.Display() != DefaultPlaceholder {
		t.Fatalf("expected placeholder %q, got %q", DefaultPlaceholder, m.Display())
	}
}

func TestLeadingSpaceOpensSearchAndBackspaceCloses(t *testing.T) {
	m := New(Options{})

	d := m.Propose(Insert(0, " "))
	if d.Accept {
		t.Fatalf("expected space to be vetoed")
	}
	if !d.Replace || !d.Placeholder {
		t.Fatalf("expected placeholder restore, got %+v", d)
	}
	if m.Mode() != SearchEmpty {
		t.Fatalf("expected SearchEmpty, got %s", m.Mode())
	}
	expectKinds(t, d.Events, EventSearchBegan)
	if m.Display() != DefaultSearchPlaceholder {
		t.Fatalf("expected search placeholder, got %q", m.Display())
	}
	if m.Stage() != StageClear {
		t.Fatalf("expected clear stage, got %s", m.Stage())
	}

	d = m.Propose(Delete(0, 0))
	if d.Accept {
		t.Fatalf("expected deletion to be vetoed")
	}
	if m.Mode() != Empty {
		t.Fatalf("expected Empty, got %s", m.Mode())
	}
	expectKinds(t, d.Events, EventQueryChanged, EventSearchEnded)
	if d.Events[0].Query != "" {
		t.Fatalf("expected empty query, got %q", d.Events[0].Query)
	}
}

func TestLeadingSpaceInSearchEmptyStaysQuiet(t *testing.T) {
	m := New(Options{})
	m.Propose(Insert(0, " "))

	d := m.Propose(Insert(0, " "))
	if d.Accept || m.Mode() != SearchEmpty {
		t.Fatalf("expected veto in SearchEmpty, got %+v mode %s", d, m.Mode())
	}
	if len(d.Events) != 0 {
		t.Fatalf("expected no events, got %v", kinds(d.Events))
	}
}

func TestTypingComposesAndSubmits(t *testing.T) {
	m := New(Options{})
	ds := typeText(m, "hi")

	if !ds[0].Accept || !ds[0].Replace || ds[0].Text != "h" {
		t.Fatalf("expected first key to clear the placeholder, got %+v", ds[0])
	}
	if !ds[1].Accept || ds[1].Replace {
		t.Fatalf("expected second key to be committed by the host, got %+v", ds[1])
	}
	if m.Mode() != Composing {
		t.Fatalf("expected Composing, got %s", m.Mode())
	}
	if m.Stage() != StageSend {
		t.Fatalf("expected send stage, got %s", m.Stage())
	}

	text, ok := m.Submit()
	if !ok || text != "hi" {
		t.Fatalf("expected submit to return hi, got %q %t", text, ok)
	}
	if m.Mode() != Composing {
		t.Fatalf("expected submit to leave mode alone, got %s", m.Mode())
	}

	if events := m.Reset(); len(events) != 0 {
		t.Fatalf("expected reset outside search to be silent, got %v", kinds(events))
	}
	if m.Mode() != Empty {
		t.Fatalf("expected Empty after reset, got %s", m.Mode())
	}
}

func TestSubmitOutsideComposingIsNoop(t *testing.T) {
	m := New(Options{})
	if _, ok := m.Submit(); ok {
		t.Fatalf("expected submit on empty composer to fail")
	}
	m.SetQuery("dog")
	if _, ok := m.Submit(); ok {
		t.Fatalf("expected submit in search to fail")
	}
	if m.Mode() != SearchWithQuery {
		t.Fatalf("expected mode unchanged, got %s", m.Mode())
	}
}

func TestDeletingQueryReturnsToSearchEmpty(t *testing.T) {
	m := New(Options{})
	m.SetQuery("cat")

	d := m.Propose(Delete(0, 3))
	if d.Accept {
		t.Fatalf("expected delete-all to be vetoed")
	}
	if !d.Placeholder {
		t.Fatalf("expected placeholder restore")
	}
	if m.Mode() != SearchEmpty {
		t.Fatalf("expected SearchEmpty, got %s", m.Mode())
	}
	expectKinds(t, d.Events, EventQueryChanged)
	if d.Events[0].Query != "" {
		t.Fatalf("expected empty query, got %q", d.Events[0].Query)
	}
}

func TestBackspaceThroughDraftReturnsToEmpty(t *testing.T) {
	m := New(Options{})
	typeText(m, "ab")

	d := m.Propose(Delete(1, 1))
	if !d.Accept || m.Text() != "a" {
		t.Fatalf("expected backspace to be accepted, got %+v text %q", d, m.Text())
	}
	d = m.Propose(Delete(0, 1))
	if d.Accept || m.Mode() != Empty {
		t.Fatalf("expected Empty after deleting last rune, got %+v mode %s", d, m.Mode())
	}
	if len(d.Events) != 0 {
		t.Fatalf("expected no events outside search, got %v", kinds(d.Events))
	}
}

func TestSearchTypingEmitsTrimmedQuery(t *testing.T) {
	m := New(Options{})
	m.Propose(Insert(0, " "))

	ds := typeText(m, "cat ")
	if m.Mode() != SearchWithQuery {
		t.Fatalf("expected SearchWithQuery, got %s", m.Mode())
	}
	last := ds[len(ds)-1]
	expectKinds(t, last.Events, EventQueryChanged)
	if last.Events[0].Query != "cat" {
		t.Fatalf("expected trimmed query, got %q", last.Events[0].Query)
	}
	q, ok := m.Query()
	if !ok || q != "cat" {
		t.Fatalf("expected query cat, got %q %t", q, ok)
	}
}

func TestPasteOverPlaceholderClearsThenApplies(t *testing.T) {
	m := New(Options{})
	// Hosts that keep the placeholder in their buffer send ranges against it;
	// the placeholder is cleared first so only the replacement survives.
	d := m.Propose(Edit{Range: Range{Location: 0, Length: 7}, Replacement: "pasted text"})
	if !d.Accept || !d.Replace || d.Text != "pasted text" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if m.Mode() != Composing || m.Text() != "pasted text" {
		t.Fatalf("expected Composing with pasted text, got %s %q", m.Mode(), m.Text())
	}
}

func TestMidTextEdits(t *testing.T) {
	m := New(Options{})
	typeText(m, "héllo")
	d := m.Propose(Edit{Range: Range{Location: 1, Length: 1}, Replacement: "e"})
	if !d.Accept || m.Text() != "hello" {
		t.Fatalf("expected rune-addressed replace, got %q", m.Text())
	}
	m.Propose(Insert(99, "!"))
	if m.Text() != "hello!" {
		t.Fatalf("expected out of range insert to clamp, got %q", m.Text())
	}
	m.Propose(Insert(0, " "))
	if m.Mode() != Composing || m.Text() != " hello!" {
		t.Fatalf("expected leading space while composing to be plain text, got %s %q", m.Mode(), m.Text())
	}
}

func TestSetQueryAndClear(t *testing.T) {
	m := New(Options{})

	events := m.SetQuery("dog")
	expectKinds(t, events, EventSearchBegan)
	if m.Mode() != SearchWithQuery || m.Display() != "dog" {
		t.Fatalf("expected SearchWithQuery showing dog, got %s %q", m.Mode(), m.Display())
	}

	if events := m.SetQuery("dog"); len(events) != 0 {
		t.Fatalf("expected re-entrant SetQuery to be silent, got %v", kinds(events))
	}
	if m.Display() != "dog" {
		t.Fatalf("expected text unchanged, got %q", m.Display())
	}

	events = m.ClearQuery()
	expectKinds(t, events, EventQueryChanged, EventSearchEnded)
	if m.Mode() != Empty || !m.Placeholding() {
		t.Fatalf("expected Empty placeholder, got %s", m.Mode())
	}

	if events := m.ClearQuery(); events != nil {
		t.Fatalf("expected ClearQuery outside search to be a no-op")
	}
}

func TestSetQueryFromSearchEmpty(t *testing.T) {
	m := New(Options{})
	m.Propose(Insert(0, " "))
	if events := m.SetQuery("tag"); len(events) != 0 {
		t.Fatalf("expected no SearchBegan when already searching, got %v", kinds(events))
	}
	if m.Mode() != SearchWithQuery {
		t.Fatalf("expected SearchWithQuery, got %s", m.Mode())
	}
	m.SetQuery("")
	if m.Mode() != SearchEmpty {
		t.Fatalf("expected empty query to land in SearchEmpty, got %s", m.Mode())
	}
}

func TestSetQueryDiscardsDraft(t *testing.T) {
	m := New(Options{})
	typeText(m, "draft")
	m.SetQuery("work")
	if _, ok := m.Submit(); ok {
		t.Fatalf("expected draft to be gone")
	}
	if m.Text() != "work" {
		t.Fatalf("expected query text, got %q", m.Text())
	}
}

func TestPrimaryFollowsStage(t *testing.T) {
	m := New(Options{})
	expectKinds(t, m.Primary(), EventPhotoPicker)

	typeText(m, "note")
	events := m.Primary()
	expectKinds(t, events, EventSubmit)
	if events[0].Text != "note" {
		t.Fatalf("expected submit text note, got %q", events[0].Text)
	}

	m.Reset()
	m.SetQuery("x")
	expectKinds(t, m.Primary(), EventQueryChanged, EventSearchEnded)
	if m.Mode() != Empty {
		t.Fatalf("expected clear to leave search, got %s", m.Mode())
	}
}

func TestResetLeavesSearch(t *testing.T) {
	m := New(Options{})
	m.SetQuery("x")
	expectKinds(t, m.Reset(), EventQueryChanged, EventSearchEnded)
	if m.Mode() != Empty {
		t.Fatalf("expected Empty, got %s", m.Mode())
	}
}

func TestStageIsPureFunctionOfMode(t *testing.T) {
	cases := map[Mode]Stage{
		Empty:           StagePhoto,
		Composing:       StageSend,
		SearchEmpty:     StageClear,
		SearchWithQuery: StageClear,
	}
	for mode, want := range cases {
		if got := StageFor(mode); got != want {
			t.Fatalf("%s: expected %s, got %s", mode, want, got)
		}
	}
}

func TestLayout(t *testing.T) {
	m := New(Options{MaxLines: 3})
	l := m.Layout(20)
	if l.Indent != 0 || l.Lines != 1 || l.Scroll {
		t.Fatalf("unexpected empty layout %+v", l)
	}

	m.SetQuery("q")
	if l := m.Layout(20); l.Indent != SearchIndent {
		t.Fatalf("expected search indent, got %+v", l)
	}

	m.Reset()
	typeText(m, strings.Repeat("word ", 20))
	l = m.Layout(20)
	if l.Lines <= 3 || l.Height != 3 || !l.Scroll {
		t.Fatalf("expected capped scrolling layout, got %+v", l)
	}
}
