package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"tableflip.dev/logger/pkg/entry"
	"tableflip.dev/logger/pkg/state"
	"tableflip.dev/logger/pkg/store"
)

type memoryPersistence struct {
	mu      sync.Mutex
	counter int64
	entries map[int64]*entry.Entry
	photos  map[string][]byte
	events  chan store.Event
}

func newMemoryPersistence(entries ...*entry.Entry) *memoryPersistence {
	mp := &memoryPersistence{
		entries: make(map[int64]*entry.Entry),
		photos:  make(map[string][]byte),
	}
	for _, e := range entries {
		if e == nil {
			continue
		}
		if e.ID == 0 {
			mp.counter++
			e.ID = mp.counter
		} else if e.ID > mp.counter {
			mp.counter = e.ID
		}
		cp := *e
		mp.entries[cp.ID] = &cp
	}
	return mp
}

func (m *memoryPersistence) MapAll(_ context.Context) map[int64]*entry.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]*entry.Entry, len(m.entries))
	for id, e := range m.entries {
		cp := *e
		out[id] = &cp
	}
	return out
}

func (m *memoryPersistence) ListAll(ctx context.Context) []*entry.Entry {
	var out []*entry.Entry
	for _, e := range m.MapAll(ctx) {
		out = append(out, e)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Created.Before(out[j-1].Created.Time); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (m *memoryPersistence) Store(e *entry.Entry) error {
	if e == nil {
		return errors.New("nil entry")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		m.counter++
		e.ID = m.counter
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *memoryPersistence) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("memory: entry %d: %w", id, store.ErrNotFound)
	}
	delete(m.entries, id)
	return nil
}

func (m *memoryPersistence) StorePhoto(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := fmt.Sprintf("photo-%d", len(m.photos)+1)
	m.photos[ref] = data
	return ref, nil
}

func (m *memoryPersistence) Photo(ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.photos[ref]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	if m.events == nil {
		return nil, nil
	}
	return m.events, nil
}

func receive(t *testing.T, ch <-chan state.Snapshot) state.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return state.Snapshot{}
}

func TestServiceRequiresPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Create(context.Background(), "hi"); err == nil {
		t.Fatal("expected error without persistence")
	}
	if _, err := svc.Subscribe(context.Background()); err == nil {
		t.Fatal("expected subscribe error without persistence")
	}
}

func TestCreateAndDelete(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "   "); err == nil {
		t.Fatal("expected blank entry to be rejected")
	}
	e, err := svc.Create(ctx, "  walked the dog ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Text != "walked the dog" || e.ID == 0 {
		t.Fatalf("unexpected entry: %+v", e)
	}
	got, err := svc.Entry(ctx, e.ID)
	if err != nil || got.Text != e.Text {
		t.Fatalf("entry lookup: %+v, %v", got, err)
	}
	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Entry(ctx, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePhoto(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx := context.Background()
	dir := t.TempDir()

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	img := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(img, png, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	e, err := svc.CreatePhoto(ctx, img)
	if err != nil {
		t.Fatalf("create photo: %v", err)
	}
	if !e.HasPhoto() {
		t.Fatalf("expected photo reference, got %+v", e)
	}
	data, err := svc.Photo(ctx, e.Photo)
	if err != nil || !bytes.Equal(data, png) {
		t.Fatalf("photo bytes mismatch: %v", err)
	}

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("just text"), 0o644); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if _, err := svc.CreatePhoto(ctx, txt); err == nil {
		t.Fatal("expected non-image to be rejected")
	}
}

func TestSearchSnapshot(t *testing.T) {
	now := time.Now()
	mp := newMemoryPersistence(
		&entry.Entry{ID: 1, Text: "bought cat food", Created: entry.Timestamp{Time: now.Add(-time.Hour)}},
		&entry.Entry{ID: 2, Text: "walked the dog", Created: entry.Timestamp{Time: now}},
	)
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	results, err := svc.Search(ctx, " cat ")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0] != 1 {
		t.Fatalf("expected [1], got %v", results)
	}
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snap.Search.Active || snap.Search.Query != "cat" || len(snap.Entries) != 2 {
		t.Fatalf("unexpected snapshot: %s", snap.Describe())
	}

	if _, err := svc.Search(ctx, ""); err != nil {
		t.Fatalf("clear search: %v", err)
	}
	snap, _ = svc.Snapshot(ctx)
	if snap.Search.Active || len(snap.Search.Results) != 0 {
		t.Fatalf("expected cleared search, got %s", snap.Describe())
	}
}

func TestSubscribeDeliversInitialAndChanges(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if snap := receive(t, ch); len(snap.Entries) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d entries", len(snap.Entries))
	}

	if _, err := svc.Create(ctx, "hello"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if snap := receive(t, ch); len(snap.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(snap.Entries))
	}

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not close")
	}
}

func TestSubscribeCoalescesBursts(t *testing.T) {
	mp := newMemoryPersistence()
	svc := &Service{Persistence: mp}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	receive(t, ch)

	// Nobody reads while the burst happens; at most one snapshot is parked in
	// the channel and one more notification stays pending.
	for i := 0; i < 20; i++ {
		if _, err := svc.Create(ctx, fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	var last state.Snapshot
	count := 0
	for {
		select {
		case snap := <-ch:
			last = snap
			count++
			continue
		case <-time.After(200 * time.Millisecond):
		}
		break
	}
	if count == 0 || count > 3 {
		t.Fatalf("expected a coalesced handful of snapshots, got %d", count)
	}
	if len(last.Entries) != 20 {
		t.Fatalf("expected final snapshot to hold all 20 entries, got %d", len(last.Entries))
	}
}

func TestSubscribeFollowsStoreEvents(t *testing.T) {
	mp := newMemoryPersistence()
	mp.events = make(chan store.Event, 1)
	svc := &Service{Persistence: mp}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	receive(t, ch)

	// Written behind the service's back, as another process would.
	if err := mp.Store(entry.New("from elsewhere")); err != nil {
		t.Fatalf("store: %v", err)
	}
	mp.events <- store.Event{Type: store.EventEntriesChanged}

	if snap := receive(t, ch); len(snap.Entries) != 1 {
		t.Fatalf("expected watched change to be published, got %d entries", len(snap.Entries))
	}
}

func TestExport(t *testing.T) {
	mp := newMemoryPersistence(&entry.Entry{ID: 1, Text: "#garden tomatoes", Created: entry.Timestamp{Time: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}})
	svc := &Service{Persistence: mp}
	ctx := context.Background()

	var buf bytes.Buffer
	if err := svc.Export(ctx, &buf, FormatJSON); err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded []entry.Entry
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Text != "#garden tomatoes" {
		t.Fatalf("unexpected json export: %s", buf.String())
	}

	buf.Reset()
	if err := svc.Export(ctx, &buf, FormatYAML); err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	var generic []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &generic); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if len(generic) != 1 || generic[0]["created"] != "2024-05-01T08:00:00Z" {
		t.Fatalf("unexpected yaml export: %s", buf.String())
	}

	if err := svc.Export(ctx, &buf, "xml"); err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}

func TestSince(t *testing.T) {
	now := time.Now()
	mp := newMemoryPersistence(
		&entry.Entry{ID: 1, Text: "old", Created: entry.Timestamp{Time: now.Add(-72 * time.Hour)}},
		&entry.Entry{ID: 2, Text: "recent", Created: entry.Timestamp{Time: now.Add(-time.Hour)}},
	)
	svc := &Service{Persistence: mp}

	report, err := svc.Since(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if report.Total != 1 || len(report.Days) != 1 || report.Days[0].Entries[0].ID != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}

	all, err := svc.Since(context.Background(), 0)
	if err != nil {
		t.Fatalf("since all: %v", err)
	}
	if all.Total != 2 || len(all.Days) != 2 {
		t.Fatalf("expected two days, got %+v", all)
	}
}
