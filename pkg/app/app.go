package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"tableflip.dev/logger/pkg/entry"
	"tableflip.dev/logger/pkg/search"
	"tableflip.dev/logger/pkg/state"
	"tableflip.dev/logger/pkg/store"
)

// Service provides high-level operations for log entries and the live search.
// It wraps persistence so UIs and CLIs can share logic, and publishes a fresh
// state.Snapshot to subscribers after every change.
type Service struct {
	Persistence store.Persistence

	mu     sync.Mutex
	query  string
	active bool
	subs   map[chan struct{}]struct{}
}

var errNoPersistence = errors.New("app: no persistence configured")

// Create stores a new text entry.
func (s *Service) Create(ctx context.Context, text string) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("app: entry text required")
	}
	e := entry.New(text)
	if err := s.Persistence.Store(e); err != nil {
		return nil, fmt.Errorf("app: create: %w", err)
	}
	s.notify()
	return e, nil
}

// CreatePhoto copies the image at path into the photo store and records an
// entry pointing at it.
func (s *Service) CreatePhoto(ctx context.Context, path string) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("app: open photo: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	if kind := http.DetectContentType(head[:n]); !strings.HasPrefix(kind, "image/") {
		return nil, fmt.Errorf("app: %s is not an image (%s)", path, kind)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("app: rewind photo: %w", err)
	}

	ref, err := s.Persistence.StorePhoto(f)
	if err != nil {
		return nil, err
	}
	e := entry.NewPhoto(ref)
	if err := s.Persistence.Store(e); err != nil {
		return nil, fmt.Errorf("app: create photo entry: %w", err)
	}
	s.notify()
	return e, nil
}

// Delete removes an entry permanently.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := s.Persistence.Delete(id); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Entry looks up a single entry by id.
func (s *Service) Entry(ctx context.Context, id int64) (*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	if e, ok := s.Persistence.MapAll(ctx)[id]; ok && e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("app: entry %d: %w", id, store.ErrNotFound)
}

// Photo returns the raw bytes of a stored photo.
func (s *Service) Photo(ctx context.Context, ref string) ([]byte, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Photo(ref)
}

// Entries lists every entry ordered by creation time.
func (s *Service) Entries(ctx context.Context) ([]*entry.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.ListAll(ctx), nil
}

// Search sets the live query and returns the ranked result ids. An empty
// query ends the search.
func (s *Service) Search(ctx context.Context, query string) ([]int64, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	query = strings.TrimSpace(query)

	s.mu.Lock()
	changed := s.query != query || s.active != (query != "")
	s.query = query
	s.active = query != ""
	s.mu.Unlock()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify()
	}
	return snap.Search.Results, nil
}

// Snapshot builds the current authoritative state: every entry plus the
// ranked results of the active query.
func (s *Service) Snapshot(ctx context.Context) (state.Snapshot, error) {
	if s.Persistence == nil {
		return state.Snapshot{}, errNoPersistence
	}
	all := s.Persistence.MapAll(ctx)
	entries := make(map[int64]entry.Entry, len(all))
	list := make([]entry.Entry, 0, len(all))
	for id, e := range all {
		if e == nil {
			continue
		}
		entries[id] = *e
		list = append(list, *e)
	}

	s.mu.Lock()
	query, active := s.query, s.active
	s.mu.Unlock()

	snap := state.Snapshot{
		Entries: entries,
		Search:  state.Search{Query: query, Active: active},
	}
	if active {
		snap.Search.Results = search.Rank(query, list)
	}
	return snap, nil
}

// Subscribe streams snapshots until ctx is cancelled. Changes made through
// the Service and changes observed on disk both mark a single pending
// notification; bursts collapse into one snapshot built when the consumer is
// ready. The first snapshot is delivered immediately.
func (s *Service) Subscribe(ctx context.Context) (<-chan state.Snapshot, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	changes, err := s.Persistence.Watch(ctx)
	if err != nil {
		return nil, err
	}

	pending := make(chan struct{}, 1)
	pending <- struct{}{}
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[chan struct{}]struct{})
	}
	s.subs[pending] = struct{}{}
	s.mu.Unlock()

	out := make(chan state.Snapshot, 1)
	go func() {
		defer close(out)
		defer func() {
			s.mu.Lock()
			delete(s.subs, pending)
			s.mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				mark(pending)
			case <-pending:
				snap, err := s.Snapshot(ctx)
				if err != nil {
					fmt.Fprintf(os.Stderr, "app: snapshot: %v\n", err)
					continue
				}
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *Service) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		mark(ch)
	}
}

// mark flags ch as pending without blocking; an already pending flag absorbs
// the new change.
func mark(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
