package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/logger/pkg/entry"
)

// ErrNotFound is returned when an entry or photo does not exist.
var ErrNotFound = errors.New("store: not found")

// Persistence defines the persistence contract for log entries and photos.
type Persistence interface {
	MapAll(ctx context.Context) map[int64]*entry.Entry
	ListAll(ctx context.Context) []*entry.Entry
	Store(e *entry.Entry) error
	Delete(id int64) error
	StorePhoto(r io.Reader) (string, error)
	Photo(ref string) ([]byte, error)
	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	entriesBucket = "entries"
	photosBucket  = "photos"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	// mu serializes id assignment against concurrent writers in-process.
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*entry.Entry, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := &entry.Entry{}
	if err := json.Unmarshal(val, e); err != nil {
		return nil, err
	}
	if e.Schema == "" {
		e.Schema = entry.CurrentSchema
	}
	id, err := idFromKey(key)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return e, nil
}

func (p *persistence) MapAll(ctx context.Context) map[int64]*entry.Entry {
	all := make(map[int64]*entry.Entry)
	for key := range p.d.KeysPrefix(entriesBucket+"-", ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all[e.ID] = e
	}
	return all
}

func (p *persistence) ListAll(ctx context.Context) []*entry.Entry {
	all := make([]*entry.Entry, 0)
	for _, e := range p.MapAll(ctx) {
		all = append(all, e)
	}
	sortEntries(all)
	return all
}

func (p *persistence) Store(e *entry.Entry) error {
	if e == nil {
		return errors.New("store: nil entry")
	}
	if e.Schema == "" {
		e.Schema = entry.CurrentSchema
	}
	if e.Created.IsZero() {
		e.Created = entry.Timestamp{Time: time.Now()}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if e.ID == 0 {
		e.ID = p.nextID()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(e.ID), data)
}

func (p *persistence) Delete(id int64) error {
	key := toKey(id)
	if !p.d.Has(key) {
		return fmt.Errorf("store: entry %d: %w", id, ErrNotFound)
	}
	return p.d.Erase(key)
}

func (p *persistence) StorePhoto(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("store: read photo: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("store: empty photo")
	}
	sum := sha256.Sum256(data)
	ref := hex.EncodeToString(sum[:])
	key := photosBucket + "-" + ref
	if p.d.Has(key) {
		return ref, nil
	}
	if err := p.d.Write(key, data); err != nil {
		return "", fmt.Errorf("store: write photo: %w", err)
	}
	return ref, nil
}

func (p *persistence) Photo(ref string) ([]byte, error) {
	key := photosBucket + "-" + ref
	if ref == "" || !p.d.Has(key) {
		return nil, fmt.Errorf("store: photo %q: %w", ref, ErrNotFound)
	}
	return p.d.Read(key)
}

// nextID scans existing keys; callers hold p.mu.
func (p *persistence) nextID() int64 {
	var max int64
	for key := range p.d.KeysPrefix(entriesBucket+"-", nil) {
		id, err := idFromKey(key)
		if err != nil {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1
}

func sortEntries(entries []*entry.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		left := entries[i]
		right := entries[j]
		lt := left.Created.Time
		rt := right.Created.Time
		if lt.Equal(rt) {
			return left.ID < right.ID
		}
		return lt.Before(rt)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `entries-<id>`
func toKey(id int64) string {
	return fmt.Sprintf("%s-%d", entriesBucket, id)
}

func idFromKey(key string) (int64, error) {
	pk := keyToPathTransform(key)
	id, err := strconv.ParseInt(pk.FileName, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("store: bad entry key %q: %w", key, err)
	}
	return id, nil
}
