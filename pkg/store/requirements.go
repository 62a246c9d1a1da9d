package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Requirement is a single skill-requirement record. The upstream database
// treats these as opaque key/value pairs (skill name, level, and whatever
// else the community adds), so we carry them through untouched.
type Requirement map[string]any

// Requirements is the persisted cache mapping string(item id) to a
// non-empty list of requirement records.
//
// The cache is append-only: once an id is present it is never re-fetched,
// overwritten, or removed. Re-running the fetch job therefore converges.
type Requirements struct {
	entries map[string][]Requirement
}

// NewRequirements returns an empty requirements cache.
func NewRequirements() *Requirements {
	return &Requirements{entries: make(map[string][]Requirement)}
}

// LoadRequirements reads the requirements cache from path.
// An absent file is not an error and yields an empty cache: the fetch job
// bootstraps the cache on its first run. Any other read or decode failure
// is fatal to the calling job.
func LoadRequirements(path string) (*Requirements, error) {
	reqs, err := LoadRequirementsStrict(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return NewRequirements(), nil
	}
	return reqs, err
}

// LoadRequirementsStrict reads the requirements cache from path, treating
// an absent file as an error. Consumers that only read the cache use it:
// a never-fetched cache must not pass for an empty one.
func LoadRequirementsStrict(path string) (*Requirements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read requirements cache: %w", err)
	}

	entries := make(map[string][]Requirement)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode requirements cache: %w", err)
	}

	return &Requirements{entries: entries}, nil
}

// Has reports whether the cache holds requirements for the given item id.
func (r *Requirements) Has(id int) bool {
	_, ok := r.entries[strconv.Itoa(id)]
	return ok
}

// Add records requirements for an item id. Empty lists are ignored, and an
// existing entry is never overwritten. Returns true if a new entry was added.
func (r *Requirements) Add(id int, reqs []Requirement) bool {
	if len(reqs) == 0 {
		return false
	}
	key := strconv.Itoa(id)
	if _, ok := r.entries[key]; ok {
		return false
	}
	r.entries[key] = reqs
	return true
}

// Get returns the requirements for an item id, or nil if absent.
func (r *Requirements) Get(id int) []Requirement {
	return r.entries[strconv.Itoa(id)]
}

// Len returns the number of cached entries.
func (r *Requirements) Len() int {
	return len(r.entries)
}

// Save writes the full cache to path, pretty-printed. The file is written
// to a temp file in the same directory and renamed into place so an
// interrupted run never leaves a truncated cache behind.
func (r *Requirements) Save(path string) error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode requirements cache: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".requirements-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write requirements cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace requirements cache: %w", err)
	}

	return nil
}
