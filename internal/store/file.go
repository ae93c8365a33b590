package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/sweeney/drift-lights/internal/channel"
)

// document is the on-disk layout, keyed by decimal channel id.
type document struct {
	Channels map[string]channel.Endpoints `json:"channels"`
}

// File stores endpoints in a single JSON file. Writes go to a temporary file
// that is renamed over the original, so a record is never half written.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile creates a File store at path. The file need not exist yet.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

// Load returns the sanitized endpoints for id.
func (f *File) Load(id channel.ID) (channel.Endpoints, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return channel.Defaults, err
	}
	ep, ok := doc.Channels[key(id)]
	if !ok {
		return channel.Defaults, nil
	}
	return ep.Sanitize(), nil
}

// Save persists the endpoints for id, keeping the other channels' records.
func (f *File) Save(id channel.ID, ep channel.Endpoints) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		// An unreadable file is replaced rather than blocking calibration.
		doc = document{}
	}
	if doc.Channels == nil {
		doc.Channels = map[string]channel.Endpoints{}
	}
	doc.Channels[key(id)] = ep
	return f.write(doc)
}

// ClearAll removes the file. Clearing an absent file is not an error.
func (f *File) ClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear endpoints: %w", err)
	}
	return nil
}

func (f *File) read() (document, error) {
	var doc document
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("read endpoints: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse endpoints %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode endpoints: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".endpoints-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write endpoints: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync endpoints: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close endpoints: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace endpoints: %w", err)
	}
	return nil
}

func key(id channel.ID) string {
	return strconv.Itoa(int(id))
}
