// Package file reads tables from a directory of JSON or YAML documents.
//
// Each table lives in its own file named after the table: PhantomItemData.json,
// SummonCfgData.yaml. A file holds a single array of records.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/tabula/pkg/ports"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Extensions lists the recognised table file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Source implements ports.TableSource, ports.TablePublisher and ports.Watchable on a directory.
type Source struct {
	BasePath string
	Debounce time.Duration
}

// New creates a Source rooted at basePath.
func New(basePath string) *Source {
	return &Source{BasePath: basePath, Debounce: 200 * time.Millisecond}
}

// Rows reads and parses the file backing table.
// JSON numbers are kept as json.Number so 64-bit identifiers survive intact.
func (s *Source) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	path, err := s.resolve(table)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}

	var rows []map[string]any
	if filepath.Ext(path) == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&rows)
	} else {
		err = yaml.Unmarshal(data, &rows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// Tables lists every table file in the directory, sorted by table name.
func (s *Source) Tables(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.BasePath, err)
	}
	seen := make(map[string]bool)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := tableName(e.Name())
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// resolve finds the single file backing table.
func (s *Source) resolve(table string) (string, error) {
	var found []string
	for _, ext := range Extensions {
		path := filepath.Join(s.BasePath, table+ext)
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: %s (no file in %s)", ports.ErrTableNotFound, table, s.BasePath)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("table %s is ambiguous: %s", table, strings.Join(found, ", "))
}

func tableName(file string) (string, bool) {
	ext := filepath.Ext(file)
	for _, known := range Extensions {
		if ext == known {
			name := strings.TrimSuffix(file, ext)
			return name, name != "" && !strings.HasPrefix(name, ".")
		}
	}
	return "", false
}

// Publish writes rows to <table>.json atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Source) Publish(ctx context.Context, table string, rows []map[string]any) error {
	if table == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure table directory: %w", err)
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table %s: %w", table, err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, ".tmp-"+table+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := filepath.Join(s.BasePath, table+".json")
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename table file: %w", err)
	}
	return nil
}

// Watch signals when a table file in the directory is written, created, renamed or removed.
// Bursts of events (editors saving through temp files) are coalesced over Debounce.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory (more reliable for editors that do atomic saves)
	if err := watcher.Add(s.BasePath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if _, table := tableName(filepath.Base(evt.Name)); !table {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
					!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(s.Debounce)
				} else {
					timer.Reset(s.Debounce)
				}
				fire = timer.C
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-fire:
				fire = nil
				select {
				case ch <- struct{}{}:
				default: // a reload is already pending
				}
			}
		}
	}()
	return ch, nil
}

var (
	_ ports.TableSource    = (*Source)(nil)
	_ ports.TablePublisher = (*Source)(nil)
	_ ports.Watchable      = (*Source)(nil)
)
