package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/port"
)

const fileExt = ".kv"

type fileEnvelope struct {
	Version int64  `json:"version"`
	Value   string `json:"value"`
}

// FileAdapter keeps one file per key under dir. Version checks are only
// serialized within this process; other processes are observed through Watch.
type FileAdapter struct {
	dir    string
	logger *zap.Logger

	mu      sync.Mutex
	written map[string]int64 // last version this process wrote per key
}

func NewFileAdapter(dir string, logger *zap.Logger) (*FileAdapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileAdapter{
		dir:     dir,
		logger:  logger,
		written: make(map[string]int64),
	}, nil
}

func (f *FileAdapter) Get(ctx context.Context, key string) (port.Entry, bool, error) {
	env, ok, err := f.read(key)
	if err != nil || !ok {
		return port.Entry{}, false, err
	}
	return port.Entry{Value: env.Value, Version: env.Version}, true, nil
}

func (f *FileAdapter) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, _, err := f.read(key)
	if err != nil {
		return 0, err
	}
	if expectedVersion != port.AnyVersion && current.Version != expectedVersion {
		return 0, port.ErrOptimisticLock
	}

	next := fileEnvelope{Version: current.Version + 1, Value: value}
	data, err := json.Marshal(next)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", key, err)
	}

	f.written[key] = next.Version
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		delete(f.written, key)
		return 0, fmt.Errorf("replace %s: %w", key, err)
	}

	return next.Version, nil
}

// Watch reports keys whose files were changed by someone other than this adapter.
// The channel is closed when ctx is done.
func (f *FileAdapter) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", f.dir, err)
	}

	changes := make(chan string, 16)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				key, ok := f.keyFromPath(event.Name)
				if !ok || f.isOwnWrite(key) {
					continue
				}
				select {
				case changes <- key:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("store watcher error", zap.Error(err))
			}
		}
	}()

	return changes, nil
}

func (f *FileAdapter) isOwnWrite(key string) bool {
	env, ok, err := f.read(key)
	if err != nil || !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written[key] == env.Version
}

func (f *FileAdapter) read(key string) (fileEnvelope, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return fileEnvelope{}, false, nil
	}
	if err != nil {
		return fileEnvelope{}, false, fmt.Errorf("read %s: %w", key, err)
	}

	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fileEnvelope{}, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return env, true, nil
}

func (f *FileAdapter) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+fileExt)
}

func (f *FileAdapter) keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, fileExt))
	if err != nil {
		return "", false
	}
	return key, true
}
