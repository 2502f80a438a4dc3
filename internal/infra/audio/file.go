package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"voice-servo/internal/domain"
)

// FileSource treats each .wav file dropped into dir as one utterance.
type FileSource struct {
	fs        afero.Fs
	dir       string
	timeout   time.Duration
	interval  time.Duration
	processed map[string]bool
	mu        sync.Mutex
}

func NewFileSource(fs afero.Fs, dir string, timeout time.Duration) *FileSource {
	return &FileSource{
		fs:        fs,
		dir:       dir,
		timeout:   timeout,
		interval:  200 * time.Millisecond,
		processed: make(map[string]bool),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Start(_ context.Context) error {
	if err := f.fs.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("creating audio dir: %w", err)
	}
	return nil
}

func (f *FileSource) Stop() error {
	return nil
}

// SetPollInterval changes how often the directory is scanned.
func (f *FileSource) SetPollInterval(d time.Duration) {
	if d > 0 {
		f.interval = d
	}
}

func (f *FileSource) Capture(ctx context.Context) (domain.Utterance, error) {
	if u, ok, err := f.checkForNewFile(); err != nil || ok {
		return u, err
	}

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if f.timeout > 0 {
		timer := time.NewTimer(f.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return domain.Utterance{}, ctx.Err()
		case <-deadline:
			return domain.Utterance{}, fmt.Errorf("%w: no file within %s", domain.ErrCaptureTimeout, f.timeout)
		case <-ticker.C:
			if u, ok, err := f.checkForNewFile(); err != nil || ok {
				return u, err
			}
		}
	}
}

func (f *FileSource) checkForNewFile() (domain.Utterance, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := afero.ReadDir(f.fs, f.dir)
	if err != nil {
		return domain.Utterance{}, false, fmt.Errorf("%w: reading dir: %w", domain.ErrCaptureDevice, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		if f.processed[path] {
			continue
		}
		f.processed[path] = true

		data, err := afero.ReadFile(f.fs, path)
		if err != nil {
			return domain.Utterance{}, false, fmt.Errorf("%w: reading %s: %w", domain.ErrCaptureDevice, path, err)
		}

		if err := f.fs.Rename(path, path+".processed"); err != nil {
			return domain.Utterance{}, false, fmt.Errorf("%w: renaming %s: %w", domain.ErrCaptureDevice, path, err)
		}

		u, err := decodeWAVBytes(data)
		if err != nil {
			return domain.Utterance{}, false, fmt.Errorf("%w: decoding %s: %w", domain.ErrCaptureDevice, path, err)
		}

		return u, true, nil
	}

	return domain.Utterance{}, false, nil
}
