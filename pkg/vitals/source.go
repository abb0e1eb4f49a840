package vitals

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/babylog/babylog/internal/utils"
	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultHistoryLimit   = 100
	DefaultSummariesLimit = 30
)

// Source is the read side of the sync agent's files.
type Source interface {
	Latest() (Reading, error)
	// History returns the rolling history, newest first. The legacy vitals
	// file is used when the history file does not exist.
	History() ([]Reading, bool, error)
	Summaries(limit int) ([]Summary, error)
	TodaysHourly() (TodaysHourly, error)
}

type cacheEntry struct {
	value any
	err   error
}

// FileSource reads the snapshot files from disk. With caching enabled decoded
// files are kept until Invalidate is called for their path, which the watcher
// does on every change.
type FileSource struct {
	paths    Paths
	location *time.Location
	clock    utils.Clock
	caching  bool

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewFileSource(paths Paths, location *time.Location, clock utils.Clock, caching bool) *FileSource {
	return &FileSource{
		paths:    paths,
		location: location,
		clock:    clock,
		caching:  caching,
		cache:    make(map[string]cacheEntry),
	}
}

func (s *FileSource) Paths() Paths {
	return s.paths
}

// Invalidate drops the cached value of path and of its directory listing.
func (s *FileSource) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, path)
	delete(s.cache, filepath.Dir(path))
}

func (s *FileSource) Latest() (Reading, error) {
	return cached(s, s.paths.Latest, func() (Reading, error) {
		return readJSON[Reading](s.paths.Latest)
	})
}

func (s *FileSource) History() ([]Reading, bool, error) {
	path := s.paths.History
	if !exists(path) {
		path = s.paths.Legacy
		if !exists(path) {
			return nil, false, nil
		}
	}
	history, err := cached(s, path, func() ([]Reading, error) {
		return readJSON[[]Reading](path)
	})
	if err != nil {
		if errors.Is(err, ErrInvalidData) || errors.Is(err, ErrNoData) {
			log.Warnf("vitals history %s unreadable, treating as empty: %v", path, err)
			return []Reading{}, true, nil
		}
		return nil, true, err
	}
	return history, true, nil
}

func (s *FileSource) Summaries(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultSummariesLimit
	}

	names, err := cached(s, s.paths.SummariesDir, func() ([]string, error) {
		return listSummaryFiles(s.paths.SummariesDir)
	})
	if err != nil {
		if errors.Is(err, ErrNoData) {
			return []Summary{}, nil
		}
		return nil, err
	}

	summaries := make([]Summary, 0, limit+1)
	for _, name := range names {
		if len(summaries) == limit {
			break
		}
		path := filepath.Join(s.paths.SummariesDir, name)
		summary, err := cached(s, path, func() (Summary, error) {
			return readJSON[Summary](path)
		})
		if err != nil {
			log.Warnf("skipping daily summary %s: %v", path, err)
			continue
		}
		if summary.Date == "" {
			continue
		}
		summaries = append(summaries, summary)
	}

	today, err := s.readTodaysHourly()
	if err == nil && len(today.Hourly) > 0 {
		summaries = append([]Summary{today.ToSummary()}, summaries...)
	}
	return summaries, nil
}

func (s *FileSource) TodaysHourly() (TodaysHourly, error) {
	today, err := s.readTodaysHourly()
	if err != nil {
		if errors.Is(err, ErrNoData) || errors.Is(err, ErrInvalidData) {
			return TodaysHourly{
				Date:   s.clock.Now().In(s.location).Format(time.DateOnly),
				Hourly: []HourlyMetrics{},
			}, nil
		}
		return TodaysHourly{}, err
	}
	if today.Hourly == nil {
		today.Hourly = []HourlyMetrics{}
	}
	return today, nil
}

func (s *FileSource) readTodaysHourly() (TodaysHourly, error) {
	return cached(s, s.paths.TodaysHourly, func() (TodaysHourly, error) {
		return readJSON[TodaysHourly](s.paths.TodaysHourly)
	})
}

func cached[T any](s *FileSource, key string, load func() (T, error)) (T, error) {
	if s.caching {
		s.mu.RLock()
		entry, ok := s.cache[key]
		s.mu.RUnlock()
		if ok {
			if entry.err != nil {
				var zero T
				return zero, entry.err
			}
			return entry.value.(T), nil
		}
	}

	value, err := load()
	if s.caching && (err == nil || errors.Is(err, ErrNoData) || errors.Is(err, ErrInvalidData)) {
		s.mu.Lock()
		s.cache[key] = cacheEntry{value: value, err: err}
		s.mu.Unlock()
	}
	return value, err
}

func readJSON[T any](path string) (T, error) {
	var value T
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return value, ErrNoData
		}
		return value, fmt.Errorf("could not read %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return value, ErrInvalidData
	}
	if err := sonic.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("%w: %s: %v", ErrInvalidData, path, err)
	}
	return value, nil
}

// listSummaryFiles returns the .json entries of dir, names descending.
func listSummaryFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
