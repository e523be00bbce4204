// Package store holds the currently loaded dataset.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ukaji3/compliance-go/pkg/compliance"
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// ErrNotLoaded indicates no workbook has been loaded yet.
var ErrNotLoaded = errors.New("no workbook loaded")

// Snapshot is one immutable parse result. Callers must not modify it.
type Snapshot struct {
	ID        string              `json:"id"`
	Source    string              `json:"source"`
	LoadedAt  time.Time           `json:"loaded_at"`
	Districts models.DistrictList `json:"districts"`
}

// Store keeps the current snapshot. Loads replace it wholesale; a failed
// load leaves it untouched.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot

	opts   compliance.Options
	cache  *cache.Cache
	logger *zap.Logger
	now    func() time.Time
}

// Config configures a Store.
type Config struct {
	Options compliance.Options
	// CacheTTL keeps parse results keyed by content hash.
	CacheTTL time.Duration
	// CleanupInterval purges expired cache entries; zero disables purging.
	CleanupInterval time.Duration
}

// New creates an empty store.
func New(cfg Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		opts:   cfg.Options,
		cache:  cache.New(cfg.CacheTTL, cfg.CleanupInterval),
		logger: logger,
		now:    time.Now,
	}
}

// Current returns the loaded snapshot.
func (s *Store) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotLoaded
	}
	return s.current, nil
}

// Loaded reports whether any workbook has been loaded. A loaded workbook
// may still hold zero districts.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Replace installs districts as the current snapshot.
func (s *Store) Replace(source string, districts models.DistrictList) *Snapshot {
	if districts == nil {
		districts = models.DistrictList{}
	}
	snap := &Snapshot{
		ID:        uuid.New().String(),
		Source:    source,
		LoadedAt:  s.now().UTC(),
		Districts: districts,
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.logger.Info("dataset replaced",
		zap.String("id", snap.ID),
		zap.String("source", source),
		zap.Int("districts", len(districts)),
		zap.Int("villages", districts.VillageCount()))
	return snap
}

// Load parses buf and replaces the current snapshot. Identical content is
// served from the parse cache. On error the current snapshot is kept.
func (s *Store) Load(buf []byte, source string) (*Snapshot, error) {
	districts, err := s.parse(buf)
	if err != nil {
		s.logger.Warn("workbook rejected", zap.String("source", source), zap.Error(err))
		return nil, err
	}
	return s.Replace(source, districts), nil
}

// Clear forgets the current snapshot and the parse cache.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.cache.Flush()
}

func (s *Store) parse(buf []byte) (models.DistrictList, error) {
	key := contentKey(buf)
	if v, ok := s.cache.Get(key); ok {
		s.logger.Debug("parse cache hit", zap.String("key", key))
		return v.(models.DistrictList), nil
	}

	districts, err := compliance.Parse(buf, s.opts)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, districts)
	return districts, nil
}

func contentKey(buf []byte) string {
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
