// Package favorites keeps the drinks a user marked as favorite.
package favorites

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/persistence"
	"github.com/gcbaptista/go-cocktail-search/model"
)

const favoritesFileName = "favorites.gob"

// Favorite is a saved drink.
type Favorite struct {
	model.CocktailSummary
	AddedAt time.Time `json:"added_at"`
}

// Store holds favorites keyed by drink id.
type Store struct {
	mu           sync.RWMutex
	items        map[string]Favorite
	dataFilePath string // Empty disables persistence
	saveMutex    sync.Mutex
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore opens the favorites stored under dataDir. An empty dataDir keeps
// them in memory only.
func NewStore(dataDir string, opts ...Option) *Store {
	s := &Store{
		items:  make(map[string]Favorite),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	if dataDir != "" {
		s.dataFilePath = filepath.Join(dataDir, favoritesFileName)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("module", "favorites"))

	if err := s.load(); err != nil {
		s.logger.Warn("failed to load favorites", zap.Error(err))
	}
	return s
}

func validate(drink model.CocktailSummary) error {
	if strings.TrimSpace(drink.ID) == "" {
		return internalErrors.NewValidationError("id", "Drink ID is required")
	}
	if strings.TrimSpace(drink.Name) == "" {
		return internalErrors.NewValidationError("name", "Drink name is required")
	}
	return nil
}

// List returns the favorites, most recently added first.
func (s *Store) List() []Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *Store) listLocked() []Favorite {
	out := make([]Favorite, 0, len(s.items))
	for _, f := range s.items {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// IsFavorite reports whether the drink is a favorite.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Add saves a drink. Adding it again refreshes its name, thumbnail and time.
func (s *Store) Add(drink model.CocktailSummary) (Favorite, error) {
	if err := validate(drink); err != nil {
		return Favorite{}, err
	}

	s.mu.Lock()
	f := Favorite{CocktailSummary: drink, AddedAt: s.now()}
	s.items[drink.ID] = f
	s.mu.Unlock()

	return f, s.Flush()
}

// Remove deletes a favorite.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		return internalErrors.NewFavoriteNotFoundError(id)
	}
	delete(s.items, id)
	s.mu.Unlock()

	return s.Flush()
}

// Toggle adds the drink when it is not a favorite and removes it otherwise.
// It returns the new state.
func (s *Store) Toggle(drink model.CocktailSummary) (bool, error) {
	if err := validate(drink); err != nil {
		return false, err
	}

	s.mu.Lock()
	_, existed := s.items[drink.ID]
	if existed {
		delete(s.items, drink.ID)
	} else {
		s.items[drink.ID] = Favorite{CocktailSummary: drink, AddedAt: s.now()}
	}
	s.mu.Unlock()

	return !existed, s.Flush()
}

// Flush writes the favorites to disk. It is a no-op without a data directory.
func (s *Store) Flush() error {
	if s.dataFilePath == "" {
		return nil
	}
	s.saveMutex.Lock()
	defer s.saveMutex.Unlock()

	s.mu.RLock()
	snapshot := s.listLocked()
	s.mu.RUnlock()

	return persistence.SaveGob(s.dataFilePath, snapshot)
}

func (s *Store) load() error {
	if s.dataFilePath == "" {
		return nil
	}

	var snapshot []Favorite
	if err := persistence.LoadGob(s.dataFilePath, &snapshot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range snapshot {
		s.items[f.ID] = f
	}
	return nil
}
