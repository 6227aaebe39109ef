package pantry

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/persistence"
)

const (
	cabinetFileName = "cabinet.gob"

	// MaxIngredientNameLength bounds stored ingredient names, in characters.
	MaxIngredientNameLength = 128

	// FullQuantity is the quantity of a freshly added ingredient.
	FullQuantity = 1.0
)

// Item is one stored cabinet ingredient. Quantity is the fraction left, 0 to 1.
type Item struct {
	ID       int       `json:"id"`
	Name     string    `json:"ingredient_name"`
	Quantity float64   `json:"quantity"`
	AddedAt  time.Time `json:"added_at"`
}

// cabinetSnapshot is the persisted form of a Cabinet.
type cabinetSnapshot struct {
	NextID int
	Items  []Item
}

// Cabinet is the stored set of ingredients at home.
// Names are unique ignoring case and spacing.
type Cabinet struct {
	mu           sync.RWMutex
	items        map[int]*Item
	byKey        map[string]int
	nextID       int
	dataFilePath string // Empty disables persistence
	saveMutex    sync.Mutex
	logger       *zap.Logger
	now          func() time.Time
}

// NewCabinet opens the cabinet stored under dataDir. An empty dataDir keeps it
// in memory only. A nil logger disables logging.
func NewCabinet(dataDir string, logger *zap.Logger) *Cabinet {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cabinet{
		items:  make(map[int]*Item),
		byKey:  make(map[string]int),
		nextID: 1,
		logger: logger.With(zap.String("module", "cabinet")),
		now:    time.Now,
	}
	if dataDir != "" {
		c.dataFilePath = filepath.Join(dataDir, cabinetFileName)
	}

	if err := c.load(); err != nil {
		c.logger.Warn("failed to load cabinet", zap.Error(err))
	}
	return c
}

// ValidateQuantity checks that q is a fraction between 0 and 1.
func ValidateQuantity(q float64) error {
	if !(q >= 0 && q <= 1) {
		return internalErrors.NewValidationError("quantity", "Quantity must be between 0 and 1")
	}
	return nil
}

func validateIngredientName(name string) error {
	if name == "" {
		return internalErrors.NewValidationError("ingredient_name", "Ingredient name is required")
	}
	if utf8.RuneCountInString(name) > MaxIngredientNameLength {
		return internalErrors.NewValidationError("ingredient_name", "Ingredient name is too long")
	}
	return nil
}

// List returns every item in the order it was first added.
func (c *Cabinet) List() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listLocked()
}

func (c *Cabinet) listLocked() []Item {
	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Names returns the stored ingredient names in the order they were added.
func (c *Cabinet) Names() []string {
	items := c.List()
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

// Len returns the number of stored ingredients.
func (c *Cabinet) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Add stores an ingredient. Adding a name that is already stored only updates
// its quantity; created reports whether a new item was made.
func (c *Cabinet) Add(name string, quantity float64) (item Item, created bool, err error) {
	name = strings.Join(strings.Fields(name), " ")
	if err := validateIngredientName(name); err != nil {
		return Item{}, false, err
	}
	if err := ValidateQuantity(quantity); err != nil {
		return Item{}, false, err
	}

	c.mu.Lock()
	k := key(name)
	if id, ok := c.byKey[k]; ok {
		c.items[id].Quantity = quantity
		item = *c.items[id]
	} else {
		item = Item{ID: c.nextID, Name: name, Quantity: quantity, AddedAt: c.now()}
		c.items[item.ID] = &item
		c.byKey[k] = item.ID
		c.nextID++
		created = true
	}
	c.mu.Unlock()

	return item, created, c.Flush()
}

// Update changes the quantity of a stored ingredient.
func (c *Cabinet) Update(id int, quantity float64) (Item, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return Item{}, err
	}

	c.mu.Lock()
	stored, ok := c.items[id]
	if !ok {
		c.mu.Unlock()
		return Item{}, internalErrors.NewCabinetItemNotFoundError(id)
	}
	stored.Quantity = quantity
	item := *stored
	c.mu.Unlock()

	return item, c.Flush()
}

// Remove deletes a stored ingredient.
func (c *Cabinet) Remove(id int) error {
	c.mu.Lock()
	item, ok := c.items[id]
	if !ok {
		c.mu.Unlock()
		return internalErrors.NewCabinetItemNotFoundError(id)
	}
	delete(c.byKey, key(item.Name))
	delete(c.items, id)
	c.mu.Unlock()

	return c.Flush()
}

// Flush writes the cabinet to disk. It is a no-op without a data directory.
func (c *Cabinet) Flush() error {
	if c.dataFilePath == "" {
		return nil
	}
	c.saveMutex.Lock()
	defer c.saveMutex.Unlock()

	c.mu.RLock()
	snapshot := cabinetSnapshot{NextID: c.nextID, Items: c.listLocked()}
	c.mu.RUnlock()

	return persistence.SaveGob(c.dataFilePath, snapshot)
}

func (c *Cabinet) load() error {
	if c.dataFilePath == "" {
		return nil
	}

	var snapshot cabinetSnapshot
	if err := persistence.LoadGob(c.dataFilePath, &snapshot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range snapshot.Items {
		item := snapshot.Items[i]
		c.items[item.ID] = &item
		c.byKey[key(item.Name)] = item.ID
		if item.ID >= c.nextID {
			c.nextID = item.ID + 1
		}
	}
	if snapshot.NextID > c.nextID {
		c.nextID = snapshot.NextID
	}
	c.logger.Debug("cabinet loaded", zap.Int("items", len(c.items)))
	return nil
}
