package appstate

import (
	"context"
	"fmt"
	"sync"

	"clinic_crm_backend/internal/repositories"

	"github.com/google/uuid"
)

// Collection is the in-memory copy of one entity list. Writes go to the gateway
// first and touch memory only when the gateway accepted them.
type Collection[T any] struct {
	mu sync.RWMutex
	// writeMu serializes writes across the gateway call so Update's
	// read-modify-write is atomic.
	writeMu sync.Mutex
	name    string
	gateway repositories.Gateway[T]
	items   []T

	idOf    func(T) string
	setID   func(*T, string)
	clone   func(T) T
	prepend bool
	newID   func() string
}

// CollectionOption customises a Collection.
type CollectionOption[T any] func(*Collection[T])

// WithClone sets the deep-copy function used whenever records leave the collection.
func WithClone[T any](clone func(T) T) CollectionOption[T] {
	return func(c *Collection[T]) { c.clone = clone }
}

// WithPrepend makes new records appear at the head of the list.
func WithPrepend[T any]() CollectionOption[T] {
	return func(c *Collection[T]) { c.prepend = true }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator[T any](newID func() string) CollectionOption[T] {
	return func(c *Collection[T]) { c.newID = newID }
}

func NewCollection[T any](name string, gateway repositories.Gateway[T], idOf func(T) string, setID func(*T, string), opts ...CollectionOption[T]) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		gateway: gateway,
		idOf:    idOf,
		setID:   setID,
		clone:   func(v T) T { return v },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collection[T]) Name() string {
	return c.name
}

// fetch reads the backend list and returns the function that installs it.
func (c *Collection[T]) fetch(ctx context.Context) (func(), error) {
	items, err := c.gateway.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.name, err)
	}
	return func() {
		c.mu.Lock()
		c.items = items
		c.mu.Unlock()
	}, nil
}

// Load replaces the in-memory list with the backend's.
func (c *Collection[T]) Load(ctx context.Context) error {
	commit, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	commit()
	return nil
}

// All returns a copy of every record in collection order.
func (c *Collection[T]) All() []T {
	return c.Filter(nil)
}

// Filter returns copies of the records keep accepts; nil keeps everything.
func (c *Collection[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if keep == nil || keep(item) {
			out = append(out, c.clone(item))
		}
	}
	return out
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.clone(c.items[i]), true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Save assigns an id to new records, upserts through the gateway and then
// replaces the record with the same id or adds it.
func (c *Collection[T]) Save(ctx context.Context, item T) (T, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.save(ctx, item)
}

// save must be called with writeMu held.
func (c *Collection[T]) save(ctx context.Context, item T) (T, error) {
	if c.idOf(item) == "" {
		c.setID(&item, c.newID())
	}
	if err := c.gateway.Upsert(ctx, item); err != nil {
		var zero T
		return zero, fmt.Errorf("saving %s %s: %w", c.name, c.idOf(item), err)
	}

	stored := c.clone(item)
	c.mu.Lock()
	if i := c.indexOf(c.idOf(item)); i >= 0 {
		c.items[i] = stored
	} else if c.prepend {
		c.items = append([]T{stored}, c.items...)
	} else {
		c.items = append(c.items, stored)
	}
	c.mu.Unlock()
	return item, nil
}

// Update applies mutate to a copy of the stored record and saves the result.
// No other write to the collection runs between the read and the save, so
// mutate must not write to the same collection.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	item, ok := c.Get(id)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %s", repositories.ErrNotFound, c.name, id)
	}
	if err := mutate(&item); err != nil {
		var zero T
		return zero, err
	}
	c.setID(&item, id)
	return c.save(ctx, item)
}

// Delete hard-deletes through the gateway, then drops the record from memory.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s %s: %w", c.name, id, err)
	}
	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.mu.Unlock()
	return nil
}

// indexOf must be called with mu held.
func (c *Collection[T]) indexOf(id string) int {
	for i, item := range c.items {
		if c.idOf(item) == id {
			return i
		}
	}
	return -1
}
