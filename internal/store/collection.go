package store

import (
	"context"
	"fmt"
)

type tabler interface {
	TableName() string
}

// Collection binds a model type to its collection name.
type Collection[T any] struct {
	store ItemStore
	name  string
}

func NewCollection[T any](s ItemStore) *Collection[T] {
	var zero T
	name := fmt.Sprintf("%T", zero)
	if t, ok := any(zero).(tabler); ok {
		name = t.TableName()
	}
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	var items []T
	if err := c.store.Find(ctx, c.name, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// First returns the first match of q, or nil when nothing matches.
func (c *Collection[T]) First(ctx context.Context, q Query) (*T, error) {
	q.Limit = 1
	items, err := c.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (c *Collection[T]) Create(ctx context.Context, item *T) error {
	return c.store.Create(ctx, c.name, item)
}

func (c *Collection[T]) Update(ctx context.Context, id uint, fields Fields) error {
	return c.store.Update(ctx, c.name, id, fields)
}
