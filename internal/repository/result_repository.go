package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/store"
)

type ResultRepository interface {
	// Latest returns the result with the highest attempt in scope, or nil.
	Latest(ctx context.Context, scope Scope) (*model.Result, error)
	FindByAttempt(ctx context.Context, scope Scope, attempt int) (*model.Result, error)
	Create(ctx context.Context, result *model.Result) error
}

type resultRepository struct {
	results *store.Collection[model.Result]
}

func NewResultRepository(s store.ItemStore) ResultRepository {
	return &resultRepository{results: store.NewCollection[model.Result](s)}
}

func (r *resultRepository) Latest(ctx context.Context, scope Scope) (*model.Result, error) {
	return r.results.First(ctx, store.Query{
		Filters: scope.filters(),
		Sort:    []string{"-attempt"},
		Fields:  []string{"id", "attempt"},
	})
}

func (r *resultRepository) FindByAttempt(ctx context.Context, scope Scope, attempt int) (*model.Result, error) {
	return r.results.First(ctx, store.Query{
		Filters: append(scope.filters(), store.Eq("attempt", attempt)),
		Sort:    []string{"id"},
	})
}

func (r *resultRepository) Create(ctx context.Context, result *model.Result) error {
	return r.results.Create(ctx, result)
}
