package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/store"
)

type ProgressRepository interface {
	FindByScope(ctx context.Context, scope Scope) (*model.TestProgress, error)
	Create(ctx context.Context, progress *model.TestProgress) error
	Update(ctx context.Context, id uint, fields store.Fields) error
}

type progressRepository struct {
	progress *store.Collection[model.TestProgress]
}

func NewProgressRepository(s store.ItemStore) ProgressRepository {
	return &progressRepository{progress: store.NewCollection[model.TestProgress](s)}
}

func (r *progressRepository) FindByScope(ctx context.Context, scope Scope) (*model.TestProgress, error) {
	return r.progress.First(ctx, store.Query{Filters: scope.filters(), Sort: []string{"id"}})
}

func (r *progressRepository) Create(ctx context.Context, progress *model.TestProgress) error {
	return r.progress.Create(ctx, progress)
}

func (r *progressRepository) Update(ctx context.Context, id uint, fields store.Fields) error {
	return r.progress.Update(ctx, id, fields)
}
