package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/store"
)

type TestRepository interface {
	// Create stores a test together with its parts and questions.
	Create(ctx context.Context, test *model.Test) error
	FindByIDWithParts(ctx context.Context, id uint) (*model.Test, error)
	FindGroupByIDWithTests(ctx context.Context, id uint) (*model.TestGroup, error)
}

type testRepository struct {
	tests  *store.Collection[model.Test]
	groups *store.Collection[model.TestGroup]
}

func NewTestRepository(s store.ItemStore) TestRepository {
	return &testRepository{
		tests:  store.NewCollection[model.Test](s),
		groups: store.NewCollection[model.TestGroup](s),
	}
}

func (r *testRepository) Create(ctx context.Context, test *model.Test) error {
	return r.tests.Create(ctx, test)
}

func (r *testRepository) FindByIDWithParts(ctx context.Context, id uint) (*model.Test, error) {
	return r.tests.First(ctx, store.Query{
		Filters: []store.Condition{store.Eq("id", id)},
		Expand:  []string{"Parts.Questions"},
	})
}

func (r *testRepository) FindGroupByIDWithTests(ctx context.Context, id uint) (*model.TestGroup, error) {
	return r.groups.First(ctx, store.Query{
		Filters: []store.Condition{store.Eq("id", id)},
		Expand:  []string{"Tests.Parts.Questions"},
	})
}
