package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/store"
)

type AnswerRepository interface {
	FindByKey(ctx context.Context, scope Scope, attempt int, questionID uint) (*model.Answer, error)
	// MaxAttempt returns the highest attempt that has answers in scope, or 0.
	MaxAttempt(ctx context.Context, scope Scope) (int, error)
	FindByAttempt(ctx context.Context, scope Scope, attempt int) ([]model.Answer, error)
	// FindIDs lists answer ids of one attempt. The test group only narrows
	// the match when it is set.
	FindIDs(ctx context.Context, testID uint, studentID string, attempt int, testGroupID *uint) ([]uint, error)
	Create(ctx context.Context, answer *model.Answer) error
	Update(ctx context.Context, id uint, fields store.Fields) error
}

type answerRepository struct {
	answers *store.Collection[model.Answer]
}

func NewAnswerRepository(s store.ItemStore) AnswerRepository {
	return &answerRepository{answers: store.NewCollection[model.Answer](s)}
}

func (r *answerRepository) FindByKey(ctx context.Context, scope Scope, attempt int, questionID uint) (*model.Answer, error) {
	filters := append(scope.filters(),
		store.Eq("attempt", attempt),
		store.Eq("question", questionID),
	)
	return r.answers.First(ctx, store.Query{Filters: filters})
}

func (r *answerRepository) MaxAttempt(ctx context.Context, scope Scope) (int, error) {
	latest, err := r.answers.First(ctx, store.Query{
		Filters: scope.filters(),
		Sort:    []string{"-attempt"},
		Fields:  []string{"id", "attempt"},
	})
	if err != nil || latest == nil {
		return 0, err
	}
	return latest.Attempt, nil
}

func (r *answerRepository) FindByAttempt(ctx context.Context, scope Scope, attempt int) ([]model.Answer, error) {
	return r.answers.Find(ctx, store.Query{
		Filters: append(scope.filters(), store.Eq("attempt", attempt)),
		Sort:    []string{"id"},
	})
}

func (r *answerRepository) FindIDs(ctx context.Context, testID uint, studentID string, attempt int, testGroupID *uint) ([]uint, error) {
	filters := []store.Condition{
		store.Eq("test", testID),
		store.Eq("student", studentID),
		store.Eq("attempt", attempt),
	}
	if testGroupID != nil {
		filters = append(filters, store.Eq("test_group", *testGroupID))
	}
	rows, err := r.answers.Find(ctx, store.Query{Filters: filters, Sort: []string{"id"}, Fields: []string{"id"}})
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *answerRepository) Create(ctx context.Context, answer *model.Answer) error {
	return r.answers.Create(ctx, answer)
}

func (r *answerRepository) Update(ctx context.Context, id uint, fields store.Fields) error {
	return r.answers.Update(ctx, id, fields)
}
