package repository

import (
	"context"

	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/store"
)

type QuestionRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Question, error)
}

type questionRepository struct {
	questions *store.Collection[model.Question]
}

func NewQuestionRepository(s store.ItemStore) QuestionRepository {
	return &questionRepository{questions: store.NewCollection[model.Question](s)}
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	return r.questions.First(ctx, store.Query{Filters: []store.Condition{store.Eq("id", id)}})
}
