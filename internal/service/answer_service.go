package service

import (
	"context"
	"fmt"

	"github.com/lshigami/ieltsprep/internal/keylock"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/monitoring"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/lshigami/ieltsprep/internal/tracing"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type UpsertAnswerInput struct {
	Scope             repository.Scope
	Attempt           int
	QuestionID        uint
	Value             any
	Attachment        *string
	WritingSubmission *string
}

type AnswerService interface {
	// UpsertAnswer keeps one row per question per attempt and returns its id.
	UpsertAnswer(ctx context.Context, in UpsertAnswerInput) (uint, error)
}

type answerService struct {
	answerRepo repository.AnswerRepository
	locker     keylock.Locker
}

func NewAnswerService(answerRepo repository.AnswerRepository, locker keylock.Locker) AnswerService {
	return &answerService{answerRepo: answerRepo, locker: locker}
}

func (s *answerService) UpsertAnswer(ctx context.Context, in UpsertAnswerInput) (uint, error) {
	if err := validateScope(in.Scope); err != nil {
		return 0, err
	}
	if in.Attempt < 1 {
		return 0, invalid("attempt", "must be at least 1")
	}
	if in.QuestionID == 0 {
		return 0, invalid("questionId", "is required")
	}
	value, err := model.WrapAnswerValue(in.Value)
	if err != nil {
		return 0, invalid("value", "is not JSON encodable")
	}

	ctx, span := tracing.Start(ctx, "AnswerService.UpsertAnswer")
	defer span.End()

	id, op, err := s.upsert(ctx, in, value)
	if err != nil {
		log.Error().Err(err).
			Uint("questionID", in.QuestionID).
			Uint("testID", in.Scope.TestID).
			Int("attempt", in.Attempt).
			Msg("Failed to save answer")
		return 0, err
	}
	monitoring.AnswerUpserts.WithLabelValues(op).Inc()
	return id, nil
}

func (s *answerService) upsert(ctx context.Context, in UpsertAnswerInput, value datatypes.JSON) (uint, string, error) {
	unlock, err := s.locker.Lock(ctx, lockKey("answer", in.Scope, in.Attempt, in.QuestionID))
	if err != nil {
		return 0, "", fmt.Errorf("failed to lock answer key: %w", err)
	}
	defer unlock()

	existing, err := s.answerRepo.FindByKey(ctx, in.Scope, in.Attempt, in.QuestionID)
	if err != nil {
		return 0, "", fmt.Errorf("failed to look up answer: %w", err)
	}

	if existing != nil {
		err := s.answerRepo.Update(ctx, existing.ID, store.Fields{
			"answers":            value,
			"attachment":         in.Attachment,
			"writing_submission": in.WritingSubmission,
		})
		if err != nil {
			return 0, "", fmt.Errorf("failed to update answer %d: %w", existing.ID, err)
		}
		return existing.ID, "update", nil
	}

	answer := model.Answer{
		Test:              in.Scope.TestID,
		Student:           in.Scope.StudentID,
		TestGroup:         in.Scope.TestGroupID,
		Attempt:           in.Attempt,
		Question:          in.QuestionID,
		Answers:           value,
		Attachment:        in.Attachment,
		WritingSubmission: in.WritingSubmission,
	}
	if err := s.answerRepo.Create(ctx, &answer); err != nil {
		return 0, "", fmt.Errorf("failed to create answer: %w", err)
	}
	return answer.ID, "create", nil
}

// lockKey names the natural key of a row. parts follow the scope.
func lockKey(kind string, scope repository.Scope, parts ...any) string {
	group := "-"
	if scope.TestGroupID != nil {
		group = fmt.Sprint(*scope.TestGroupID)
	}
	key := fmt.Sprintf("%s:%d:%s:%s", kind, scope.TestID, scope.StudentID, group)
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}
