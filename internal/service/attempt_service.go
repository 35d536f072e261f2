package service

import (
	"context"
	"fmt"

	"github.com/lshigami/ieltsprep/internal/media"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/tracing"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

type AttemptAnswer struct {
	ID         uint
	QuestionID uint
	Value      any
}

type CurrentAttempt struct {
	Attempt int
	Answers []AttemptAnswer
}

type AttemptService interface {
	// ResolveCurrentAttempt finds the live attempt for scope: one past the
	// latest result, unless answers already exist for a later attempt.
	ResolveCurrentAttempt(ctx context.Context, scope repository.Scope) (*CurrentAttempt, error)
}

type attemptService struct {
	resultRepo repository.ResultRepository
	answerRepo repository.AnswerRepository
	media      media.Resolver
}

func NewAttemptService(
	resultRepo repository.ResultRepository,
	answerRepo repository.AnswerRepository,
	mediaResolver media.Resolver,
) AttemptService {
	return &attemptService{
		resultRepo: resultRepo,
		answerRepo: answerRepo,
		media:      mediaResolver,
	}
}

func (s *attemptService) ResolveCurrentAttempt(ctx context.Context, scope repository.Scope) (*CurrentAttempt, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}
	ctx, span := tracing.Start(ctx, "AttemptService.ResolveCurrentAttempt")
	defer span.End()

	maxResultAttempt := 0
	latest, err := s.resultRepo.Latest(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest result: %w", err)
	}
	if latest != nil {
		maxResultAttempt = latest.Attempt
	}

	maxAnswerAttempt, err := s.answerRepo.MaxAttempt(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest answer attempt: %w", err)
	}

	current := max(maxResultAttempt+1, maxAnswerAttempt, 1)
	span.SetAttributes(attribute.Int("attempt", current))

	rows, err := s.answerRepo.FindByAttempt(ctx, scope, current)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers of attempt %d: %w", current, err)
	}

	answers := make([]AttemptAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, AttemptAnswer{
			ID:         row.ID,
			QuestionID: row.Question,
			Value:      s.displayValue(ctx, row),
		})
	}

	log.Debug().
		Uint("testID", scope.TestID).
		Str("studentID", scope.StudentID).
		Int("maxResultAttempt", maxResultAttempt).
		Int("maxAnswerAttempt", maxAnswerAttempt).
		Int("attempt", current).
		Msg("Resolved current attempt")
	return &CurrentAttempt{Attempt: current, Answers: answers}, nil
}

// displayValue prefers the writing submission, then the playable URL of the
// attachment, then the stored answer value.
func (s *attemptService) displayValue(ctx context.Context, row model.Answer) any {
	if row.WritingSubmission != nil && *row.WritingSubmission != "" {
		return *row.WritingSubmission
	}
	if row.Attachment != nil && *row.Attachment != "" {
		url, err := s.media.ResolveURL(ctx, *row.Attachment)
		if err != nil {
			log.Warn().Err(err).Uint("answerID", row.ID).Str("attachment", *row.Attachment).Msg("Could not resolve attachment URL, returning file id")
			return *row.Attachment
		}
		return url
	}
	return row.FirstValue()
}

func validateScope(scope repository.Scope) error {
	if scope.TestID == 0 {
		return invalid("testId", "is required")
	}
	if scope.StudentID == "" {
		return invalid("studentId", "is required")
	}
	return nil
}
