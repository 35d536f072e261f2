package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lib/pq"
	"github.com/lshigami/ieltsprep/internal/keylock"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/monitoring"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/lshigami/ieltsprep/internal/tracing"
	"github.com/rs/zerolog/log"
)

type FinalizeResultInput struct {
	Scope          repository.Scope
	Attempt        int
	ElapsedSeconds *float64
	Type           *string
}

type FinalizedResult struct {
	ID uint
	// Created is false when the attempt already had a result.
	Created bool
}

type ResultService interface {
	FinalizeResult(ctx context.Context, in FinalizeResultInput) (*FinalizedResult, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
	answerRepo repository.AnswerRepository
	locker     keylock.Locker
}

func NewResultService(
	resultRepo repository.ResultRepository,
	answerRepo repository.AnswerRepository,
	locker keylock.Locker,
) ResultService {
	return &resultService{resultRepo: resultRepo, answerRepo: answerRepo, locker: locker}
}

// FinalizeResult closes an attempt with a result row listing its answer ids.
// An attempt gets at most one result; repeated calls return the first one.
func (s *resultService) FinalizeResult(ctx context.Context, in FinalizeResultInput) (*FinalizedResult, error) {
	if err := validateScope(in.Scope); err != nil {
		return nil, err
	}
	if in.Attempt < 1 {
		return nil, invalid("attempt", "must be at least 1")
	}
	ctx, span := tracing.Start(ctx, "ResultService.FinalizeResult")
	defer span.End()

	unlock, err := s.locker.Lock(ctx, lockKey("result", in.Scope, in.Attempt))
	if err != nil {
		return nil, fmt.Errorf("failed to lock result key: %w", err)
	}
	defer unlock()

	existing, err := s.resultRepo.FindByAttempt(ctx, in.Scope, in.Attempt)
	if err != nil {
		return nil, fmt.Errorf("failed to look up result: %w", err)
	}
	if existing != nil {
		log.Info().Uint("resultID", existing.ID).Int("attempt", in.Attempt).Msg("Attempt already finalized")
		return s.finalized(existing.ID, false), nil
	}

	answerIDs, err := s.answerRepo.FindIDs(ctx, in.Scope.TestID, in.Scope.StudentID, in.Attempt, in.Scope.TestGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect answers of attempt %d: %w", in.Attempt, err)
	}
	ids := make(pq.Int64Array, 0, len(answerIDs))
	for _, id := range answerIDs {
		ids = append(ids, int64(id))
	}

	result := model.Result{
		Test:      in.Scope.TestID,
		Student:   in.Scope.StudentID,
		TestGroup: in.Scope.TestGroupID,
		Attempt:   in.Attempt,
		TimeSpent: in.ElapsedSeconds,
		Type:      normalizeType(in.Type),
		Answers:   ids,
	}
	if err := s.resultRepo.Create(ctx, &result); err != nil {
		// Another instance won the race on the unique key.
		if store.KindOf(err) == store.KindConflict {
			if winner, findErr := s.resultRepo.FindByAttempt(ctx, in.Scope, in.Attempt); findErr == nil && winner != nil {
				return s.finalized(winner.ID, false), nil
			}
		}
		log.Error().Err(err).Uint("testID", in.Scope.TestID).Int("attempt", in.Attempt).Msg("Failed to create result")
		return nil, fmt.Errorf("failed to create result: %w", err)
	}

	log.Info().
		Uint("resultID", result.ID).
		Uint("testID", in.Scope.TestID).
		Str("studentID", in.Scope.StudentID).
		Int("attempt", in.Attempt).
		Int("answers", len(ids)).
		Msg("Attempt finalized")
	return s.finalized(result.ID, true), nil
}

func (s *resultService) finalized(id uint, created bool) *FinalizedResult {
	monitoring.ResultsFinalized.WithLabelValues(strconv.FormatBool(created)).Inc()
	return &FinalizedResult{ID: id, Created: created}
}

// normalizeType upper-cases the first letter: "reading" becomes "Reading".
func normalizeType(t *string) *string {
	if t == nil {
		return nil
	}
	s := strings.TrimSpace(*t)
	if s == "" {
		return nil
	}
	r, size := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[size:]
	return &s
}
