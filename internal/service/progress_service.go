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
)

type ProgressAction string

const (
	ProgressCreated        ProgressAction = "created"
	ProgressUpdated        ProgressAction = "updated"
	ProgressPartialUpdated ProgressAction = "partial_updated"
	ProgressSkipped        ProgressAction = "skipped"
)

type SaveProgressInput struct {
	Scope              repository.Scope
	RemainingTime      float64
	RemainingAudioTime *float64
	CurrentPart        *int
}

// ProgressOutcome reports what a save did. Which fields are set depends on Action:
// created sets ID; updated sets PreviousTime (nil when none was stored) and
// NewTime; partial_updated and skipped set CurrentTime and AttemptedTime, and
// partial_updated also lists UpdatedFields.
type ProgressOutcome struct {
	Action        ProgressAction
	ID            uint
	PreviousTime  *float64
	NewTime       float64
	CurrentTime   *float64
	AttemptedTime float64
	UpdatedFields []string
}

type ProgressService interface {
	SaveProgress(ctx context.Context, in SaveProgressInput) (*ProgressOutcome, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	locker       keylock.Locker
}

func NewProgressService(progressRepo repository.ProgressRepository, locker keylock.Locker) ProgressService {
	return &progressService{progressRepo: progressRepo, locker: locker}
}

// SaveProgress upserts the checkpoint of scope. remaining_time only ever
// moves down; the audio position and current part are written whenever
// they are supplied.
func (s *progressService) SaveProgress(ctx context.Context, in SaveProgressInput) (*ProgressOutcome, error) {
	if err := validateScope(in.Scope); err != nil {
		return nil, err
	}
	ctx, span := tracing.Start(ctx, "ProgressService.SaveProgress")
	defer span.End()

	unlock, err := s.locker.Lock(ctx, lockKey("progress", in.Scope))
	if err != nil {
		return nil, fmt.Errorf("failed to lock progress key: %w", err)
	}
	defer unlock()

	existing, err := s.progressRepo.FindByScope(ctx, in.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to look up progress: %w", err)
	}

	outcome, err := s.apply(ctx, existing, in)
	if err != nil {
		log.Error().Err(err).
			Uint("testID", in.Scope.TestID).
			Str("studentID", in.Scope.StudentID).
			Float64("remainingTime", in.RemainingTime).
			Msg("Failed to save progress")
		return nil, err
	}
	monitoring.ProgressSaves.WithLabelValues(string(outcome.Action)).Inc()
	return outcome, nil
}

func (s *progressService) apply(ctx context.Context, existing *model.TestProgress, in SaveProgressInput) (*ProgressOutcome, error) {
	if existing == nil {
		remaining := in.RemainingTime
		progress := model.TestProgress{
			Test:               in.Scope.TestID,
			Student:            in.Scope.StudentID,
			TestGroup:          in.Scope.TestGroupID,
			RemainingTime:      &remaining,
			RemainingAudioTime: in.RemainingAudioTime,
			CurrentPart:        in.CurrentPart,
		}
		if err := s.progressRepo.Create(ctx, &progress); err != nil {
			return nil, fmt.Errorf("failed to create progress: %w", err)
		}
		return &ProgressOutcome{Action: ProgressCreated, ID: progress.ID}, nil
	}

	aux, names := auxiliaryFields(in)

	if existing.RemainingTime == nil || in.RemainingTime < *existing.RemainingTime {
		fields := store.Fields{"remaining_time": in.RemainingTime}
		for k, v := range aux {
			fields[k] = v
		}
		if err := s.progressRepo.Update(ctx, existing.ID, fields); err != nil {
			return nil, fmt.Errorf("failed to update progress %d: %w", existing.ID, err)
		}
		return &ProgressOutcome{
			Action:       ProgressUpdated,
			ID:           existing.ID,
			PreviousTime: existing.RemainingTime,
			NewTime:      in.RemainingTime,
		}, nil
	}

	if len(aux) > 0 {
		if err := s.progressRepo.Update(ctx, existing.ID, aux); err != nil {
			return nil, fmt.Errorf("failed to update progress %d: %w", existing.ID, err)
		}
		return &ProgressOutcome{
			Action:        ProgressPartialUpdated,
			ID:            existing.ID,
			CurrentTime:   existing.RemainingTime,
			AttemptedTime: in.RemainingTime,
			UpdatedFields: names,
		}, nil
	}

	return &ProgressOutcome{
		Action:        ProgressSkipped,
		ID:            existing.ID,
		CurrentTime:   existing.RemainingTime,
		AttemptedTime: in.RemainingTime,
	}, nil
}

// auxiliaryFields returns the supplied auxiliary columns and their request names.
func auxiliaryFields(in SaveProgressInput) (store.Fields, []string) {
	fields := store.Fields{}
	var names []string
	if in.RemainingAudioTime != nil {
		fields["remaining_audio_time"] = *in.RemainingAudioTime
		names = append(names, "remainingAudioTime")
	}
	if in.CurrentPart != nil {
		fields["current_part"] = *in.CurrentPart
		names = append(names, "currentPart")
	}
	return fields, names
}
