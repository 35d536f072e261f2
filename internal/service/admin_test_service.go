package service

import (
	"context"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminTestService interface {
	CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestDTO, error)
}

type adminTestService struct {
	testRepo    repository.TestRepository
	testService TestService
}

func NewAdminTestService(testRepo repository.TestRepository, testService TestService) AdminTestService {
	return &adminTestService{testRepo: testRepo, testService: testService}
}

func (s *adminTestService) CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestDTO, error) {
	partSorts := make(map[int]bool)
	for _, p := range req.Parts {
		if partSorts[p.Sort] {
			return nil, invalid("parts", fmt.Sprintf("have duplicate sort %d", p.Sort))
		}
		partSorts[p.Sort] = true

		questionSorts := make(map[int]bool)
		for _, q := range p.Questions {
			if questionSorts[q.Sort] {
				return nil, invalid("questions", fmt.Sprintf("of part %q have duplicate sort %d", p.Title, q.Sort))
			}
			questionSorts[q.Sort] = true
		}
	}

	var testModel model.Test
	if err := copier.Copy(&testModel, &req); err != nil {
		return nil, fmt.Errorf("error preparing test data: %w", err)
	}
	if err := s.testRepo.Create(ctx, &testModel); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to create test")
		return nil, fmt.Errorf("store error creating test: %w", err)
	}
	log.Info().Uint("testID", testModel.ID).Int("parts", len(testModel.Parts)).Msg("Test created")

	created, err := s.testService.GetTest(ctx, testModel.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testModel.ID).Msg("Failed to retrieve newly created test for response")
		var fallbackResp dto.TestDTO
		if err := copier.Copy(&fallbackResp, &testModel); err != nil {
			return nil, fmt.Errorf("error mapping created test %d: %w", testModel.ID, err)
		}
		return &fallbackResp, nil
	}
	return created, nil
}
