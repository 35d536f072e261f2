package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/jinzhu/copier"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/media"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/tracing"
	"github.com/rs/zerolog/log"
)

type TestService interface {
	GetTest(ctx context.Context, id uint) (*dto.TestDTO, error)
	GetTestGroup(ctx context.Context, id uint) (*dto.TestGroupDTO, error)
}

type testService struct {
	testRepo repository.TestRepository
	media    media.Resolver
}

func NewTestService(testRepo repository.TestRepository, mediaResolver media.Resolver) TestService {
	return &testService{testRepo: testRepo, media: mediaResolver}
}

func (s *testService) GetTest(ctx context.Context, id uint) (*dto.TestDTO, error) {
	ctx, span := tracing.Start(ctx, "TestService.GetTest")
	defer span.End()

	test, err := s.testRepo.FindByIDWithParts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load test %d: %w", id, err)
	}
	if test == nil {
		return nil, fmt.Errorf("test %d: %w", id, ErrNotFound)
	}

	var resp dto.TestDTO
	if err := copier.Copy(&resp, test); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	s.prepareTest(ctx, &resp)
	return &resp, nil
}

func (s *testService) GetTestGroup(ctx context.Context, id uint) (*dto.TestGroupDTO, error) {
	ctx, span := tracing.Start(ctx, "TestService.GetTestGroup")
	defer span.End()

	group, err := s.testRepo.FindGroupByIDWithTests(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load test group %d: %w", id, err)
	}
	if group == nil {
		return nil, fmt.Errorf("test group %d: %w", id, ErrNotFound)
	}

	var resp dto.TestGroupDTO
	if err := copier.Copy(&resp, group); err != nil {
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	if resp.Tests == nil {
		resp.Tests = []dto.TestDTO{}
	}
	for i := range resp.Tests {
		s.prepareTest(ctx, &resp.Tests[i])
	}
	return &resp, nil
}

// prepareTest orders parts and questions by their sort key and resolves part audio.
func (s *testService) prepareTest(ctx context.Context, test *dto.TestDTO) {
	if test.Parts == nil {
		test.Parts = []dto.PartDTO{}
	}
	sort.SliceStable(test.Parts, func(i, j int) bool { return test.Parts[i].Sort < test.Parts[j].Sort })
	for i := range test.Parts {
		part := &test.Parts[i]
		if part.Questions == nil {
			part.Questions = []dto.QuestionDTO{}
		}
		sort.SliceStable(part.Questions, func(a, b int) bool { return part.Questions[a].Sort < part.Questions[b].Sort })

		if part.Audio == nil || *part.Audio == "" {
			continue
		}
		url, err := s.media.ResolveURL(ctx, *part.Audio)
		if err != nil {
			log.Warn().Err(err).Uint("partID", part.ID).Msg("Could not resolve part audio URL")
			continue
		}
		part.AudioURL = url
	}
}
