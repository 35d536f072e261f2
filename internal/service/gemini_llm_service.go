package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/tracing"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type WritingFeedback struct {
	Band     float64
	Feedback string
}

type WritingFeedbackService interface {
	Evaluate(ctx context.Context, questionID uint, text string) (*WritingFeedback, error)
}

// contentGenerator is the part of *genai.GenerativeModel the service uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type writingFeedbackService struct {
	questionRepo repository.QuestionRepository
	model        contentGenerator
}

func NewWritingFeedbackService(cfg *config.Config, questionRepo repository.QuestionRepository) (WritingFeedbackService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Writing feedback will be unavailable.")
		return &writingFeedbackService{questionRepo: questionRepo}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &writingFeedbackService{questionRepo: questionRepo, model: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (s *writingFeedbackService) Evaluate(ctx context.Context, questionID uint, text string) (*WritingFeedback, error) {
	if s.model == nil {
		return nil, ErrWritingFeedbackDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalid("text", "is required")
	}
	ctx, span := tracing.Start(ctx, "WritingFeedbackService.Evaluate")
	defer span.End()

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question %d: %w", questionID, err)
	}
	if question == nil {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildWritingPrompt(question.Type, question.Prompt, text)))
	if err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("Gemini API error during writing evaluation")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	var raw strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				raw.WriteString(string(txt))
			}
		}
	}
	if raw.Len() == 0 {
		return nil, fmt.Errorf("gemini returned no text content")
	}

	band, feedback, err := parseBandAndFeedback(raw.String())
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", raw.String()).Msg("Failed to parse band and feedback from Gemini response")
		return nil, err
	}
	return &WritingFeedback{Band: band, Feedback: feedback}, nil
}

func buildWritingPrompt(questionType, taskPrompt, answer string) string {
	var b strings.Builder
	b.WriteString("You are an experienced IELTS Writing examiner.\n")
	switch questionType {
	case "writing_task_1":
		b.WriteString("Evaluate the following IELTS Academic Writing Task 1 response (report on visual information, at least 150 words).\n")
		b.WriteString("Use the official criteria: Task Achievement, Coherence and Cohesion, Lexical Resource, Grammatical Range and Accuracy.\n\n")
	default:
		b.WriteString("Evaluate the following IELTS Writing Task 2 response (essay, at least 250 words).\n")
		b.WriteString("Use the official criteria: Task Response, Coherence and Cohesion, Lexical Resource, Grammatical Range and Accuracy.\n\n")
	}
	b.WriteString("Task:\n---\n")
	b.WriteString(taskPrompt)
	b.WriteString("\n---\n\nCandidate's answer:\n---\n")
	b.WriteString(answer)
	b.WriteString("\n---\n\n")
	b.WriteString("Format your response strictly as:\nBand: [overall band from 0 to 9 in steps of 0.5]\nFeedback:\n[strengths, errors with corrections, and advice per criterion]\n")
	return b.String()
}

// parseBandAndFeedback reads the "Band:" line and everything after
// "Feedback:". The band is clamped to 0..9 and rounded to the nearest half.
func parseBandAndFeedback(raw string) (float64, string, error) {
	const bandPrefix, feedbackPrefix = "Band:", "Feedback:"

	bandIndex := strings.Index(raw, bandPrefix)
	if bandIndex == -1 {
		return 0, "", fmt.Errorf("response does not contain %q", bandPrefix)
	}
	line := raw[bandIndex+len(bandPrefix):]
	if nl := strings.Index(line, "\n"); nl != -1 {
		line = line[:nl]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("empty band value")
	}
	band, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "."), 64)
	if err != nil {
		return 0, "", fmt.Errorf("could not parse band value %q: %w", fields[0], err)
	}
	band = math.Round(math.Min(math.Max(band, 0), 9)*2) / 2

	feedback := ""
	if i := strings.Index(raw, feedbackPrefix); i != -1 && i > bandIndex {
		feedback = strings.TrimSpace(raw[i+len(feedbackPrefix):])
	}
	return band, feedback, nil
}
