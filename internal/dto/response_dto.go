package dto

type ErrorResponse struct {
	Error string `json:"error"`
	// Redirect is set when the session expired and the client should log in again.
	Redirect string `json:"redirect,omitempty"`
}

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ProgressResponse struct {
	Success       bool     `json:"success"`
	Action        string   `json:"action"`
	ID            *uint    `json:"id,omitempty"`
	PreviousTime  *float64 `json:"previousTime,omitempty"`
	NewTime       *float64 `json:"newTime,omitempty"`
	CurrentTime   *float64 `json:"currentTime,omitempty"`
	AttemptedTime *float64 `json:"attemptedTime,omitempty"`
	UpdatedFields []string `json:"updatedFields,omitempty"`
}

type AttemptAnswerDTO struct {
	ID         uint `json:"id"`
	QuestionID uint `json:"questionId"`
	Value      any  `json:"value"`
}

type CurrentAttemptResponse struct {
	Attempt int                `json:"attempt"`
	Answers []AttemptAnswerDTO `json:"answers"`
}

type AnswerUpsertResponse struct {
	ID uint `json:"id"`
}

type ResultResponse struct {
	ID      uint `json:"id"`
	Created bool `json:"created"`
}

type WritingFeedbackResponse struct {
	Band     float64 `json:"band"`
	Feedback string  `json:"feedback"`
}
