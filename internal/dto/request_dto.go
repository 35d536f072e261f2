package dto

// ProgressRequest is a progress checkpoint. Pages send it with
// navigator.sendBeacon too, so the body may arrive as text/plain.
type ProgressRequest struct {
	TestID             *uint    `json:"testId" binding:"required,gt=0"`
	StudentID          string   `json:"studentId" binding:"required"`
	RemainingTime      *float64 `json:"remainingTime" binding:"required"`
	TestGroupID        *uint    `json:"testGroupId"`
	RemainingAudioTime *float64 `json:"remainingAudioTime"`
	CurrentPart        *int     `json:"currentPart"`
}

type CurrentAttemptQuery struct {
	StudentID   string `form:"studentId" binding:"required"`
	TestGroupID *uint  `form:"testGroupId"`
}

type AnswerUpsertRequest struct {
	StudentID  string `json:"studentId" binding:"required"`
	Attempt    int    `json:"attempt" binding:"required,min=1"`
	QuestionID uint   `json:"questionId" binding:"required"`
	// Value is whatever the question type produces: a choice, free text, a list.
	Value             any     `json:"value"`
	Attachment        *string `json:"attachment"`
	WritingSubmission *string `json:"writingSubmission"`
	TestGroupID       *uint   `json:"testGroupId"`
}

type ResultRequest struct {
	StudentID      string   `json:"studentId" binding:"required"`
	Attempt        int      `json:"attempt" binding:"required,min=1"`
	ElapsedSeconds *float64 `json:"elapsedSeconds" binding:"omitempty,gte=0"`
	Type           *string  `json:"type"`
	TestGroupID    *uint    `json:"testGroupId"`
}

type WritingFeedbackRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Text       string `json:"text" binding:"required"`
}
