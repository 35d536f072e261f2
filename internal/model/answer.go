package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Answer is one student's answer to one question inside one attempt.
// (test, student, test_group, attempt, question) identifies at most one row.
type Answer struct {
	ID                uint           `gorm:"primarykey" json:"id,omitempty"`
	Test              uint           `gorm:"column:test;not null;uniqueIndex:idx_answers_key" json:"test"`
	Student           string         `gorm:"column:student;not null;uniqueIndex:idx_answers_key" json:"student"`
	TestGroup         *uint          `gorm:"column:test_group;uniqueIndex:idx_answers_key" json:"test_group"`
	Attempt           int            `gorm:"column:attempt;not null;index;uniqueIndex:idx_answers_key" json:"attempt"`
	Question          uint           `gorm:"column:question;not null;uniqueIndex:idx_answers_key" json:"question"`
	Answers           datatypes.JSON `gorm:"column:answers" json:"answers"`
	Attachment        *string        `gorm:"column:attachment" json:"attachment"`
	WritingSubmission *string        `gorm:"column:writing_submission;type:text" json:"writing_submission"`
	CreatedAt         time.Time      `json:"-"`
	UpdatedAt         time.Time      `json:"-"`
}

func (Answer) TableName() string { return "answers" }

// FirstValue returns the single element stored in the answers array, or nil.
func (a Answer) FirstValue() any {
	if len(a.Answers) == 0 {
		return nil
	}
	var values []any
	if err := json.Unmarshal(a.Answers, &values); err != nil || len(values) == 0 {
		return nil
	}
	return values[0]
}

// WrapAnswerValue encodes v as the one-element array stored in the answers column.
func WrapAnswerValue(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal([]any{v})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
