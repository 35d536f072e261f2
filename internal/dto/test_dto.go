package dto

import "gorm.io/datatypes"

type QuestionDTO struct {
	ID      uint           `json:"id"`
	Type    string         `json:"type"`
	Sort    int            `json:"sort"`
	Prompt  string         `json:"prompt"`
	Options datatypes.JSON `json:"options,omitempty" swaggertype:"object"`
}

type PartDTO struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Sort      int           `json:"sort"`
	Audio     *string       `json:"audio,omitempty"`
	AudioURL  string        `json:"audioUrl,omitempty"`
	Questions []QuestionDTO `json:"questions"`
}

type TestDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"`
	Parts       []PartDTO `json:"parts"`
}

type TestGroupDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tests       []TestDTO `json:"tests"`
}
