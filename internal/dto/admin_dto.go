package dto

import "gorm.io/datatypes"

type QuestionCreateDTO struct {
	Type    string         `json:"type" binding:"required"`
	Sort    int            `json:"sort" binding:"gte=0"`
	Prompt  string         `json:"prompt"`
	Options datatypes.JSON `json:"options" swaggertype:"object"`
}

type PartCreateDTO struct {
	Title     string              `json:"title" binding:"required"`
	Sort      int                 `json:"sort" binding:"gte=0"`
	Audio     *string             `json:"audio"`
	Questions []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

type TestCreateDTO struct {
	Title       string          `json:"title" binding:"required"`
	Type        string          `json:"type" binding:"required,oneof=reading listening writing speaking"`
	Description string          `json:"description"`
	Duration    int             `json:"duration" binding:"required,gt=0"`
	Parts       []PartCreateDTO `json:"parts" binding:"required,min=1,dive"`
}
