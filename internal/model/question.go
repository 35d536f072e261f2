package model

import (
	"gorm.io/datatypes"
)

type Question struct {
	ID      uint           `gorm:"primarykey" json:"id,omitempty"`
	PartID  uint           `json:"part" gorm:"column:part;not null;index"`
	Type    string         `json:"type" gorm:"not null"` // "multiple_choice", "gap_fill", "essay", "recording", ...
	Sort    int            `json:"sort"`
	Prompt  string         `json:"prompt" gorm:"type:text"`
	Options datatypes.JSON `json:"options,omitempty"`
}

func (Question) TableName() string { return "questions" }
