package model

import (
	"time"

	"github.com/lib/pq"
)

// Result finalizes one attempt. Rows are never modified after creation.
type Result struct {
	ID        uint          `gorm:"primarykey" json:"id,omitempty"`
	Test      uint          `gorm:"column:test;not null;uniqueIndex:idx_results_key" json:"test"`
	Student   string        `gorm:"column:student;not null;uniqueIndex:idx_results_key" json:"student"`
	TestGroup *uint         `gorm:"column:test_group;uniqueIndex:idx_results_key" json:"test_group"`
	Attempt   int           `gorm:"column:attempt;not null;uniqueIndex:idx_results_key" json:"attempt"`
	TimeSpent *float64      `gorm:"column:time_spent" json:"time_spent"`
	Type      *string       `gorm:"column:type" json:"type"`
	Answers   pq.Int64Array `gorm:"column:answers;type:integer[]" json:"answers"`
	CreatedAt time.Time     `json:"-"`
}

func (Result) TableName() string { return "results" }
