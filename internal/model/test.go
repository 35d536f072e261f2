package model

import (
	"time"
)

type Test struct {
	ID          uint      `gorm:"primarykey" json:"id,omitempty"`
	Title       string    `json:"title" gorm:"not null"`
	Type        string    `json:"type" gorm:"not null"` // "reading", "listening", "writing", "speaking"
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"` // seconds
	Parts       []Part    `json:"parts,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Test) TableName() string { return "tests" }

type Part struct {
	ID        uint       `gorm:"primarykey" json:"id,omitempty"`
	TestID    uint       `json:"test" gorm:"column:test;not null;index"`
	Title     string     `json:"title"`
	Sort      int        `json:"sort"`
	Audio     *string    `json:"audio,omitempty"` // file id, resolved to a URL on read
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:PartID"`
}

func (Part) TableName() string { return "parts" }

// TestGroup bundles several tests into one combined session, e.g. a full exam.
type TestGroup struct {
	ID          uint      `gorm:"primarykey" json:"id,omitempty"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description,omitempty"`
	Tests       []Test    `json:"tests,omitempty" gorm:"many2many:test_groups_tests;joinForeignKey:test_groups_id;joinReferences:tests_id"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (TestGroup) TableName() string { return "test_groups" }
