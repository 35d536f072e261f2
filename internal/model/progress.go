package model

import "time"

// TestProgress is the "where was I" checkpoint of an in-flight attempt.
type TestProgress struct {
	ID                 uint      `gorm:"primarykey" json:"id,omitempty"`
	Test               uint      `gorm:"column:test;not null;uniqueIndex:idx_tests_progress_key" json:"test"`
	Student            string    `gorm:"column:student;not null;uniqueIndex:idx_tests_progress_key" json:"student"`
	TestGroup          *uint     `gorm:"column:test_group;uniqueIndex:idx_tests_progress_key" json:"test_group"`
	RemainingTime      *float64  `gorm:"column:remaining_time" json:"remaining_time"`
	RemainingAudioTime *float64  `gorm:"column:remaining_audio_time" json:"remaining_audio_time"`
	CurrentPart        *int      `gorm:"column:current_part" json:"current_part"`
	CreatedAt          time.Time `json:"-"`
	UpdatedAt          time.Time `json:"-"`
}

func (TestProgress) TableName() string { return "tests_progress" }
