package repository

import "github.com/lshigami/ieltsprep/internal/store"

// Scope identifies one student's work on one test, optionally inside a test group.
type Scope struct {
	TestID      uint
	StudentID   string
	TestGroupID *uint
}

// filters matches the scope exactly: a nil test group only matches rows
// without one.
func (s Scope) filters() []store.Condition {
	return []store.Condition{
		store.Eq("test", s.TestID),
		store.Eq("student", s.StudentID),
		store.EqOrNull("test_group", s.TestGroupID),
	}
}
