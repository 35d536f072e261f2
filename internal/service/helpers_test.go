package service

import (
	"context"
	"errors"

	"github.com/lshigami/ieltsprep/internal/keylock"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/store"
)

type fakeMedia struct {
	err error
}

func (f fakeMedia) ResolveURL(_ context.Context, fileID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + fileID, nil
}

// failingStore rejects every call the way an expired session does.
type failingStore struct{}

func (failingStore) Find(_ context.Context, collection string, _ store.Query, _ any) error {
	return &store.Error{Kind: store.KindUnauthorized, Op: "find", Collection: collection, Err: errors.New("token expired")}
}

func (failingStore) Create(_ context.Context, collection string, _ any) error {
	return &store.Error{Kind: store.KindUnauthorized, Op: "create", Collection: collection, Err: errors.New("token expired")}
}

func (failingStore) Update(_ context.Context, collection string, _ uint, _ store.Fields) error {
	return &store.Error{Kind: store.KindUnauthorized, Op: "update", Collection: collection, Err: errors.New("token expired")}
}

type testEnv struct {
	store    *store.MemoryStore
	answers  repository.AnswerRepository
	results  repository.ResultRepository
	progress repository.ProgressRepository
	tests    repository.TestRepository
	locker   keylock.Locker
}

func newTestEnv() *testEnv {
	s := store.NewMemoryStore()
	return &testEnv{
		store:    s,
		answers:  repository.NewAnswerRepository(s),
		results:  repository.NewResultRepository(s),
		progress: repository.NewProgressRepository(s),
		tests:    repository.NewTestRepository(s),
		locker:   keylock.NewLocalLocker(),
	}
}

func uintPtr(v uint) *uint        { return &v }
func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func scope(testID uint, student string) repository.Scope {
	return repository.Scope{TestID: testID, StudentID: student}
}
