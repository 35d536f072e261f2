package repository

import (
	"context"
	"testing"

	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func seed(t *testing.T, repo AnswerRepository, rows ...model.Answer) []model.Answer {
	t.Helper()
	for i := range rows {
		require.NoError(t, repo.Create(context.Background(), &rows[i]))
	}
	return rows
}

func TestScopeFilters(t *testing.T) {
	assert.Equal(t, []store.Condition{
		store.Eq("test", uint(1)),
		store.Eq("student", "S1"),
		store.IsNull("test_group"),
	}, Scope{TestID: 1, StudentID: "S1"}.filters())

	assert.Equal(t, store.Eq("test_group", uint(4)), Scope{TestID: 1, StudentID: "S1", TestGroupID: uintPtr(4)}.filters()[2])
}

func TestAnswerRepository_ScopeMatchesGroupExactly(t *testing.T) {
	repo := NewAnswerRepository(store.NewMemoryStore())
	seed(t, repo,
		model.Answer{Test: 1, Student: "S1", Attempt: 2, Question: 1},
		model.Answer{Test: 1, Student: "S1", TestGroup: uintPtr(4), Attempt: 5, Question: 1},
	)
	ctx := context.Background()

	got, err := repo.MaxAttempt(ctx, Scope{TestID: 1, StudentID: "S1"})
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = repo.MaxAttempt(ctx, Scope{TestID: 1, StudentID: "S1", TestGroupID: uintPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	got, err = repo.MaxAttempt(ctx, Scope{TestID: 2, StudentID: "S1"})
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestAnswerRepository_FindIDs(t *testing.T) {
	repo := NewAnswerRepository(store.NewMemoryStore())
	rows := seed(t, repo,
		model.Answer{Test: 1, Student: "S1", Attempt: 1, Question: 1},
		model.Answer{Test: 1, Student: "S1", TestGroup: uintPtr(4), Attempt: 1, Question: 2},
		model.Answer{Test: 1, Student: "S1", Attempt: 2, Question: 1},
	)
	ctx := context.Background()

	ids, err := repo.FindIDs(ctx, 1, "S1", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{rows[0].ID, rows[1].ID}, ids)

	ids, err = repo.FindIDs(ctx, 1, "S1", 1, uintPtr(4))
	require.NoError(t, err)
	assert.Equal(t, []uint{rows[1].ID}, ids)
}

func TestResultRepository_Latest(t *testing.T) {
	s := store.NewMemoryStore()
	repo := NewResultRepository(s)
	ctx := context.Background()
	sc := Scope{TestID: 1, StudentID: "S1"}

	latest, err := repo.Latest(ctx, sc)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for _, attempt := range []int{1, 3, 2} {
		require.NoError(t, repo.Create(ctx, &model.Result{Test: 1, Student: "S1", Attempt: attempt}))
	}
	latest, err = repo.Latest(ctx, sc)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.Attempt)
}
