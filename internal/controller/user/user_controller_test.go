package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/keylock"
	"github.com/lshigami/ieltsprep/internal/middleware"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticMedia struct{}

func (staticMedia) ResolveURL(_ context.Context, id string) (string, error) {
	return "https://cdn.test/" + id, nil
}

// expiredStore answers every call like a backend whose session expired.
type expiredStore struct{}

func (expiredStore) Find(_ context.Context, c string, _ store.Query, _ any) error {
	return &store.Error{Kind: store.KindUnauthorized, Op: "find", Collection: c, Err: errors.New("TOKEN_EXPIRED")}
}
func (expiredStore) Create(_ context.Context, c string, _ any) error {
	return &store.Error{Kind: store.KindUnauthorized, Op: "create", Collection: c, Err: errors.New("TOKEN_EXPIRED")}
}
func (expiredStore) Update(_ context.Context, c string, _ uint, _ store.Fields) error {
	return &store.Error{Kind: store.KindUnauthorized, Op: "update", Collection: c, Err: errors.New("TOKEN_EXPIRED")}
}

func newRouter(s store.ItemStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	locker := keylock.NewLocalLocker()
	answers := repository.NewAnswerRepository(s)
	results := repository.NewResultRepository(s)
	tests := repository.NewTestRepository(s)

	progressCtrl := NewProgressController(service.NewProgressService(repository.NewProgressRepository(s), locker))
	testCtrl := NewUserTestController(
		service.NewTestService(tests, staticMedia{}),
		service.NewAttemptService(results, answers, staticMedia{}),
		service.NewAnswerService(answers, locker),
		service.NewResultService(results, answers, locker),
	)

	r := gin.New()
	r.Use(middleware.ErrorBoundary("/login"))
	api := r.Group("/api/v1")
	api.POST("/progress", progressCtrl.SaveProgress)
	api.GET("/tests/:id", testCtrl.GetTest)
	api.GET("/test-groups/:id", testCtrl.GetTestGroup)
	api.GET("/tests/:id/attempts/current", testCtrl.GetCurrentAttempt)
	api.PUT("/tests/:id/answers", testCtrl.UpsertAnswer)
	api.POST("/tests/:id/results", testCtrl.FinalizeResult)
	return r
}

func do(r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestSaveProgress_Sequence(t *testing.T) {
	r := newRouter(store.NewMemoryStore())

	w := do(r, http.MethodPost, "/api/v1/progress", "application/json", `{"testId":10,"studentId":"S1","remainingTime":500}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["action"])
	assert.NotNil(t, body["id"])

	w = do(r, http.MethodPost, "/api/v1/progress", "application/json", `{"testId":10,"studentId":"S1","remainingTime":300}`)
	assert.JSONEq(t, `{"success":true,"action":"updated","previousTime":500,"newTime":300}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/progress", "application/json", `{"testId":10,"studentId":"S1","remainingTime":400}`)
	assert.JSONEq(t, `{"success":true,"action":"skipped","currentTime":300,"attemptedTime":400}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/progress", "application/json", `{"testId":10,"studentId":"S1","remainingTime":400,"currentPart":2}`)
	assert.JSONEq(t, `{"success":true,"action":"partial_update","currentTime":300,"attemptedTime":400,"updatedFields":["currentPart"]}`, w.Body.String())
}

func TestSaveProgress_AcceptsTextBodies(t *testing.T) {
	r := newRouter(store.NewMemoryStore())

	w := do(r, http.MethodPost, "/api/v1/progress", "text/plain;charset=UTF-8", `{"testId":3,"studentId":"S1","remainingTime":120}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "created", decode(t, w)["action"])

	w = do(r, http.MethodPost, "/api/v1/progress", "", `"{\"testId\":3,\"studentId\":\"S1\",\"remainingTime\":100}"`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "updated", decode(t, w)["action"])
}

func TestSaveProgress_RateLimitIsPerStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const perMinute = 20
	progressCtrl := NewProgressController(service.NewProgressService(
		repository.NewProgressRepository(store.NewMemoryStore()), keylock.NewLocalLocker()))
	r := gin.New()
	r.Use(middleware.ErrorBoundary("/login"))
	r.POST("/api/v1/progress", middleware.RateLimiter(ctx, perMinute, time.Minute, ProgressRateKey), progressCtrl.SaveProgress)

	// httptest requests all come from the same remote address.
	for i := 0; i < perMinute; i++ {
		for _, student := range []string{"S1", "S2"} {
			body := fmt.Sprintf(`{"testId":10,"studentId":%q,"remainingTime":%d}`, student, 1000-i)
			w := do(r, http.MethodPost, "/api/v1/progress", "text/plain", body)
			require.Equal(t, http.StatusOK, w.Code, "student %s ping %d: %s", student, i, w.Body.String())
		}
	}

	w := do(r, http.MethodPost, "/api/v1/progress", "text/plain", `{"testId":10,"studentId":"S1","remainingTime":1}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = do(r, http.MethodPost, "/api/v1/progress", "text/plain", `{"testId":11,"studentId":"S1","remainingTime":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "created", decode(t, w)["action"])
}

func TestProgressRateKey_RestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/progress", strings.NewReader(`"{\"testId\":7,\"studentId\":\"S9\",\"remainingTime\":5}"`))

	assert.Equal(t, "progress:7:S9", ProgressRateKey(c))
	rest, err := io.ReadAll(c.Request.Body)
	require.NoError(t, err)
	assert.Contains(t, string(rest), "S9")

	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/progress", strings.NewReader("not json"))
	assert.Equal(t, "ip:192.0.2.1", ProgressRateKey(c))
}

func TestSaveProgress_BadRequests(t *testing.T) {
	r := newRouter(store.NewMemoryStore())
	bodies := map[string]string{
		"empty":                 ``,
		"not json":              `testId=1`,
		"missing remainingTime": `{"testId":1,"studentId":"S1"}`,
		"string remainingTime":  `{"testId":1,"studentId":"S1","remainingTime":"100"}`,
		"missing studentId":     `{"testId":1,"remainingTime":100}`,
		"missing testId":        `{"studentId":"S1","remainingTime":100}`,
		"fractional testId":     `{"testId":1.5,"studentId":"S1","remainingTime":100}`,
		"null remainingTime":    `{"testId":1,"studentId":"S1","remainingTime":null}`,
	}
	for name, body := range bodies {
		w := do(r, http.MethodPost, "/api/v1/progress", "application/json", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.NotEmpty(t, decode(t, w)["error"], name)
	}
}

func TestSaveProgress_ExpiredSessionRedirects(t *testing.T) {
	r := newRouter(expiredStore{})

	w := do(r, http.MethodPost, "/api/v1/progress", "application/json", `{"testId":1,"studentId":"S1","remainingTime":100}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login?session_expired=true", decode(t, w)["redirect"])
}

func TestGetTest(t *testing.T) {
	s := store.NewMemoryStore()
	test := model.Test{Title: "Reading 1", Type: "reading", Parts: []model.Part{{ID: 1, Title: "Passage 1", Sort: 1}}}
	require.NoError(t, store.NewCollection[model.Test](s).Create(context.Background(), &test))
	r := newRouter(s)

	w := do(r, http.MethodGet, "/api/v1/tests/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Reading 1", body["data"].(map[string]any)["title"])

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/tests/abc", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/tests/99", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/test-groups/x1", "", "").Code)
}

func TestGetTest_StoreFailure(t *testing.T) {
	w := do(newRouter(failingFindStore{store.NewMemoryStore()}), http.MethodGet, "/api/v1/test-groups/1", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to fetch test group", decode(t, w)["error"])
}

type failingFindStore struct {
	*store.MemoryStore
}

func (failingFindStore) Find(_ context.Context, c string, _ store.Query, _ any) error {
	return &store.Error{Kind: store.KindUnavailable, Op: "find", Collection: c, Err: errors.New("connection reset")}
}

func TestAttemptLifecycle(t *testing.T) {
	r := newRouter(store.NewMemoryStore())

	w := do(r, http.MethodGet, "/api/v1/tests/10/attempts/current?studentId=S1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"attempt":1,"answers":[]}}`, w.Body.String())

	w = do(r, http.MethodPut, "/api/v1/tests/10/answers", "application/json", `{"studentId":"S1","attempt":1,"questionId":7,"value":"B"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPut, "/api/v1/tests/10/answers", "application/json", `{"studentId":"S1","attempt":1,"questionId":8,"value":["x","y"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/tests/10/attempts/current?studentId=S1", "", "")
	assert.JSONEq(t, `{"success":true,"data":{"attempt":1,"answers":[
		{"id":1,"questionId":7,"value":"B"},
		{"id":2,"questionId":8,"value":["x","y"]}]}}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/tests/10/results", "application/json", `{"studentId":"S1","attempt":1,"type":"listening","elapsedSeconds":900}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1,"created":true}}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/tests/10/results", "application/json", `{"studentId":"S1","attempt":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":1,"created":false}}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/tests/10/attempts/current?studentId=S1", "", "")
	assert.JSONEq(t, `{"success":true,"data":{"attempt":2,"answers":[]}}`, w.Body.String())
}

func TestAttemptEndpoints_BadRequests(t *testing.T) {
	r := newRouter(store.NewMemoryStore())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/api/v1/tests/10/attempts/current", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/api/v1/tests/10/answers", "application/json", `{"studentId":"S1","attempt":0,"questionId":7}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/tests/x/results", "application/json", `{"studentId":"S1","attempt":1}`).Code)
}
