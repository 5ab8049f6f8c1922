package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/aurvo/internal/config"
	"github.com/rcliao/aurvo/internal/model"
	"github.com/rcliao/aurvo/internal/service"
	"github.com/rcliao/aurvo/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockService implements InsightService for handler tests.
type mockService struct {
	ListFunc   func(ctx context.Context) ([]model.ModuleSummary, error)
	DetailFunc func(ctx context.Context, slug string) (*model.ModuleDetail, error)
	UpsertFunc func(ctx context.Context, slug, key, value string) (*model.Insight, error)
}

func (m *mockService) ListSummaries(ctx context.Context) ([]model.ModuleSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockService) Detail(ctx context.Context, slug string) (*model.ModuleDetail, error) {
	if m.DetailFunc != nil {
		return m.DetailFunc(ctx, slug)
	}
	return nil, &config.NotFoundError{Slug: slug}
}

func (m *mockService) UpsertInsight(ctx context.Context, slug, key, value string) (*model.Insight, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, slug, key, value)
	}
	return nil, &config.NotFoundError{Slug: slug}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListModules(t *testing.T) {
	svc := &mockService{
		ListFunc: func(ctx context.Context) ([]model.ModuleSummary, error) {
			return []model.ModuleSummary{{Slug: "a", Title: "A", Description: "x", Records: 2}}, nil
		},
	}
	w := do(t, New(svc, nil).Handler(), http.MethodGet, "/modules", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []model.ModuleSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Records)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestHealth(t *testing.T) {
	svc := &mockService{
		ListFunc: func(ctx context.Context) ([]model.ModuleSummary, error) {
			return []model.ModuleSummary{{Slug: "a"}}, nil
		},
	}
	w := do(t, New(svc, nil).Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Status  string                `json:"status"`
		Modules []model.ModuleSummary `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Len(t, got.Modules, 1)
}

func TestModuleDetailNotFound(t *testing.T) {
	w := do(t, New(&mockService{}, nil).Handler(), http.MethodGet, "/modules/ghost", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
}

func TestUpsertInsightCreated(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var gotSlug, gotKey, gotValue string
	svc := &mockService{
		UpsertFunc: func(ctx context.Context, slug, key, value string) (*model.Insight, error) {
			gotSlug, gotKey, gotValue = slug, key, value
			return &model.Insight{Key: key, Value: value, UpdatedAt: now}, nil
		},
	}
	w := do(t, New(svc, nil).Handler(), http.MethodPost, "/modules/aurvoui/insights", `{"key":"theme","value":"gold"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "aurvoui", gotSlug)
	assert.Equal(t, "theme", gotKey)
	assert.Equal(t, "gold", gotValue)

	var got model.Insight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, now.Equal(got.UpdatedAt))
}

func TestUpsertInsightInvalidBody(t *testing.T) {
	called := false
	svc := &mockService{
		UpsertFunc: func(ctx context.Context, slug, key, value string) (*model.Insight, error) {
			called = true
			return nil, nil
		},
	}
	h := New(svc, nil).Handler()

	for _, body := range []string{
		`{"key":"only-key"}`,
		`{"value":"only-value"}`,
		`{"key":"k","value":null}`,
		`not json`,
		`{}`,
	} {
		w := do(t, h, http.MethodPost, "/modules/aurvoui/insights", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}
	assert.False(t, called)
}

func TestUpsertInsightEmptyStrings(t *testing.T) {
	var gotKey, gotValue string
	svc := &mockService{
		UpsertFunc: func(ctx context.Context, slug, key, value string) (*model.Insight, error) {
			gotKey, gotValue = key, value
			return &model.Insight{Key: key, Value: value}, nil
		},
	}
	h := New(svc, nil).Handler()

	w := do(t, h, http.MethodPost, "/modules/aurvoui/insights", `{"key":"note","value":""}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "note", gotKey)
	assert.Equal(t, "", gotValue)

	var got model.Insight
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "", got.Value)

	w = do(t, h, http.MethodPost, "/modules/aurvoui/insights", `{"key":"","value":"x"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestInternalErrorHidden(t *testing.T) {
	svc := &mockService{
		ListFunc: func(ctx context.Context) ([]model.ModuleSummary, error) {
			return nil, errors.New("disk on fire")
		},
	}
	w := do(t, New(svc, nil).Handler(), http.MethodGet, "/modules", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestRequestIDReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc123")
	w := httptest.NewRecorder()
	New(&mockService{}, nil).Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", w.Header().Get(requestIDHeader))
}

func TestEndToEnd(t *testing.T) {
	reg := config.NewRegistry(config.MapLookup(map[string]string{
		config.EnvDataDir: t.TempDir(),
		config.EnvModules: `{"modules":[{"slug":"aurvo-ai","title":"Aurvo AI","description":"Lab"}]}`,
	}))
	svc := service.New(reg, store.New(reg), nil)
	require.NoError(t, svc.Bootstrap(context.Background()))
	h := New(svc, nil).Handler()

	w := do(t, h, http.MethodPost, "/modules/aurvo-ai/insights", `{"key":"focus","value":"vision"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, h, http.MethodPost, "/modules/aurvo-ai/insights", `{"key":"note","value":""}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/modules/aurvo-ai", "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail model.ModuleDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	keys := make([]string, len(detail.Insights))
	for i, in := range detail.Insights {
		keys[i] = in.Key
	}
	assert.Equal(t, []string{"description", "focus", "note", "status"}, keys)
	assert.Equal(t, "", detail.Insights[2].Value)

	w = do(t, h, http.MethodPost, "/modules/ghost/insights", `{"key":"k","value":"v"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
