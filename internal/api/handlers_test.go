package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/nutri-api/internal/api/middleware"
	"github.com/phrazzld/nutri-api/internal/api/shared"
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/journal"
	"github.com/phrazzld/nutri-api/internal/mocks"
	"github.com/phrazzld/nutri-api/internal/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhoto = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

// newTestRouter wires the handlers the way the server does.
func newTestRouter(t *testing.T, inv generation.Invoker, store journal.Store) http.Handler {
	t.Helper()

	registry, err := nutrition.NewRegistry(inv, nil)
	require.NoError(t, err)

	flows := NewFlowHandler(nutrition.NewService(registry), nil)
	runs := NewRunHandler(store, nil)

	r := chi.NewRouter()
	r.Use(middleware.Trace(nil))
	r.Route("/api", func(r chi.Router) {
		flows.Routes(r)
		runs.Routes(r)
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, w.Header().Get(shared.TraceIDHeader), resp.TraceID)
	return resp
}

func TestListFlows(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &mocks.MockInvoker{}, nil)
	w := doRequest(t, h, http.MethodGet, "/api/flows", "")

	require.Equal(t, http.StatusOK, w.Code)
	var flows []FlowSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flows))
	require.Len(t, flows, 8)

	names := make([]string, len(flows))
	for i, f := range flows {
		names[i] = f.Name
		assert.NotEmpty(t, f.Description, f.Name)
	}
	assert.Contains(t, names, nutrition.FlowChat)
	assert.Contains(t, names, nutrition.FlowGenerateEcoMealPlan)
}

func TestGetFlowSchema(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &mocks.MockInvoker{}, nil)

	t.Run("known flow", func(t *testing.T) {
		t.Parallel()
		w := doRequest(t, h, http.MethodGet, "/api/flows/chat/schema", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp FlowSchemaResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "chat", resp.Name)
		assert.Equal(t, "object", resp.Input["type"])
		assert.Contains(t, resp.Input["required"], "userMessage")
		assert.Contains(t, resp.Output["required"], "aiResponse")
	})

	t.Run("unknown flow", func(t *testing.T) {
		t.Parallel()
		w := doRequest(t, h, http.MethodGet, "/api/flows/nope/schema", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Flow not found", decodeError(t, w).Error)
	})
}

func TestInvokeFlow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		invoker    *mocks.MockInvoker
		flow       string
		body       string
		wantStatus int
		wantCalls  int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "chat answers",
			invoker:    mocks.NewMockInvokerWithText("Lentils are a great source of protein."),
			flow:       "chat",
			body:       `{"userMessage":"Protein ideas?"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"aiResponse":"Lentils are a great source of protein."}`, string(body))
			},
		},
		{
			name:       "chat apologises when the model fails",
			invoker:    mocks.NewMockInvokerWithError(errors.New("quota exceeded")),
			flow:       "chat",
			body:       `{"userMessage":"Hello"}`,
			wantStatus: http.StatusOK,
			wantCalls:  1,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"aiResponse":"`+nutrition.ChatApology+`"}`, string(body))
			},
		},
		{
			name:       "invalid input",
			invoker:    mocks.NewMockInvokerWithText("unused"),
			flow:       "chat",
			body:       `{"chatHistory":[]}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), "userMessage")
			},
		},
		{
			name:       "short circuit skips the model",
			invoker:    mocks.NewMockInvokerWithText("unused"),
			flow:       "analyzeNutrientTrends",
			body:       `{"meals":[{"name":"Oats","date":"2026-10-01","calories":300,"protein":10,"carbohydrates":50,"fat":6}]}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"insight":"`+nutrition.InsufficientNutrientData+`"}`, string(body))
			},
		},
		{
			name:       "blocked content",
			invoker:    mocks.MockInvokerWithContentBlocked(),
			flow:       "analyzeFoodPhoto",
			body:       `{"photoDataUri":"` + testPhoto + `"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCalls:  1,
		},
		{
			name:       "no output",
			invoker:    mocks.MockInvokerWithNoOutput(),
			flow:       "analyzeFoodPhoto",
			body:       `{"photoDataUri":"` + testPhoto + `"}`,
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:       "model output violating the schema",
			invoker:    mocks.NewMockInvokerWithStructured(map[string]any{"estimatedCalories": "lots"}),
			flow:       "analyzeFoodPhoto",
			body:       `{"photoDataUri":"` + testPhoto + `"}`,
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
		{
			name:       "internal failure",
			invoker:    mocks.NewMockInvokerWithError(errors.New("dial tcp 10.0.0.1:443: connection refused")),
			flow:       "analyzeFoodPhoto",
			body:       `{"photoDataUri":"` + testPhoto + `"}`,
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
			check: func(t *testing.T, body []byte) {
				assert.NotContains(t, string(body), "10.0.0.1")
			},
		},
		{
			name:       "malformed body",
			invoker:    mocks.NewMockInvokerWithText("unused"),
			flow:       "chat",
			body:       `{"userMessage":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown flow",
			invoker:    mocks.NewMockInvokerWithText("unused"),
			flow:       "nope",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newTestRouter(t, tc.invoker, nil)

			w := doRequest(t, h, http.MethodPost, "/api/flows/"+tc.flow, tc.body)

			assert.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tc.wantCalls, tc.invoker.CallCount())
			if tc.wantStatus != http.StatusOK {
				decodeError(t, w)
			}
			if tc.check != nil {
				tc.check(t, w.Body.Bytes())
			}
		})
	}
}

func TestInvokeFlow_EmptyBody(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &mocks.MockInvoker{}, nil)
	w := doRequest(t, h, http.MethodPost, "/api/flows/chat", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Request body is empty", decodeError(t, w).Error)
}

func TestAnalyzeMeal(t *testing.T) {
	t.Parallel()

	inv := &mocks.MockInvoker{
		InvokeFn: func(_ context.Context, req *generation.Request) (*generation.Response, error) {
			if _, ok := req.OutputSchema.Field("mealName"); ok {
				return &generation.Response{Structured: map[string]any{
					"mealName": "Omelette", "calories": 320.0, "protein": 21.0,
					"carbohydrates": 3.0, "fat": 24.0, "foodItems": []any{"eggs"},
				}}, nil
			}
			return &generation.Response{Structured: map[string]any{
				"estimatedCalories": 310.0,
				"nutritionSummary":  "Protein-rich breakfast.",
				"nutrients":         []any{},
			}}, nil
		},
	}
	h := newTestRouter(t, inv, nil)

	t.Run("returns both analyses", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/meals/analyze",
			`{"photoDataUri":"`+testPhoto+`","description":"breakfast"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got nutrition.MealAnalysis
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.NotNil(t, got.Photo)
		require.NotNil(t, got.Macros)
		assert.Equal(t, 310.0, got.Photo.EstimatedCalories)
		assert.Equal(t, "Omelette", got.Macros.MealName)
	})

	t.Run("rejects a non data uri before calling the model", func(t *testing.T) {
		before := inv.CallCount()
		w := doRequest(t, h, http.MethodPost, "/api/meals/analyze", `{"photoDataUri":"https://example.com/x.jpg"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid PhotoDataURI: must be a base64 data URI", decodeError(t, w).Error)
		assert.Equal(t, before, inv.CallCount())
	})
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	t.Run("journal disabled", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, &mocks.MockInvoker{}, nil)
		w := doRequest(t, h, http.MethodGet, "/api/runs", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Run journal is disabled", decodeError(t, w).Error)
	})

	t.Run("lists filtered runs newest first", func(t *testing.T) {
		t.Parallel()
		store := &mocks.MockRunStore{}
		base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
		for i, name := range []string{"chat", "analyzeFoodPhoto", "chat"} {
			run := journal.NewRun(name, journal.OutcomeCompleted, time.Second, "")
			run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			require.NoError(t, store.Record(context.Background(), run))
		}

		h := newTestRouter(t, &mocks.MockInvoker{}, store)
		w := doRequest(t, h, http.MethodGet, "/api/runs?flow=chat&limit=1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp RunListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Runs, 1)
		assert.Equal(t, "chat", resp.Runs[0].Flow)
		assert.True(t, resp.Runs[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	})

	t.Run("invocations are journaled", func(t *testing.T) {
		t.Parallel()
		store := &mocks.MockRunStore{}
		registry, err := nutrition.NewRegistry(mocks.NewMockInvokerWithText("hi"), nil, flow.WithRecorder(store))
		require.NoError(t, err)

		r := chi.NewRouter()
		r.Use(middleware.Trace(nil))
		r.Route("/api", func(r chi.Router) {
			NewFlowHandler(nutrition.NewService(registry), nil).Routes(r)
			NewRunHandler(store, nil).Routes(r)
		})

		require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodPost, "/api/flows/chat", `{"userMessage":"hi"}`).Code)

		w := doRequest(t, r, http.MethodGet, "/api/runs", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp RunListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Runs, 1)
		assert.Equal(t, journal.OutcomeCompleted, resp.Runs[0].Outcome)
	})

	t.Run("bad limit", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, &mocks.MockInvoker{}, &mocks.MockRunStore{})
		w := doRequest(t, h, http.MethodGet, "/api/runs?limit=ten", "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, &mocks.MockInvoker{}, &mocks.MockRunStore{ListErr: errors.New("db down")})
		w := doRequest(t, h, http.MethodGet, "/api/runs", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
