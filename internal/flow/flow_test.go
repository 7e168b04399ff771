package flow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/journal"
	"github.com/phrazzld/nutri-api/internal/mocks"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
	"github.com/phrazzld/nutri-api/internal/prompt"
	"github.com/phrazzld/nutri-api/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// echoDefinition is a text flow that answers a single question.
func echoDefinition() flow.Definition {
	return flow.Definition{
		Name:        "echo",
		Description: "Answers a question",
		Input: schema.Object(
			schema.Required("question", schema.String().WithMinLength(1)),
			schema.OptionalDefault("tone", schema.Enum("calm", "upbeat"), "calm"),
		),
		Output:   schema.Object(schema.Required("answer", schema.String())),
		Template: prompt.MustParse("echo", "Q: {{question}} ({{tone}})"),
		System:   "Answer briefly.",
	}
}

// summaryDefinition is a structured flow over a list of meals.
func summaryDefinition() flow.Definition {
	return flow.Definition{
		Name: "summary",
		Input: schema.Object(
			schema.Required("meals", schema.Array(schema.Object(
				schema.Required("name", schema.String()),
				schema.Optional("mood", schema.Enum("happy", "sad")),
			))),
		),
		Output: schema.Object(
			schema.Required("summary", schema.String()),
			schema.Required("count", schema.Integer().WithMin(0)),
			schema.Optional("tags", schema.Array(schema.String())),
		),
		Template:   prompt.MustParse("summary", "{{#each meals}}{{name}};{{/each}}"),
		Structured: true,
	}
}

func twoMeals() map[string]any {
	return map[string]any{"meals": []any{
		map[string]any{"name": "oats", "mood": "happy"},
		map[string]any{"name": "soup"},
	}}
}

func newFlow(t *testing.T, def flow.Definition, inv generation.Invoker, opts ...flow.Option) *flow.Flow {
	t.Helper()
	log, _ := logger.NewTestLogger()
	f, err := flow.New(def, inv, log, opts...)
	require.NoError(t, err)
	return f
}

func TestNew_InvalidDefinitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(d *flow.Definition)
	}{
		{"missing name", func(d *flow.Definition) { d.Name = "" }},
		{"missing input", func(d *flow.Definition) { d.Input = nil }},
		{"non-object output", func(d *flow.Definition) { d.Output = schema.String() }},
		{"missing template", func(d *flow.Definition) { d.Template = nil }},
		{"text flow with two output fields", func(d *flow.Definition) {
			d.Output = schema.Object(
				schema.Required("a", schema.String()),
				schema.Required("b", schema.String()),
			)
		}},
		{"text flow with numeric output", func(d *flow.Definition) {
			d.Output = schema.Object(schema.Required("a", schema.Number()))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			def := echoDefinition()
			tt.mutate(&def)
			f, err := flow.New(def, &mocks.MockInvoker{}, nil)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, flow.ErrInvalidDefinition)
		})
	}

	_, err := flow.New(echoDefinition(), nil, nil)
	assert.ErrorIs(t, err, flow.ErrInvalidDefinition)
}

func TestInvoke_InvalidInputNeverCallsModel(t *testing.T) {
	t.Parallel()

	inputs := []struct {
		name string
		raw  any
		path string
	}{
		{"nil request", nil, ""},
		{"missing field", map[string]any{}, "question"},
		{"wrong type", map[string]any{"question": 3.0}, "question"},
		{"empty string", map[string]any{"question": ""}, "question"},
		{"bad enum", map[string]any{"question": "why", "tone": "angry"}, "tone"},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv := mocks.NewMockInvokerWithText("never")
			f := newFlow(t, echoDefinition(), inv)

			out, err := f.Invoke(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, flow.ErrInvalidInput)
			assert.ErrorIs(t, err, schema.ErrValidation)

			var verr *schema.ValidationError
			require.True(t, errors.As(err, &verr))
			if tt.path != "" {
				assert.Contains(t, verr.Paths(), tt.path)
			}
			assert.Equal(t, 0, inv.CallCount())
		})
	}
}

func TestInvoke_TextFlow(t *testing.T) {
	t.Parallel()

	inv := mocks.NewMockInvokerWithText("  Because.  ")
	f := newFlow(t, echoDefinition(), inv)

	out, err := f.Invoke(context.Background(), map[string]any{"question": "Why?", "ignored": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"answer": "Because."}, out)

	req := inv.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "Q: Why? (calm)", req.Prompt)
	assert.Equal(t, "Answer briefly.", req.System)
	assert.Nil(t, req.OutputSchema)
	assert.Empty(t, req.Media)
}

func TestInvoke_StructuredFlow(t *testing.T) {
	t.Parallel()

	inv := mocks.NewMockInvokerWithStructured(map[string]any{
		"summary": "two meals",
		"count":   2.0,
		"extra":   "dropped",
	})
	def := summaryDefinition()
	f := newFlow(t, def, inv)

	out, err := f.Invoke(context.Background(), twoMeals())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"summary": "two meals", "count": 2.0}, out)

	req := inv.LastRequest()
	assert.Equal(t, "oats;soup;", req.Prompt)
	assert.Same(t, def.Output, req.OutputSchema)
}

func TestInvoke_InvalidModelOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  flow.Definition
		inv  *mocks.MockInvoker
		raw  map[string]any
	}{
		{
			name: "missing required field",
			def:  summaryDefinition(),
			inv:  mocks.NewMockInvokerWithStructured(map[string]any{"summary": "x"}),
			raw:  twoMeals(),
		},
		{
			name: "wrong type",
			def:  summaryDefinition(),
			inv:  mocks.NewMockInvokerWithStructured(map[string]any{"summary": "x", "count": "two"}),
			raw:  twoMeals(),
		},
		{
			name: "structured output not an object",
			def:  summaryDefinition(),
			inv:  mocks.NewMockInvokerWithStructured([]any{"x"}),
			raw:  twoMeals(),
		},
		{
			name: "nil structured output",
			def:  summaryDefinition(),
			inv:  mocks.NewMockInvokerWithStructured(nil),
			raw:  twoMeals(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFlow(t, tt.def, tt.inv)
			out, err := f.Invoke(context.Background(), tt.raw)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, flow.ErrInvalidOutput)
			assert.ErrorIs(t, err, generation.ErrNoOutput)
			assert.False(t, errors.Is(err, flow.ErrInvalidInput))
		})
	}
}

func TestInvoke_EmptyTextIsNoOutput(t *testing.T) {
	t.Parallel()

	f := newFlow(t, echoDefinition(), mocks.NewMockInvokerWithText("   "))
	_, err := f.Invoke(context.Background(), map[string]any{"question": "q"})
	assert.ErrorIs(t, err, generation.ErrNoOutput)

	f = newFlow(t, echoDefinition(), &mocks.MockInvoker{})
	_, err = f.Invoke(context.Background(), map[string]any{"question": "q"})
	assert.ErrorIs(t, err, generation.ErrNoOutput, "nil response")
}

func TestInvoke_ModelErrorPropagates(t *testing.T) {
	t.Parallel()

	f := newFlow(t, echoDefinition(), mocks.MockInvokerWithContentBlocked())
	_, err := f.Invoke(context.Background(), map[string]any{"question": "q"})
	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.Contains(t, err.Error(), "echo")
}

func TestInvoke_PreCheck(t *testing.T) {
	t.Parallel()

	def := summaryDefinition()
	def.PreCheck = func(in map[string]any) (map[string]any, bool) {
		if len(in["meals"].([]any)) < 3 {
			return map[string]any{"summary": "Log more meals.", "count": 0}, true
		}
		return nil, false
	}

	inv := mocks.NewMockInvokerWithStructured(map[string]any{"summary": "model", "count": 3.0})
	store := &mocks.MockRunStore{}
	f := newFlow(t, def, inv, flow.WithRecorder(store))

	out, err := f.Invoke(context.Background(), twoMeals())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"summary": "Log more meals.", "count": 0.0}, out)
	assert.Equal(t, 0, inv.CallCount())

	three := twoMeals()
	three["meals"] = append(three["meals"].([]any), map[string]any{"name": "rice"})
	out, err = f.Invoke(context.Background(), three)
	require.NoError(t, err)
	assert.Equal(t, "model", out["summary"])
	assert.Equal(t, 1, inv.CallCount())

	runs := store.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, journal.OutcomeShortCircuited, runs[0].Outcome)
	assert.Equal(t, journal.OutcomeCompleted, runs[1].Outcome)
}

func TestInvoke_PreCheckResponseMustSatisfyOutput(t *testing.T) {
	t.Parallel()

	def := summaryDefinition()
	def.PreCheck = func(map[string]any) (map[string]any, bool) {
		return map[string]any{"summary": 1}, true
	}
	f := newFlow(t, def, &mocks.MockInvoker{})

	_, err := f.Invoke(context.Background(), twoMeals())
	assert.ErrorIs(t, err, flow.ErrInvalidOutput)
}

func TestInvoke_DefaultsAndFinalize(t *testing.T) {
	t.Parallel()

	def := summaryDefinition()
	def.Defaults = func(in, out map[string]any) map[string]any {
		if _, ok := out["count"]; !ok {
			out["count"] = len(in["meals"].([]any))
		}
		if _, ok := out["tags"]; !ok {
			out["tags"] = []any{}
		}
		return out
	}
	def.Finalize = func(_, out map[string]any) (map[string]any, error) {
		out["summary"] = fmt.Sprintf("%s!", out["summary"])
		return out, nil
	}

	model := map[string]any{"summary": "fine"}
	f := newFlow(t, def, mocks.NewMockInvokerWithStructured(model))

	out, err := f.Invoke(context.Background(), twoMeals())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"summary": "fine!", "count": 2.0, "tags": []any{}}, out)
	assert.Equal(t, map[string]any{"summary": "fine"}, model, "model output is not modified in place")
}

func TestInvoke_FinalizeFailure(t *testing.T) {
	t.Parallel()

	def := summaryDefinition()
	def.Finalize = func(_, _ map[string]any) (map[string]any, error) {
		return nil, errors.New("too few days")
	}
	f := newFlow(t, def, mocks.NewMockInvokerWithStructured(map[string]any{"summary": "x", "count": 1.0}))

	_, err := f.Invoke(context.Background(), twoMeals())
	assert.ErrorIs(t, err, flow.ErrInvalidOutput)
	assert.ErrorIs(t, err, generation.ErrNoOutput)
	assert.Contains(t, err.Error(), "too few days")
}

func TestInvoke_Recover(t *testing.T) {
	t.Parallel()

	apology := map[string]any{"answer": "Sorry."}
	def := echoDefinition()
	def.Recover = func(error) (map[string]any, bool) { return apology, true }

	t.Run("model failure is recovered", func(t *testing.T) {
		t.Parallel()
		store := &mocks.MockRunStore{}
		f := newFlow(t, def, mocks.NewMockInvokerWithError(errors.New("network down")), flow.WithRecorder(store))

		out, err := f.Invoke(context.Background(), map[string]any{"question": "hi"})
		require.NoError(t, err)
		assert.Equal(t, apology, out)
		require.Len(t, store.Runs(), 1)
		assert.Equal(t, journal.OutcomeRecovered, store.Runs()[0].Outcome)
	})

	t.Run("empty output is recovered", func(t *testing.T) {
		t.Parallel()
		f := newFlow(t, def, mocks.NewMockInvokerWithText(""))
		out, err := f.Invoke(context.Background(), map[string]any{"question": "hi"})
		require.NoError(t, err)
		assert.Equal(t, apology, out)
	})

	t.Run("invalid input is not recovered", func(t *testing.T) {
		t.Parallel()
		inv := mocks.NewMockInvokerWithError(errors.New("unused"))
		f := newFlow(t, def, inv)
		_, err := f.Invoke(context.Background(), map[string]any{"question": ""})
		assert.ErrorIs(t, err, flow.ErrInvalidInput)
		assert.Equal(t, 0, inv.CallCount())
	})

	t.Run("recovery that violates the output schema keeps the error", func(t *testing.T) {
		t.Parallel()
		bad := echoDefinition()
		bad.Recover = func(error) (map[string]any, bool) { return map[string]any{}, true }
		cause := errors.New("network down")
		f := newFlow(t, bad, mocks.NewMockInvokerWithError(cause))
		_, err := f.Invoke(context.Background(), map[string]any{"question": "hi"})
		assert.ErrorIs(t, err, cause)
	})
}

func TestInvoke_MediaAndHistory(t *testing.T) {
	t.Parallel()

	def := echoDefinition()
	def.Media = func(in map[string]any) ([]generation.Media, error) {
		if in["question"] == "bad" {
			return nil, generation.ErrInvalidDataURI
		}
		return []generation.Media{{MIMEType: "image/png", Data: []byte("png")}}, nil
	}
	def.History = func(map[string]any) []generation.Message {
		return []generation.Message{{Role: generation.RoleUser, Text: "earlier"}}
	}

	inv := mocks.NewMockInvokerWithText("ok")
	f := newFlow(t, def, inv)

	_, err := f.Invoke(context.Background(), map[string]any{"question": "look"})
	require.NoError(t, err)
	req := inv.LastRequest()
	require.Len(t, req.Media, 1)
	assert.Equal(t, "image/png", req.Media[0].MIMEType)
	require.Len(t, req.History, 1)
	assert.Equal(t, "earlier", req.History[0].Text)

	_, err = f.Invoke(context.Background(), map[string]any{"question": "bad"})
	assert.ErrorIs(t, err, flow.ErrInvalidInput)
	assert.ErrorIs(t, err, generation.ErrInvalidDataURI)
	assert.Equal(t, 1, inv.CallCount())
}

func TestInvoke_RecorderFailureIsNotSurfaced(t *testing.T) {
	t.Parallel()

	store := &mocks.MockRunStore{RecordErr: errors.New("database unavailable")}
	log, buf := logger.NewTestLogger()
	f, err := flow.New(echoDefinition(), mocks.NewMockInvokerWithText("fine"), log, flow.WithRecorder(store))
	require.NoError(t, err)

	out, err := f.Invoke(context.Background(), map[string]any{"question": "q"})
	require.NoError(t, err)
	assert.Equal(t, "fine", out["answer"])
	assert.Contains(t, buf.String(), "failed to record flow run")
}

func TestInvoke_FailedRunIsRedacted(t *testing.T) {
	t.Parallel()

	store := &mocks.MockRunStore{}
	inv := mocks.NewMockInvokerWithError(errors.New("dial postgres://svc:hunter2@db:5432 failed"))
	f := newFlow(t, echoDefinition(), inv, flow.WithRecorder(store))

	_, err := f.Invoke(context.Background(), map[string]any{"question": "q"})
	require.Error(t, err)

	runs := store.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, journal.OutcomeFailed, runs[0].Outcome)
	assert.Equal(t, "echo", runs[0].Flow)
	assert.NotContains(t, runs[0].Error, "hunter2")
}

func TestInvoke_LongErrorKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	store := &mocks.MockRunStore{}
	inv := mocks.NewMockInvokerWithError(errors.New("x" + strings.Repeat("é", 400)))
	f := newFlow(t, echoDefinition(), inv, flow.WithRecorder(store))

	_, err := f.Invoke(context.Background(), map[string]any{"question": "q"})
	require.Error(t, err)

	runs := store.Runs()
	require.Len(t, runs, 1)
	assert.LessOrEqual(t, len(runs[0].Error), 500)
	assert.Greater(t, len(runs[0].Error), 490)
	assert.True(t, utf8.ValidString(runs[0].Error))
}

func TestInvoke_PromptData(t *testing.T) {
	t.Parallel()

	def := summaryDefinition()
	def.PromptData = func(in map[string]any) map[string]any {
		var happy []any
		for _, item := range in["meals"].([]any) {
			if item.(map[string]any)["mood"] == "happy" {
				happy = append(happy, item)
			}
		}
		in["meals"] = happy
		return in
	}
	def.Defaults = func(in, out map[string]any) map[string]any {
		out["count"] = len(in["meals"].([]any))
		return out
	}

	inv := mocks.NewMockInvokerWithStructured(map[string]any{"summary": "ok"})
	f := newFlow(t, def, inv)

	out, err := f.Invoke(context.Background(), map[string]any{"meals": []any{
		map[string]any{"name": "Oats", "mood": "happy"},
		map[string]any{"name": "Chips", "mood": "sad"},
		map[string]any{"name": "Soup"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "Oats;", inv.LastRequest().Prompt)
	assert.Equal(t, 3.0, out["count"])
}

func TestInvoke_Spans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	inv := mocks.NewMockInvokerWithText("ok")
	f := newFlow(t, echoDefinition(), inv, flow.WithTracer(tp.Tracer("test")))

	_, err := f.Invoke(context.Background(), map[string]any{"question": "q"})
	require.NoError(t, err)
	_, err = f.Invoke(context.Background(), map[string]any{})
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "flow.echo", ok.Name)
	var events []string
	for _, e := range ok.Events {
		events = append(events, e.Name)
	}
	assert.Equal(t, []string{
		string(flow.StateReceived),
		string(flow.StatePreChecked),
		string(flow.StatePrompted),
		string(flow.StateInvoked),
		string(flow.StateValidated),
		string(flow.StateReturned),
	}, events)
	assert.NotEqual(t, codes.Error, ok.Status.Code)

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status.Code)
}

func TestInvoke_Concurrent(t *testing.T) {
	t.Parallel()

	inv := &mocks.MockInvoker{
		InvokeFn: func(_ context.Context, req *generation.Request) (*generation.Response, error) {
			return &generation.Response{Text: "echo " + req.Prompt}, nil
		},
	}
	f := newFlow(t, echoDefinition(), inv)

	const n = 50
	var wg sync.WaitGroup
	results := make([]map[string]any, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.Invoke(context.Background(), map[string]any{"question": fmt.Sprintf("q%d", i)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("echo Q: q%d (calm)", i), results[i]["answer"])
	}
	assert.Equal(t, n, inv.CallCount())
}
