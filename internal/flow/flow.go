package flow

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/journal"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
	"github.com/phrazzld/nutri-api/internal/redact"
	"github.com/phrazzld/nutri-api/internal/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/phrazzld/nutri-api/internal/flow"

	// maxJournalError bounds the error text stored per run.
	maxJournalError = 500
)

// Flow is a Definition bound to an Invoker.
type Flow struct {
	def       Definition
	textField string
	invoker   generation.Invoker
	logger    *slog.Logger
	recorder  journal.Recorder
	tracer    trace.Tracer
}

// Option configures a Flow.
type Option func(*Flow)

// WithRecorder records a journal.Run for every invocation. Recording
// failures are logged and never change the invocation result.
func WithRecorder(r journal.Recorder) Option {
	return func(f *Flow) { f.recorder = r }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(f *Flow) { f.tracer = t }
}

// New binds def to invoker.
func New(def Definition, invoker generation.Invoker, logger *slog.Logger, opts ...Option) (*Flow, error) {
	textField, err := def.check()
	if err != nil {
		return nil, err
	}
	if invoker == nil {
		return nil, fmt.Errorf("%w: %s: invoker is required", ErrInvalidDefinition, def.Name)
	}
	if logger == nil {
		logger = slog.Default()
	}

	f := &Flow{
		def:       def,
		textField: textField,
		invoker:   invoker,
		logger:    logger.With("component", "flow"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.tracer == nil {
		f.tracer = otel.Tracer(tracerName)
	}
	return f, nil
}

// Name returns the flow name.
func (f *Flow) Name() string { return f.def.Name }

// Description returns the human-readable summary of the flow.
func (f *Flow) Description() string { return f.def.Description }

// InputSchema returns the request schema.
func (f *Flow) InputSchema() *schema.Schema { return f.def.Input }

// OutputSchema returns the response schema.
func (f *Flow) OutputSchema() *schema.Schema { return f.def.Output }

// Invoke runs one request through the flow.
//
// Errors:
//   - ErrInvalidInput (wrapping *schema.ValidationError) when raw is rejected;
//     the model is not called.
//   - ErrInvalidOutput together with generation.ErrNoOutput when the model
//     answer cannot be made to satisfy the output schema.
//   - the invoker's error otherwise.
//
// Flows with a Recover hook return its response instead of model and output
// errors.
func (f *Flow) Invoke(ctx context.Context, raw any) (map[string]any, error) {
	start := time.Now()

	ctx, span := f.tracer.Start(ctx, "flow."+f.def.Name,
		trace.WithAttributes(attribute.String("flow.name", f.def.Name)))
	defer span.End()

	log := logger.FromContextOrDefault(ctx, f.logger).With("flow", f.def.Name)
	inv := &invocation{flow: f, ctx: ctx, span: span, log: log}

	out, outcome, err := inv.run(raw)

	span.SetAttributes(attribute.String("flow.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, redact.Error(err))
	}
	f.record(ctx, log, outcome, time.Since(start), err)

	return out, err
}

// invocation carries per-call state through the state machine.
type invocation struct {
	flow *Flow
	ctx  context.Context
	span trace.Span
	log  *slog.Logger
}

func (inv *invocation) enter(state State) {
	inv.log.DebugContext(inv.ctx, "flow transition", "state", string(state))
	inv.span.AddEvent(string(state))
}

func (inv *invocation) run(raw any) (map[string]any, journal.Outcome, error) {
	def := inv.flow.def
	inv.enter(StateReceived)

	in, err := schema.ValidateObject(def.Input, raw)
	if err != nil {
		inv.log.DebugContext(inv.ctx, "flow input rejected", "error", err)
		return nil, journal.OutcomeFailed, fmt.Errorf("%w: %s: %w", ErrInvalidInput, def.Name, err)
	}

	inv.enter(StatePreChecked)
	if def.PreCheck != nil {
		if resp, ok := def.PreCheck(in); ok {
			inv.enter(StateShortCircuited)
			out, err := schema.ValidateObject(def.Output, resp)
			if err != nil {
				return nil, journal.OutcomeFailed,
					fmt.Errorf("%w: %s: short-circuit response: %w", ErrInvalidOutput, def.Name, err)
			}
			inv.enter(StateReturned)
			return out, journal.OutcomeShortCircuited, nil
		}
	}

	req, err := inv.prepare(in)
	if err != nil {
		return nil, journal.OutcomeFailed, err
	}

	out, err := inv.generate(in, req)
	if err != nil {
		if resp, ok := inv.tryRecover(err); ok {
			inv.enter(StateReturned)
			return resp, journal.OutcomeRecovered, nil
		}
		inv.log.ErrorContext(inv.ctx, "flow failed", "error", redact.Error(err))
		return nil, journal.OutcomeFailed, err
	}

	inv.enter(StateReturned)
	return out, journal.OutcomeCompleted, nil
}

// prepare renders the prompt and collects media and history.
func (inv *invocation) prepare(in map[string]any) (*generation.Request, error) {
	def := inv.flow.def
	inv.enter(StatePrompted)

	req := &generation.Request{System: def.System}
	if def.Structured {
		req.OutputSchema = def.Output
	}

	if def.Media != nil {
		media, err := def.Media(in)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, def.Name, err)
		}
		req.Media = media
	}
	if def.History != nil {
		req.History = def.History(in)
	}

	data := in
	if def.PromptData != nil {
		data = def.PromptData(maps.Clone(in))
	}

	text, err := def.Template.Render(data)
	if err != nil {
		return nil, fmt.Errorf("%s: render prompt: %w", def.Name, err)
	}
	req.Prompt = text

	inv.log.DebugContext(inv.ctx, "prompt rendered",
		"prompt_length", len(text),
		"media_parts", len(req.Media),
		"history_turns", len(req.History))
	return req, nil
}

func (inv *invocation) generate(in map[string]any, req *generation.Request) (map[string]any, error) {
	def := inv.flow.def
	inv.enter(StateInvoked)

	resp, err := inv.flow.invoker.Invoke(inv.ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: invoke model: %w", def.Name, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: %s: nil model response", generation.ErrNoOutput, def.Name)
	}

	var out map[string]any
	if def.Structured {
		m, ok := resp.Structured.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s: structured output is %T, want object",
				ErrInvalidOutput, generation.ErrNoOutput, def.Name, resp.Structured)
		}
		out = maps.Clone(m)
	} else {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: %s: empty text", generation.ErrNoOutput, def.Name)
		}
		out = map[string]any{inv.flow.textField: text}
	}

	if def.Defaults != nil {
		out = def.Defaults(in, out)
	}

	validated, err := schema.ValidateObject(def.Output, out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s: %w", ErrInvalidOutput, generation.ErrNoOutput, def.Name, err)
	}

	if def.Finalize != nil {
		finalized, err := def.Finalize(in, validated)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: %s: %w", ErrInvalidOutput, generation.ErrNoOutput, def.Name, err)
		}
		if validated, err = schema.ValidateObject(def.Output, finalized); err != nil {
			return nil, fmt.Errorf("%w: %w: %s: %w", ErrInvalidOutput, generation.ErrNoOutput, def.Name, err)
		}
	}

	inv.enter(StateValidated)
	return validated, nil
}

func (inv *invocation) tryRecover(err error) (map[string]any, bool) {
	def := inv.flow.def
	if def.Recover == nil {
		return nil, false
	}
	resp, ok := def.Recover(err)
	if !ok {
		return nil, false
	}

	out, verr := schema.ValidateObject(def.Output, resp)
	if verr != nil {
		inv.log.ErrorContext(inv.ctx, "recovery response rejected by output schema", "error", verr)
		return nil, false
	}

	inv.log.WarnContext(inv.ctx, "flow recovered from failure", "error", redact.Error(err))
	inv.span.AddEvent("recovered", trace.WithAttributes(attribute.String("error", redact.Error(err))))
	return out, true
}

func (f *Flow) record(ctx context.Context, log *slog.Logger, outcome journal.Outcome, elapsed time.Duration, err error) {
	if f.recorder == nil {
		return
	}

	msg := redact.Error(err)
	msg = truncateUTF8(msg, maxJournalError)

	run := journal.NewRun(f.def.Name, outcome, elapsed, msg)
	if rerr := f.recorder.Record(context.WithoutCancel(ctx), run); rerr != nil {
		log.WarnContext(ctx, "failed to record flow run",
			"error", redact.Error(rerr),
			"run_id", run.ID.String())
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
