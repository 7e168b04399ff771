package generation

import (
	"context"

	"github.com/phrazzld/nutri-api/internal/schema"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one prior turn of a conversation.
type Message struct {
	Role Role
	Text string
}

// Media is an inline binary attachment, typically a photo.
type Media struct {
	MIMEType string
	Data     []byte
}

// Request is a single model invocation.
type Request struct {
	// System is an optional system instruction.
	System string

	// Prompt is the rendered prompt text, sent as the final user turn.
	Prompt string

	// History holds earlier conversation turns, oldest first.
	History []Message

	// Media is attached to the final user turn ahead of the prompt text.
	Media []Media

	// OutputSchema requests structured output. When nil the model answers in
	// free text.
	OutputSchema *schema.Schema
}

// Structured reports whether the request asks for structured output.
func (r *Request) Structured() bool {
	return r.OutputSchema != nil
}

// Response is the model's answer. Text is always set; Structured holds the
// decoded JSON value when the request carried an OutputSchema.
type Response struct {
	Text       string
	Structured any
}

// Invoker sends requests to a language model.
//
// Implementations make a single attempt per call. They must be safe for
// concurrent use and must not retain the request after returning.
type Invoker interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}
