package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Provider generates structured output from a language model. The
// question source only ever asks for JSON that matches a Schema.
type Provider interface {
	// Generate runs one completion. When req.Schema is set the returned
	// Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the vendor model identifier requests are sent to.
	ModelID() string
}

// Request is a single completion request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the vendor into structured output mode.
	Schema *Schema

	MaxTokens int

	// Temperature is passed through when positive; zero keeps the vendor
	// default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who sent a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is sent as the vendor schema name, e.g. "question-batch".
	Name        string
	Description string
	Definition  map[string]any
}

// Normalised stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a successful completion.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

// Decode unmarshals the response content into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Content, v); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Model, err)
	}
	return nil
}

// Usage is the token accounting of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// completion is what a vendor adapter extracts from its SDK response
// before the shared checks run.
type completion struct {
	provider string
	model    string
	content  json.RawMessage
	stop     string
	usage    Usage
}

// finish turns a vendor completion into a Response. Structured output cut
// off by the token limit is reported as ErrTruncated rather than as a
// schema failure.
func finish(req Request, c completion) (*Response, error) {
	if req.Schema != nil && c.stop == StopMaxTokens {
		return nil, &Error{Kind: ErrTruncated, Provider: c.provider, Content: c.content}
	}
	if err := validateResponse(c.provider, req.Schema, c.content); err != nil {
		return nil, err
	}
	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	return &Response{
		Content:    c.content,
		Usage:      c.usage,
		Model:      c.model,
		StopReason: c.stop,
	}, nil
}

// resolveModel maps a friendly model alias to a vendor model ID. Unknown
// names are passed through so full IDs work too.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
