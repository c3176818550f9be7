package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-feedbackform/pkg/model"
)

// OutputFormat controls how submissions are serialised.
type OutputFormat string

const (
	// OutputFormatJSON emits one JSON object per line.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded lines.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a key=value block followed by a blank line.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat validates a user-supplied format name.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(raw))); format {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, nil
	case "":
		return OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("sink: unknown output format %q", raw)
	}
}

// ContentType reports the media type of a serialised submission.
func (f OutputFormat) ContentType() string {
	switch f {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// WriterOption configures a WriterSink.
type WriterOption func(*WriterSink)

// WithFormat selects the serialisation format.
func WithFormat(format OutputFormat) WriterOption {
	return func(s *WriterSink) {
		if format != "" {
			s.format = format
		}
	}
}

// WithSanitizer strips markup from every value before it is written.
func WithSanitizer(policy *bluemonday.Policy) WriterOption {
	return func(s *WriterSink) {
		s.policy = policy
	}
}

// WithStrictSanitizer is WithSanitizer using bluemonday's strict policy.
func WithStrictSanitizer() WriterOption {
	return WithSanitizer(bluemonday.StrictPolicy())
}

// WriterSink serialises submissions to an io.Writer.
type WriterSink struct {
	mu     sync.Mutex
	out    io.Writer
	format OutputFormat
	policy *bluemonday.Policy
}

// NewWriterSink returns a sink writing JSON lines to out unless configured
// otherwise.
func NewWriterSink(out io.Writer, options ...WriterOption) *WriterSink {
	s := &WriterSink{out: out, format: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.out == nil {
		s.out = io.Discard
	}
	return s
}

// Submit writes data.
func (s *WriterSink) Submit(ctx context.Context, data model.FormData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := Serialize(s.sanitize(data), s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(payload); err != nil {
		return fmt.Errorf("sink: write submission: %w", err)
	}
	return nil
}

func (s *WriterSink) sanitize(data model.FormData) model.FormData {
	if s.policy == nil {
		return data
	}
	for _, field := range model.Fields() {
		value, _ := data.Get(field)
		data, _ = data.With(field, s.policy.Sanitize(value))
	}
	return data
}

// Serialize renders data in format, terminated by a newline.
func Serialize(data model.FormData, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(data) + "\n"), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(data) + "\n"), nil
	case OutputFormatJSON, "":
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("sink: encode json: %w", err)
		}
		return append(raw, '\n'), nil
	default:
		return nil, fmt.Errorf("sink: unknown output format %q", format)
	}
}

func flattenForm(data model.FormData) string {
	values := url.Values{}
	for key, value := range data.Values() {
		values.Set(key, value)
	}
	return values.Encode()
}

func prettyPrint(data model.FormData) string {
	var b strings.Builder
	for _, field := range model.Fields() {
		value, _ := data.Get(field)
		fmt.Fprintf(&b, "%s=%s\n", field, value)
	}
	return b.String()
}
