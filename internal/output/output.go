// Package output writes primary results (tables, reports, JSON, YAML) to
// stdout. Diagnostics belong to the log package on stderr.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Supported values for the --format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

type ctxKey struct{}

// Printer writes primary output.
type Printer struct {
	w      io.Writer
	format string
}

// New creates a text Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w, format: FormatText}
}

// WithPrinter attaches a text Printer for w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// WithFormat returns ctx carrying a copy of its Printer set to format.
func WithFormat(ctx context.Context, format string) (context.Context, error) {
	if !slices.Contains(Formats, format) {
		return ctx, fmt.Errorf("invalid format %q: must be one of %v", format, Formats)
	}
	p := *FromContext(ctx)
	p.format = format
	return context.WithValue(ctx, ctxKey{}, &p), nil
}

// FromContext retrieves the Printer from context.
// Returns a text Printer on os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Format returns the active output format.
func (p *Printer) Format() string {
	return p.format
}

// Structured reports whether results should be encoded rather than rendered.
func (p *Printer) Structured() bool {
	return p.format == FormatJSON || p.format == FormatYAML
}

// Encode writes v as JSON or YAML depending on the format.
// In text mode it falls back to JSON.
func (p *Printer) Encode(v any) error {
	if p.format == FormatYAML {
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
