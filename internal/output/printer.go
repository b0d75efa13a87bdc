package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Printer writes semantic output, styled through a StyleProvider or as plain text.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	forcePlain    bool

	mu sync.Mutex
}

// Option configures a Printer.
type Option func(*Printer)

// WithWriter sends output to writer instead of os.Stdout.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// WithStyles styles output through provider. An unavailable provider leaves the
// printer plain.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styleProvider = provider
		}
	}
}

// PlainText ignores any style provider. Used for pipes and test mode.
func PlainText() Option {
	return func(p *Printer) {
		p.forcePlain = true
	}
}

// NewPrinter creates a Printer writing to os.Stdout unless options say otherwise.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{writer: os.Stdout}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text with a newline without any semantic styling.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Success outputs success text.
func (p *Printer) Success(text string) {
	p.output(SemanticSuccess, text, true)
}

// Warning outputs warning text.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Highlight outputs text with highlight styling.
func (p *Printer) Highlight(text string) {
	p.output(SemanticHighlight, text, false)
}

// Muted outputs secondary text such as timestamps and hints.
func (p *Printer) Muted(text string) {
	p.output(SemanticMuted, text, true)
}

// User outputs a line spoken by the user in the assistant chat.
func (p *Printer) User(text string) {
	p.output(SemanticUser, text, true)
}

// Assistant outputs a line spoken by the assistant.
func (p *Printer) Assistant(text string) {
	p.output(SemanticAssistant, text, true)
}

// Block writes pre-rendered content (for example glamour output) unchanged.
func (p *Printer) Block(text string) {
	p.write(text)
}

// Value writes v as indented JSON. Used for --json command output.
func (p *Printer) Value(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	p.write(string(data) + "\n")
	return nil
}

func (p *Printer) write(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprint(p.writer, text)
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	var style TextStyle
	if p.IsStylable() {
		style = p.styleProvider.GetStyle(string(semantic))
	} else {
		style = NewPlainStyleProvider().GetStyle(string(semantic))
	}

	result := style.Render(text)
	if addNewline && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}
	p.write(result)
}

// IsStylable returns true if the printer applies styles.
func (p *Printer) IsStylable() bool {
	return !p.forcePlain && p.styleProvider != nil && p.styleProvider.IsAvailable()
}
