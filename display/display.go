// Package display renders user-facing CLI output. Commands log through
// zerolog for operators and talk to people through this package.
package display

import (
	"context"

	"github.com/pterm/pterm"
)

// TableData is a rendered table: one header row plus data rows.
type TableData struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Display is the user-facing output surface of the CLI.
type Display interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Table(data TableData) error
}

type contextKey struct{}

// WithDisplay attaches a display to the context.
func WithDisplay(ctx context.Context, d Display) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// GetDisplayOrDefault returns the display from the context, or a fresh
// default one.
func GetDisplayOrDefault(ctx context.Context) Display {
	if d, ok := ctx.Value(contextKey{}).(Display); ok {
		return d
	}
	return New()
}

// New creates the standard terminal display.
func New() Display {
	return &ptermDisplay{}
}

type ptermDisplay struct{}

func (p *ptermDisplay) Info(format string, args ...interface{}) {
	pterm.Info.Printfln(format, args...)
}

func (p *ptermDisplay) Success(format string, args ...interface{}) {
	pterm.Success.Printfln(format, args...)
}

func (p *ptermDisplay) Warning(format string, args ...interface{}) {
	pterm.Warning.Printfln(format, args...)
}

func (p *ptermDisplay) Error(format string, args ...interface{}) {
	pterm.Error.Printfln(format, args...)
}

func (p *ptermDisplay) Table(data TableData) error {
	if data.Title != "" {
		pterm.DefaultSection.Println(data.Title)
	}

	rows := make(pterm.TableData, 0, len(data.Rows)+1)
	rows = append(rows, data.Headers)
	for _, row := range data.Rows {
		rows = append(rows, row)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
