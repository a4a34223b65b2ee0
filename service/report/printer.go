package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Format selects how a Printer renders markers.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Printer writes markers to an io.Writer, one line per marker (plan start
// writes a header line first in text format).
type Printer struct {
	mu     sync.Mutex
	writer io.Writer
	format Format
}

// NewPrinter creates a printer; a nil writer defaults to os.Stdout.
func NewPrinter(writer io.Writer, format Format) *Printer {
	if writer == nil {
		writer = os.Stdout
	}
	if format == "" {
		format = FormatText
	}
	return &Printer{writer: writer, format: format}
}

func (p *Printer) Report(_ context.Context, marker *Marker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.format == FormatJSON {
		_ = json.NewEncoder(p.writer).Encode(marker)
		return
	}
	fmt.Fprint(p.writer, Text(marker))
}

// Text renders a marker the way it appears on the console, including the
// trailing newline.
func Text(marker *Marker) string {
	switch marker.Kind {
	case KindPlanStarted:
		return fmt.Sprintf("==%s (%s)==\nExecution Started. Elapsed Time = 0\n", marker.Plan, marker.Policy)
	case KindTaskStarted:
		return fmt.Sprintf("starting %s\n", marker.TaskID)
	case KindTaskCompleted:
		if marker.Error != "" {
			return fmt.Sprintf("%s failed\n", marker.TaskID)
		}
		return fmt.Sprintf("%s is done\n", marker.TaskID)
	case KindElapsed:
		return fmt.Sprintf("Elapsed Time: %d seconds\n", marker.Seconds)
	case KindResult:
		return fmt.Sprintf("%v\n", marker.Result)
	case KindFailure:
		return fmt.Sprintf("error: %s\n", marker.Error)
	}
	return fmt.Sprintf("%s\n", marker.Kind)
}
