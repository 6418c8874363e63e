// Package report turns a finished run into JUnit and JSON files and ships it
// to the optional history stores.
package report

import (
	"context"
	stderrors "errors"
	"fmt"

	"serverest-suite/internal/models"
)

// Sink receives the summary of a finished run exactly once.
type Sink interface {
	Name() string
	Write(ctx context.Context, summary *models.RunSummary) error
}

// MultiSink writes to every sink, even after one fails, and joins the errors.
type MultiSink []Sink

func (m MultiSink) Name() string {
	return "multi"
}

func (m MultiSink) Write(ctx context.Context, summary *models.RunSummary) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return stderrors.Join(errs...)
}

// Format names accepted in runner.report_formats.
const (
	FormatJUnit = "junit"
	FormatJSON  = "json"
)

// FileSinks builds the file writers for formats, all writing into dir.
func FileSinks(dir string, formats []string) ([]Sink, error) {
	sinks := make([]Sink, 0, len(formats))
	for _, f := range formats {
		switch f {
		case FormatJUnit:
			sinks = append(sinks, NewJUnitWriter(dir))
		case FormatJSON:
			sinks = append(sinks, NewJSONWriter(dir))
		default:
			return nil, fmt.Errorf("unknown report format %q", f)
		}
	}
	return sinks, nil
}
