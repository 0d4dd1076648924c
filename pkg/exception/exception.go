package exception

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

const (
	reportFormat = "Error occurred in script [%s] line [%d] message [%s]"
	maxDepth     = 32
)

var ErrInvalidContext = errors.New("no active error context")

// Context is the error context handed from a catch site to New or Capture.
// Stack holds program counters with the catch site first.
type Context struct {
	Err   error
	Stack []uintptr
}

// Report locates a caught error.
type Report struct {
	SourceFile string `json:"source_file"`
	LineNumber int    `json:"line_number"`
	Message    string `json:"message"`
}

func (r Report) String() string {
	return fmt.Sprintf(reportFormat, r.SourceFile, r.LineNumber, r.Message)
}

func (r Report) MarshalZerologObject(e *zerolog.Event) {
	e.Str("source_file", r.SourceFile).
		Int("line_number", r.LineNumber).
		Str("message", r.Message)
}

// ProjectError wraps a caught error with the location it was caught at.
type ProjectError struct {
	Report Report
	Err    error
}

func (e *ProjectError) Error() string {
	return e.Report.String()
}

func (e *ProjectError) Unwrap() error {
	return e.Err
}

// Catch records the caller's stack for err. It returns nil for a nil error.
func Catch(err error) *Context {
	return catch(err, 3)
}

func catch(err error, skip int) *Context {
	if err == nil {
		return nil
	}
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	return &Context{Err: err, Stack: pcs[:n]}
}

// Capture builds the report for the innermost frame of ec.
func Capture(message string, ec *Context) (Report, error) {
	if ec == nil {
		return Report{}, fmt.Errorf("%w: context is nil", ErrInvalidContext)
	}
	if ec.Err == nil {
		return Report{}, fmt.Errorf("%w: context carries no error", ErrInvalidContext)
	}
	if len(ec.Stack) == 0 {
		return Report{}, fmt.Errorf("%w: context carries no stack frames", ErrInvalidContext)
	}

	frame, _ := runtime.CallersFrames(ec.Stack).Next()
	if frame.File == "" || frame.Line <= 0 {
		return Report{}, fmt.Errorf("%w: innermost frame has no source location", ErrInvalidContext)
	}

	return Report{
		SourceFile: frame.File,
		LineNumber: frame.Line,
		Message:    message,
	}, nil
}

// New returns a *ProjectError for ec, or an ErrInvalidContext error when ec
// does not describe a caught error.
func New(message string, ec *Context) error {
	report, err := Capture(message, ec)
	if err != nil {
		return err
	}
	return &ProjectError{Report: report, Err: ec.Err}
}

// Wrap is Catch followed by New, located at the caller of Wrap.
func Wrap(message string, err error) error {
	if err == nil {
		return nil
	}
	return New(message, catch(err, 3))
}

// As returns the outermost *ProjectError in err's chain.
func As(err error) (*ProjectError, bool) {
	var pe *ProjectError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
