package exception

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

var errBoom = errors.New("boom")

func callerLine() (string, int) {
	_, file, line, _ := runtime.Caller(1)
	return file, line
}

func failDeep() error {
	return fmt.Errorf("deep: %w", errBoom)
}

func TestCaptureUsesCatchSite(t *testing.T) {
	t.Parallel()

	err := failDeep()
	file, line := callerLine()
	ec := Catch(err)

	report, cerr := Capture("division failed", ec)
	if cerr != nil {
		t.Fatalf("Capture() error = %v", cerr)
	}
	if report.SourceFile != file {
		t.Fatalf("Capture().SourceFile = %q, want %q", report.SourceFile, file)
	}
	if report.LineNumber != line+1 {
		t.Fatalf("Capture().LineNumber = %d, want %d", report.LineNumber, line+1)
	}
	if report.Message != "division failed" {
		t.Fatalf("Capture().Message = %q, want %q", report.Message, "division failed")
	}
}

func TestWrapUsesCallerOfWrap(t *testing.T) {
	t.Parallel()

	file, line := callerLine()
	err := Wrap("load failed", errBoom)

	pe, ok := As(err)
	if !ok {
		t.Fatalf("Wrap() = %T, want *ProjectError", err)
	}
	if pe.Report.SourceFile != file || pe.Report.LineNumber != line+1 {
		t.Fatalf("Wrap() location = %s:%d, want %s:%d", pe.Report.SourceFile, pe.Report.LineNumber, file, line+1)
	}
}

func TestErrorFormatOrder(t *testing.T) {
	t.Parallel()

	err := New("model missing", Catch(errBoom))
	pe, ok := As(err)
	if !ok {
		t.Fatalf("New() = %T, want *ProjectError", err)
	}

	got := err.Error()
	want := fmt.Sprintf("Error occurred in script [%s] line [%d] message [model missing]", pe.Report.SourceFile, pe.Report.LineNumber)
	if got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}

	fileAt := strings.Index(got, pe.Report.SourceFile)
	lineAt := strings.Index(got, "["+strconv.Itoa(pe.Report.LineNumber)+"]")
	msgAt := strings.Index(got, "model missing")
	if fileAt < 0 || lineAt <= fileAt || msgAt <= lineAt {
		t.Fatalf("Error() = %q, want file, line, message in order", got)
	}
}

func TestEmptyMessage(t *testing.T) {
	t.Parallel()

	err := New("", Catch(errBoom))
	pe, ok := As(err)
	if !ok {
		t.Fatalf("New() = %T, want *ProjectError", err)
	}

	got := err.Error()
	if !strings.Contains(got, "script ["+pe.Report.SourceFile+"]") {
		t.Fatalf("Error() = %q, missing file segment", got)
	}
	if !strings.Contains(got, "line ["+strconv.Itoa(pe.Report.LineNumber)+"]") {
		t.Fatalf("Error() = %q, missing line segment", got)
	}
	if !strings.HasSuffix(got, "message []") {
		t.Fatalf("Error() = %q, want empty message segment", got)
	}
}

func TestInvalidContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ec   *Context
	}{
		{name: "nil context", ec: nil},
		{name: "no error", ec: &Context{Stack: []uintptr{1}}},
		{name: "no frames", ec: &Context{Err: errBoom}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Capture("x", tt.ec); !errors.Is(err, ErrInvalidContext) {
				t.Fatalf("Capture() error = %v, want ErrInvalidContext", err)
			}
			err := New("x", tt.ec)
			if !errors.Is(err, ErrInvalidContext) {
				t.Fatalf("New() error = %v, want ErrInvalidContext", err)
			}
			if _, ok := As(err); ok {
				t.Fatal("New() returned a ProjectError for an invalid context")
			}
		})
	}
}

func TestCatchAndWrapNil(t *testing.T) {
	t.Parallel()

	if ec := Catch(nil); ec != nil {
		t.Fatalf("Catch(nil) = %#v, want nil", ec)
	}
	if err := Wrap("x", nil); err != nil {
		t.Fatalf("Wrap(nil) = %v, want nil", err)
	}
}

func TestProjectErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := Wrap("read manifest", failDeep())
	if !errors.Is(err, errBoom) {
		t.Fatalf("errors.Is(%v, errBoom) = false", err)
	}

	outer := fmt.Errorf("setup: %w", err)
	pe, ok := As(outer)
	if !ok {
		t.Fatal("As() did not find the ProjectError")
	}
	if pe.Report.Message != "read manifest" {
		t.Fatalf("As().Report.Message = %q, want %q", pe.Report.Message, "read manifest")
	}
}

func TestReportMarshalZerologObject(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	report := Report{SourceFile: "train.go", LineNumber: 42, Message: "nan loss"}
	logger.Error().Object("report", report).Msg("failed")

	var got struct {
		Report Report `json:"report"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if got.Report != report {
		t.Fatalf("logged report = %+v, want %+v", got.Report, report)
	}
}
