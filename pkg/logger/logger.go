package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/ml-end-to-end/pkg/exception"
)

// FileLayout names log files after the time the logger was created.
const FileLayout = "01_02_2006_15_04_05"

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Dir          string `split_words:"true"`
}

var DefaultConfig = &Config{
	Debug:        false,
	PrettyFormat: false,
}

var logFile io.Closer

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

// New builds a logger writing to stdout and, when conf.Dir is set, to a
// timestamped file in that directory. The returned closer is nil without a file.
func New(conf Config, now time.Time) (zerolog.Logger, io.Closer, error) {
	var console io.Writer = os.Stdout
	if conf.PrettyFormat {
		console = zerolog.NewConsoleWriter()
	}

	out := console
	var closer io.Closer
	if dir := strings.TrimSpace(conf.Dir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
		}
		path := filepath.Join(dir, now.Format(FileLayout)+".log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(console, f)
		closer = f
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	if conf.Debug {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	return logger.With().Caller().Stack().Logger(), closer, nil
}

// Init replaces the global logger. A previously opened log file is closed.
func Init(opts ...Config) error {
	logger, closer, err := New(*safe(opts...), time.Now())
	if err != nil {
		return err
	}
	Close()
	log.Logger = logger
	logFile = closer
	return nil
}

func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Error logs err on the global logger, attaching the report of a
// *exception.ProjectError found in its chain.
func Error(err error) {
	ErrorTo(log.Logger, err)
}

func ErrorTo(logger zerolog.Logger, err error) {
	if err == nil {
		return
	}
	event := logger.Error().Err(err)
	if pe, ok := exception.As(err); ok {
		event = event.Object("report", pe.Report)
		if pe.Err != nil {
			event = event.Str("cause", pe.Err.Error())
		}
	}
	event.Msg("operation failed")
}
