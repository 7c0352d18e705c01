package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// L is the process wide logger. Packages log through it directly.
var L = newLogger(consoleWriter())

var (
	mu      sync.Mutex
	logFile *os.File
)

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
		TimeFormat: time.RFC3339,
	}
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

func SetLogLevel(level zerolog.Level) {
	L = L.Level(level)
}

// ParseLevel maps the config names onto zerolog levels. Unknown names fall back to info.
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLogOutput tees the logger into dir/fileName in addition to the console.
func SetLogOutput(dir, fileName string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return err
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f

	level := L.GetLevel()
	L = newLogger(zerolog.MultiLevelWriter(consoleWriter(), f)).Level(level)
	return nil
}

// SetOutput replaces every sink with w. Used by tests to silence or capture output.
func SetOutput(w io.Writer) {
	level := L.GetLevel()
	L = newLogger(w).Level(level)
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		L.Err(err).Msg("error closing log file")
	}
	logFile = nil
}
