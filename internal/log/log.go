package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup sends slog output to a rotating JSON log file. Only the first call
// has any effect.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		logRotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,    // Max size in MB
			MaxBackups: 0,     // Number of backups
			MaxAge:     30,    // Days
			Compress:   false, // Enable compression
		}
		slog.SetDefault(slog.New(newHandler(logRotator, debug)))
		initialized.Store(true)
	})
}

func newHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
}

func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic writes a timestamped report next to the working directory when
// the calling goroutine panics, then runs cleanup.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		writePanicReport(".", name, r)
		if cleanup != nil {
			cleanup()
		}
	}
}

func writePanicReport(dir, name string, r any) string {
	timestamp := time.Now().Format("20060102-150405")
	filename := filepath.Join(dir, fmt.Sprintf("looplist-panic-%s-%s.log", name, timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return ""
	}
	defer file.Close()

	fmt.Fprintf(file, "Panic in %s: %v\n\n", name, r)
	fmt.Fprintf(file, "Time: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "Stack Trace:\n%s\n", debug.Stack())
	return filename
}
