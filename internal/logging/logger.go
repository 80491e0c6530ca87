package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"scad/internal/diag"
)

// Options holds logger configuration.
type Options struct {
	Enabled    bool          // master switch, independent of Level
	Level      diag.Severity // minimum severity that gets emitted
	Timestamps bool          // prefix every line with an ISO-8601 timestamp
	Tags       bool          // prefix every line with the bracketed severity
	Output     io.Writer     // sink (if nil, use OutputPath)
	OutputPath string        // alternative: file path ("-" for stderr)
}

// DefaultOptions enables INFO and above with severity tags on stderr.
func DefaultOptions() Options {
	return Options{
		Enabled: true,
		Level:   diag.SevInfo,
		Tags:    true,
	}
}

// Logger is a severity-filtered line logger. Each parse session owns its
// own Logger; there is no package-level instance. It implements
// diag.Logger so a Handler can forward through it.
type Logger struct {
	mu   sync.Mutex
	opts Options
	out  io.Writer
	now  func() time.Time
}

// New creates a Logger from opts, opening OutputPath when no writer is
// supplied.
func New(opts Options) (*Logger, error) {
	w, err := openOutput(opts)
	if err != nil {
		return nil, err
	}
	return &Logger{opts: opts, out: w, now: time.Now}, nil
}

// NewNop returns a disabled Logger that discards everything.
func NewNop() *Logger {
	return &Logger{opts: Options{}, out: io.Discard, now: time.Now}
}

func openOutput(opts Options) (io.Writer, error) {
	if opts.Output != nil {
		return opts.Output, nil
	}
	if opts.OutputPath == "" || opts.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output: %w", err)
	}
	return f, nil
}

// Enabled returns true if the logger emits anything at all.
func (l *Logger) Enabled() bool {
	return l.opts.Enabled
}

// Level returns the current threshold.
func (l *Logger) Level() diag.Severity {
	return l.opts.Level
}

// Log emits msg at sev. The threshold check happens before any formatting
// work, so suppressed messages cost nothing.
func (l *Logger) Log(sev diag.Severity, msg string) {
	if !l.opts.Enabled || sev < l.opts.Level {
		return
	}

	line := l.format(sev, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Best-effort write; a broken sink never interrupts a parse session.
	_, _ = io.WriteString(l.out, line)
}

func (l *Logger) format(sev diag.Severity, msg string) string {
	var prefix string
	if l.opts.Timestamps {
		prefix = "[" + l.now().UTC().Format(time.RFC3339) + "] "
	}
	if l.opts.Tags {
		prefix += "[" + sev.String() + "] "
	}
	return prefix + msg + "\n"
}

// Debug logs at DEBUG severity.
func (l *Logger) Debug(msg string) { l.Log(diag.SevDebug, msg) }

// Info logs at INFO severity.
func (l *Logger) Info(msg string) { l.Log(diag.SevInfo, msg) }

// Warning logs at WARNING severity.
func (l *Logger) Warning(msg string) { l.Log(diag.SevWarning, msg) }

// Error logs at ERROR severity.
func (l *Logger) Error(msg string) { l.Log(diag.SevError, msg) }

// Fatal logs at FATAL severity. It does not exit; halting is the
// caller's decision.
func (l *Logger) Fatal(msg string) { l.Log(diag.SevFatal, msg) }

// Close flushes and closes the sink if it supports either operation.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if flusher, ok := l.out.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			return err
		}
	}
	if closer, ok := l.out.(io.Closer); ok && l.out != os.Stderr && l.out != os.Stdout {
		return closer.Close()
	}
	return nil
}
