// Package log defines the logger engine.
// The unique feature is that it can create a child logger derived from the parent logger.
// Each logger defines a unique color style for the message outputs.
//
// Create a child logger for the packages that the deployer is calling.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/gamut"
)

const (
	WITH_TIMESTAMP    = true
	WITHOUT_TIMESTAMP = false
)

// Logger is the wrapper over the logger and keeps the style.
// The style is generated randomly.
type Logger struct {
	logger *log.Logger
	style  LoggerStyle

	mu       sync.Mutex
	children []*Logger
}

// LoggerStyle defines the various colors for each log parts.
type LoggerStyle struct {
	prefix    lipgloss.Style
	separator lipgloss.Style
}

func randomStyle() (LoggerStyle, error) {
	rawPalette, err := gamut.Generate(2, gamut.PastelGenerator{})
	if err != nil {
		return LoggerStyle{}, fmt.Errorf("gamut.Generate: %w", err)
	}
	palette := make([]lipgloss.Color, len(rawPalette))
	for i, raw := range rawPalette {
		lighter := gamut.Lighter(raw, 0.05)
		palette[i] = lipgloss.Color(gamut.ToHex(lighter))
	}

	style := LoggerStyle{}

	style.prefix = lipgloss.NewStyle().
		Bold(true).
		Faint(true).
		Foreground(palette[0])

	style.separator = lipgloss.NewStyle().
		Faint(true).
		Foreground(palette[1])

	return style, nil
}

// apply the style on top of the default charm styles.
func (style LoggerStyle) apply(logger *log.Logger) {
	styles := log.DefaultStyles()
	styles.Prefix = style.prefix
	styles.Separator = style.separator
	logger.SetStyles(styles)
}

// New logger with the prefix and timestamp writing to the standard output.
// It generates the random color style.
func New(prefix string, timestamp bool) (*Logger, error) {
	return NewWithOutput(os.Stdout, prefix, timestamp)
}

// NewWithOutput is the same as New, but the messages are written to w.
func NewWithOutput(w io.Writer, prefix string, timestamp bool) (*Logger, error) {
	style, err := randomStyle()
	if err != nil {
		return nil, fmt.Errorf("random_style: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportTimestamp: timestamp,
		ReportCaller:    false,
	})
	style.apply(logger)

	return &Logger{
		logger: logger,
		style:  style,
	}, nil
}

// SetLevel changes the minimal level of the printed messages.
// Accepts "debug", "info", "warn", "error" and "fatal".
//
// The children follow the level of the parent, even if they
// were created before.
func (logger *Logger) SetLevel(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log.ParseLevel(%s): %w", level, err)
	}
	logger.setLevel(parsed)
	return nil
}

func (logger *Logger) setLevel(level log.Level) {
	logger.logger.SetLevel(level)

	logger.mu.Lock()
	children := append([]*Logger(nil), logger.children...)
	logger.mu.Unlock()

	for _, child := range children {
		child.setLevel(level)
	}
}

// Prefix of the logger
func (logger *Logger) Prefix() string {
	return logger.logger.GetPrefix()
}

// Debug prints the message visible only in the debug level
func (logger *Logger) Debug(title string, kv ...interface{}) {
	logger.logger.Debug(title, kv...)
}

// Info prints the information
func (logger *Logger) Info(title string, kv ...interface{}) {
	logger.logger.Info(title, kv...)
}

// Warn prints the warning message
func (logger *Logger) Warn(title string, kv ...interface{}) {
	logger.logger.Warn(title, kv...)
}

// Error prints the error message
func (logger *Logger) Error(title string, kv ...interface{}) {
	logger.logger.Error(title, kv...)
}

// Child logger from the parent with the same color style.
//
// For example:
//
//	parent, _ := log.New("main", false)
//	vault_log := parent.Child("vault")
//	client_log := parent.Child("client", "network", "localhost")
//
//	parent.Info("starting")
//	vault_log.Info("login")
//	client_log.Info("connected", "chain_id", 31337)
//
//	// prints the following
//	// INFO main: starting
//	// INFO main/vault: login
//	// INFO main/client: connected network=localhost chain_id=31337
func (logger *Logger) Child(prefix string, kv ...interface{}) *Logger {
	child := logger.logger.With(kv...)
	child.SetPrefix(logger.logger.GetPrefix() + "/" + prefix)

	child_logger := &Logger{
		logger: child,
		style:  logger.style,
	}

	logger.mu.Lock()
	logger.children = append(logger.children, child_logger)
	logger.mu.Unlock()

	return child_logger
}
