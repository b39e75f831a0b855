// Package logger provides the shared logging framework.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level aliases the zerolog level type.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config is the logger configuration.
type Config struct {
	Level      string `json:"level"`
	Format     string `json:"format"` // json/console
	Output     string `json:"output"` // stdout/stderr/file
	FilePath   string `json:"file_path,omitempty"`
	TimeFormat string `json:"time_format,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init initialises the global logger.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel parses a textual log level.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, falling back to the default configuration
// when Init was never called. Init is once-guarded, so this is idempotent.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// Debug starts a debug event.
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info starts an info event.
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn starts a warning event.
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error starts an error event.
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal starts a fatal event.
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError starts an error event carrying err.
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// PlannerLogger is the planning engine component logger.
type PlannerLogger struct {
	base *zerolog.Logger
}

// NewPlannerLogger creates a planner-scoped logger.
func NewPlannerLogger() *PlannerLogger {
	l := Get().With().Str("component", "planner").Logger()
	return &PlannerLogger{base: &l}
}

// EvaluationComplete records a finished constraint evaluation.
func (l *PlannerLogger) EvaluationComplete(assignmentID string, violations int, feasible bool, duration time.Duration) {
	l.base.Info().
		Str("assignment_id", assignmentID).
		Int("violations", violations).
		Bool("feasible", feasible).
		Dur("duration", duration).
		Msg("assignment evaluated")
}

// ConstraintViolation records a detected violation.
func (l *PlannerLogger) ConstraintViolation(constraint, severity, details string) {
	l.base.Warn().
		Str("constraint", constraint).
		Str("severity", severity).
		Str("details", details).
		Msg("constraint violated")
}

// PlanTransition records a plan status change.
func (l *PlannerLogger) PlanTransition(planID, from, to, actor string) {
	l.base.Info().
		Str("plan_id", planID).
		Str("from", from).
		Str("to", to).
		Str("actor", actor).
		Msg("plan status changed")
}

// SimulationComplete records a finished what-if run.
func (l *PlannerLogger) SimulationComplete(scenario string, coverageChange float64, riskDelta float64, duration time.Duration) {
	l.base.Info().
		Str("scenario", scenario).
		Float64("coverage_change", coverageChange).
		Float64("risk_delta", riskDelta).
		Dur("duration", duration).
		Msg("simulation complete")
}
