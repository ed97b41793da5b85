// internal/logger/pretty.go
package logger

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	debugLabel = color.New(color.FgCyan).SprintFunc()
	infoLabel  = color.New(color.FgGreen).SprintFunc()
	warnLabel  = color.New(color.FgYellow).SprintFunc()
	errorLabel = color.New(color.FgRed).SprintFunc()
	fatalLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(debugLabel("[DEBUG]"))
	case zapcore.InfoLevel:
		enc.AppendString(infoLabel("[INFO]"))
	case zapcore.WarnLevel:
		enc.AppendString(warnLabel("[WARN]"))
	case zapcore.ErrorLevel:
		enc.AppendString(errorLabel("[ERROR]"))
	case zapcore.FatalLevel, zapcore.PanicLevel, zapcore.DPanicLevel:
		enc.AppendString(fatalLabel("[" + level.CapitalString() + "]"))
	default:
		enc.AppendString("[" + level.CapitalString() + "]")
	}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// CreatePrettyLogger writes colored, field-trimmed lines to w (stderr when
// nil). Only the fields named in keep survive; debug mode keeps everything.
func CreatePrettyLogger(debug bool, w io.Writer, keep ...string) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(prettyEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		levelFor(debug),
	)
	if debug {
		return zap.New(core)
	}
	return zap.New(NewFieldFilterCore(core, keep...))
}

// CreateCLILogger tees the pretty console output with a JSON log file.
func CreateCLILogger(debug bool, console io.Writer, file zapcore.WriteSyncer, keep ...string) *zap.Logger {
	pretty := CreatePrettyLogger(debug, console, keep...).Core()
	if file == nil {
		return zap.New(pretty)
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		file,
		zap.DebugLevel,
	)
	return zap.New(zapcore.NewTee(pretty, fileCore))
}

// CreateTUILogger writes only into buffer; the TUI owns the terminal.
func CreateTUILogger(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, errors.New("buffer is required for TUI logger")
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		buffer,
		levelFor(debug),
	)
	return zap.New(core), nil
}

// FieldFilterCore drops every field whose key is not in the allow list.
// Errors are always kept.
type FieldFilterCore struct {
	core  zapcore.Core
	allow map[string]struct{}
}

// NewFieldFilterCore wraps core.
func NewFieldFilterCore(core zapcore.Core, keep ...string) *FieldFilterCore {
	allow := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		allow[k] = struct{}{}
	}
	return &FieldFilterCore{core: core, allow: allow}
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &FieldFilterCore{core: c.core.With(c.filter(fields)), allow: c.allow}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.core.Write(entry, c.filter(fields))
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

func (c *FieldFilterCore) filter(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for _, f := range fields {
		if _, ok := c.allow[f.Key]; ok || f.Type == zapcore.ErrorType {
			out = append(out, f)
		}
	}
	return out
}
