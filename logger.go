package jwtmiddleware

import (
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// The adapters below satisfy Logger, core.Logger, validator.Logger and
// jwks.Logger. A *slog.Logger needs no adapter.

// NewZapLogger returns a Logger adapter for zap.SugaredLogger.
// Key-value args are passed through as zap fields.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLoggerAdapter{l}
}

type zapLoggerAdapter struct{ l *zap.SugaredLogger }

func (z *zapLoggerAdapter) Debug(msg string, args ...any) { z.l.Debugw(msg, args...) }
func (z *zapLoggerAdapter) Info(msg string, args ...any)  { z.l.Infow(msg, args...) }
func (z *zapLoggerAdapter) Warn(msg string, args ...any)  { z.l.Warnw(msg, args...) }
func (z *zapLoggerAdapter) Error(msg string, args ...any) { z.l.Errorw(msg, args...) }

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
// Key-value args become logrus fields; a key without a value is logged
// under "!BADKEY" as log/slog does.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (l *logrusLoggerAdapter) Debug(msg string, args ...any) { l.with(args).Debug(msg) }
func (l *logrusLoggerAdapter) Info(msg string, args ...any)  { l.with(args).Info(msg) }
func (l *logrusLoggerAdapter) Warn(msg string, args ...any)  { l.with(args).Warn(msg) }
func (l *logrusLoggerAdapter) Error(msg string, args ...any) { l.with(args).Error(msg) }

func (l *logrusLoggerAdapter) with(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return l.l
	}
	return l.l.WithFields(logrus.Fields(keyValues(args)))
}

// NewZerologLogger returns a Logger adapter for zerolog.Logger.
// Key-value args are handled as in NewLogrusLogger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLoggerAdapter{l}
}

type zerologLoggerAdapter struct{ l zerolog.Logger }

func (z *zerologLoggerAdapter) Debug(msg string, args ...any) { z.log(z.l.Debug(), msg, args) }
func (z *zerologLoggerAdapter) Info(msg string, args ...any)  { z.log(z.l.Info(), msg, args) }
func (z *zerologLoggerAdapter) Warn(msg string, args ...any)  { z.log(z.l.Warn(), msg, args) }
func (z *zerologLoggerAdapter) Error(msg string, args ...any) { z.log(z.l.Error(), msg, args) }

func (z *zerologLoggerAdapter) log(e *zerolog.Event, msg string, args []any) {
	if len(args) > 0 {
		e = e.Fields(keyValues(args))
	}
	e.Msg(msg)
}

func keyValues(args []any) map[string]any {
	fields := make(map[string]any, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}
