package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface on top of zap's sugared logger
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a zap-backed logger. format "json" selects the production
// encoder, anything else the console encoder.
func NewZapLogger(level string, format string) Logger {
	cfg := zap.NewDevelopmentConfig()
	if format == logFormatJSON {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
	}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timestampFormat)
	cfg.Level = zap.NewAtomicLevelAt(parseZapLevel(level))
	cfg.OutputPaths = []string{"stdout"}

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		z = zap.NewNop()
	}
	return &ZapLogger{sugar: z.Sugar()}
}

func parseZapLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case logLevelDebug:
		return zapcore.DebugLevel
	case logLevelWarn, "WARNING":
		return zapcore.WarnLevel
	case logLevelError:
		return zapcore.ErrorLevel
	case logLevelFatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *ZapLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }
func (l *ZapLogger) Info(args ...interface{})  { l.sugar.Info(args...) }
func (l *ZapLogger) Warn(args ...interface{})  { l.sugar.Warn(args...) }
func (l *ZapLogger) Error(args ...interface{}) { l.sugar.Error(args...) }
func (l *ZapLogger) Fatal(args ...interface{}) { l.sugar.Fatal(args...) }

func (l *ZapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &ZapLogger{sugar: l.sugar.With(kv...)}
}

// WithContext adds request-scoped values from ctx
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	return l.WithFields(contextFields(ctx))
}

// WithComponent adds component name to the logger
func (l *ZapLogger) WithComponent(component string) Logger {
	return &ZapLogger{sugar: l.sugar.With("component", component)}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
