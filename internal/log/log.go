// Package log is the project logger: a thin wrapper over the logrus standard
// logger with optional rotated file output.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process-wide logger.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Setup configures the standard logger. When File is set, output goes to a
// lumberjack-rotated file as well as stderr. The returned closer flushes and
// closes the file.
func Setup(opts Options) (io.Closer, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	std := logrus.StandardLogger()
	std.SetLevel(level)
	std.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if opts.File == "" {
		std.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, 10),
		MaxBackups: orDefault(opts.MaxBackups, 3),
	}
	std.SetOutput(io.MultiWriter(os.Stderr, file))
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Logger returns the standard logger.
func Logger() *logrus.Logger {
	return logrus.StandardLogger()
}

// WithField returns an entry carrying one field.
func WithField(key string, value interface{}) *logrus.Entry {
	return logrus.WithField(key, value)
}

// WithFields returns an entry carrying several fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logrus.WithFields(fields)
}

func Debug(args ...interface{}) { logrus.Debug(args...) }
func Info(args ...interface{})  { logrus.Info(args...) }
func Warn(args ...interface{})  { logrus.Warn(args...) }
func Error(args ...interface{}) { logrus.Error(args...) }

func Debugf(format string, args ...interface{}) { logrus.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logrus.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logrus.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logrus.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { logrus.Fatalf(format, args...) }
