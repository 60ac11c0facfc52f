package skirtlog

import (
	"log"
	"os"

	"github.com/natefinch/lumberjack"
)

// stdoutLogger is the zero-value default Logger: a standard log.Logger
// writing to os.Stdout, matching log_local.go's fallback path when no log
// file is configured.
type stdoutLogger struct{}

var out = log.New(os.Stdout, "", log.LstdFlags)

func (stdoutLogger) Debugf(format string, args ...interface{})    { out.Printf(" DEBUG "+format, args...) }
func (stdoutLogger) Infof(format string, args ...interface{})     { out.Printf(" INFO "+format, args...) }
func (stdoutLogger) Warningf(format string, args ...interface{})  { out.Printf(" WARNING "+format, args...) }
func (stdoutLogger) Errorf(format string, args ...interface{})    { out.Printf(" ERROR "+format, args...) }
func (stdoutLogger) Criticalf(format string, args ...interface{}) { out.Printf(" CRITICAL "+format, args...) }
func (stdoutLogger) Shutdown()                                    {}

// FileConfig configures a rotating log file, the same three knobs
// log_local.go's LogConfig exposes.
type FileConfig struct {
	Logfile string
	MaxSize int `toml:"max_log_size"` // megabytes
	MaxAge  int `toml:"max_log_age"`  // days
}

// fileLogger writes through a lumberjack-managed rotating file.
type fileLogger struct {
	*lumberjack.Logger
}

// NewFileLogger builds a Logger backed by a rotating file, or falls back
// to stdout if cfg is nil or names no file.
func NewFileLogger(cfg *FileConfig) Logger {
	if cfg == nil || cfg.Logfile == "" {
		Infof("sending log messages to stdout since no log file specified")
		return stdoutLogger{}
	}
	l := &lumberjack.Logger{
		Filename: cfg.Logfile,
		MaxSize:  cfg.MaxSize,
		MaxAge:   cfg.MaxAge,
	}
	log.SetOutput(l)
	return fileLogger{l}
}

func (l fileLogger) Debugf(format string, args ...interface{}) {
	log.Printf(" DEBUG "+format, args...)
}

func (l fileLogger) Infof(format string, args ...interface{}) {
	log.Printf(" INFO "+format, args...)
}

func (l fileLogger) Warningf(format string, args ...interface{}) {
	log.Printf(" WARNING "+format, args...)
}

func (l fileLogger) Errorf(format string, args ...interface{}) {
	log.Printf(" ERROR "+format, args...)
}

func (l fileLogger) Criticalf(format string, args ...interface{}) {
	log.Printf(" CRITICAL "+format, args...)
}

func (l fileLogger) Shutdown() {
	log.SetOutput(os.Stderr)
	if l.Logger != nil {
		l.Close()
	}
}
