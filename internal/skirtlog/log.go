// Package skirtlog provides a leveled logger over an optionally rotating
// file, mirrored directly on janelia-flyem-dvid/dvid/log.go's shape: a
// package-level severity Mode gate, a Logger interface implemented by a
// concrete file-backed logger (log_local.go), and a TimeLog wrapper that
// appends elapsed time to every message.
package skirtlog

import "time"

// ModeFlag is a log severity level.
type ModeFlag uint

const (
	DebugMode ModeFlag = iota
	InfoMode
	WarningMode
	ErrorMode
	CriticalMode
	SilentMode
)

var mode ModeFlag

// SetMode sets the severity required for a log message to be printed.
// SilentMode turns off all logging.
func SetMode(m ModeFlag) { mode = m }

// Logger provides leveled logging, analogous to fmt.Printf.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	Shutdown()
}

var logger Logger = stdoutLogger{}

// SetLogger installs the package-level logger package functions delegate
// to.
func SetLogger(l Logger) { logger = l }

func Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		logger.Debugf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		logger.Infof(format, args...)
	}
}

func Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		logger.Warningf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		logger.Errorf(format, args...)
	}
}

func Criticalf(format string, args ...interface{}) {
	if mode <= CriticalMode {
		logger.Criticalf(format, args...)
	}
}

// TimeLog adds elapsed time to logging.
//
//	t := skirtlog.NewTimeLog()
//	...
//	t.Infof("batch done")  // appends elapsed time since NewTimeLog()
type TimeLog struct {
	logger Logger
	start  time.Time
}

func NewTimeLog() TimeLog {
	return TimeLog{logger, time.Now()}
}

func (t TimeLog) Debugf(format string, args ...interface{}) {
	if mode <= DebugMode {
		t.logger.Debugf(format+": %s", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Infof(format string, args ...interface{}) {
	if mode <= InfoMode {
		t.logger.Infof(format+": %s", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Warningf(format string, args ...interface{}) {
	if mode <= WarningMode {
		t.logger.Warningf(format+": %s", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Errorf(format string, args ...interface{}) {
	if mode <= ErrorMode {
		t.logger.Errorf(format+": %s", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Criticalf(format string, args ...interface{}) {
	if mode <= CriticalMode {
		t.logger.Criticalf(format+": %s", append(args, time.Since(t.start))...)
	}
}

func (t TimeLog) Shutdown() { t.logger.Shutdown() }
