package skirtlog

import (
	"testing"
)

type countingLogger struct {
	debug, info, warning, errorN, critical int
}

func (c *countingLogger) Debugf(format string, args ...interface{})    { c.debug++ }
func (c *countingLogger) Infof(format string, args ...interface{})     { c.info++ }
func (c *countingLogger) Warningf(format string, args ...interface{})  { c.warning++ }
func (c *countingLogger) Errorf(format string, args ...interface{})    { c.errorN++ }
func (c *countingLogger) Criticalf(format string, args ...interface{}) { c.critical++ }
func (c *countingLogger) Shutdown()                                    {}

func withMode(t *testing.T, m ModeFlag, l Logger, fn func()) {
	t.Helper()
	savedMode, savedLogger := mode, logger
	defer func() { mode, logger = savedMode, savedLogger }()
	SetMode(m)
	SetLogger(l)
	fn()
}

func TestSeverityGateSuppressesBelowThreshold(t *testing.T) {
	c := &countingLogger{}
	withMode(t, WarningMode, c, func() {
		Debugf("x")
		Infof("x")
		Warningf("x")
		Errorf("x")
		Criticalf("x")
	})
	if c.debug != 0 || c.info != 0 {
		t.Errorf("debug/info should be suppressed at WarningMode: debug=%d info=%d", c.debug, c.info)
	}
	if c.warning != 1 || c.errorN != 1 || c.critical != 1 {
		t.Errorf("warning/error/critical should fire at WarningMode: warning=%d error=%d critical=%d", c.warning, c.errorN, c.critical)
	}
}

func TestSilentModeSuppressesEverything(t *testing.T) {
	c := &countingLogger{}
	withMode(t, SilentMode, c, func() {
		Debugf("x")
		Infof("x")
		Warningf("x")
		Errorf("x")
		Criticalf("x")
	})
	if c.debug+c.info+c.warning+c.errorN+c.critical != 0 {
		t.Errorf("SilentMode should suppress all levels, got %+v", c)
	}
}

func TestTimeLogDelegatesAndGates(t *testing.T) {
	c := &countingLogger{}
	withMode(t, InfoMode, c, func() {
		tl := NewTimeLog()
		tl.Debugf("x") // below InfoMode, suppressed
		tl.Infof("x")
		if c.debug != 0 {
			t.Errorf("TimeLog.Debugf should be gated at InfoMode")
		}
		if c.info != 1 {
			t.Errorf("TimeLog.Infof should have fired once, got %d", c.info)
		}
	})
}

func TestNewFileLoggerFallsBackToStdoutWhenUnconfigured(t *testing.T) {
	l := NewFileLogger(nil)
	if _, ok := l.(stdoutLogger); !ok {
		t.Errorf("expected stdoutLogger fallback for nil config, got %T", l)
	}
	l2 := NewFileLogger(&FileConfig{})
	if _, ok := l2.(stdoutLogger); !ok {
		t.Errorf("expected stdoutLogger fallback for empty Logfile, got %T", l2)
	}
}

func TestNewFileLoggerUsesRotatingFileWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	l := NewFileLogger(&FileConfig{Logfile: dir + "/run.log", MaxSize: 1, MaxAge: 1})
	if _, ok := l.(fileLogger); !ok {
		t.Errorf("expected fileLogger when Logfile is set, got %T", l)
	}
	l.Shutdown()
}
