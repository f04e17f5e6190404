package logging

import "testing"

func TestNewDefaultsToInfo(t *testing.T) {
	// parseLevel should not panic on garbage input and should default sanely.
	if lvl := parseLevel("nonsense"); lvl.String() != "info" {
		t.Errorf("parseLevel(nonsense) = %v, want info", lvl)
	}
}

func TestParseLevelKnownValues(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"DEBUG":   "debug",
		"info":    "info",
		"warn":    "warn",
		"warning": "warn",
		"error":   "error",
	}
	for input, want := range tests {
		if got := parseLevel(input).String(); got != want {
			t.Errorf("parseLevel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLoggerMethodsDoNotPanic(t *testing.T) {
	logger := New("debug")
	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Infof("this should be discarded")
}
