package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugfGatedOnDebugMode(t *testing.T) {
	var buf bytes.Buffer
	Configure(false, &buf)
	Debugf("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("Debugf wrote output with debug mode off: %q", buf.String())
	}

	Configure(true, &buf)
	Debugf("hello %s", "world")
	if !strings.Contains(buf.String(), "hello world") {
		t.Fatalf("Debugf output = %q, want it to contain %q", buf.String(), "hello world")
	}
	if !strings.Contains(buf.String(), "logging_test.go") {
		t.Fatalf("Debugf output = %q, want caller file name", buf.String())
	}
}

func TestErrorfAlwaysLogs(t *testing.T) {
	var buf bytes.Buffer
	Configure(false, &buf)
	Errorf("boom %d", 42)
	if !strings.Contains(buf.String(), "boom 42") {
		t.Fatalf("Errorf output = %q, want it to contain %q", buf.String(), "boom 42")
	}
}

func TestShortFuncName(t *testing.T) {
	cases := map[string]string{
		"roboone/internal/logging.TestShortFuncName": "TestShortFuncName",
		"main.main": "main",
		"bare":      "bare",
	}
	for full, want := range cases {
		if got := shortFuncName(full); got != want {
			t.Errorf("shortFuncName(%q) = %q, want %q", full, got, want)
		}
	}
}
