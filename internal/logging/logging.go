// Package logging provides the process-wide debug/print facility shared by every
// RoboOne server. Output is gated on a runtime-configurable debug flag and carries
// caller file/line/function information the way a developer chasing a bug on the
// console would want, rather than a bare message.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
)

var debugMode atomic.Bool

var std = log.New(os.Stdout, "", log.LstdFlags)

// Configure sets the debug flag and, if sink is non-nil, switches the log
// output away from stdout. Call once at process start.
func Configure(debug bool, sink io.Writer) {
	debugMode.Store(debug)
	if sink != nil {
		std.SetOutput(sink)
	}
}

// OpenFileSink opens (creating/appending) a per-process log file for use with
// Configure's sink argument.
func OpenFileSink(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// Debugf logs a debug-level message with caller file:line when the debug flag
// is set; it is a no-op otherwise.
func Debugf(format string, args ...interface{}) {
	if !debugMode.Load() {
		return
	}
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		std.Printf("DEBUG: "+format, args...)
		return
	}
	std.Printf("[%s:%d %s] "+format, prepend(filepath.Base(file), line, shortFuncName(runtime.FuncForPC(pc).Name()), args)...)
}

// Errorf always logs, regardless of the debug flag, since errors matter in
// production too; it adds caller info only when debug mode is on.
func Errorf(format string, args ...interface{}) {
	if !debugMode.Load() {
		std.Printf("ERROR: "+format, args...)
		return
	}
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		std.Printf("ERROR: "+format, args...)
		return
	}
	std.Printf("ERROR [%s:%d %s] "+format, prepend(filepath.Base(file), line, shortFuncName(runtime.FuncForPC(pc).Name()), args)...)
}

// Halt is the universal assertion point described in the error handling design:
// it logs file/line/parameter and halts the process. It must be used only for
// invariant violations, never for ordinary business-logic failure.
func Halt(format string, args ...interface{}) {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		std.Fatalf("ASSERTION FAILED: "+format, args...)
		return
	}
	std.Fatalf("ASSERTION FAILED [%s:%d %s] "+format, prepend(filepath.Base(file), line, shortFuncName(runtime.FuncForPC(pc).Name()), args)...)
}

func prepend(file string, line int, fn string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+3)
	out = append(out, file, line, fn)
	return append(out, args...)
}

func shortFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}

// Sprintf is a thin convenience wrapper kept local so callers building
// catalog/debug names don't need to import fmt directly everywhere.
func Sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
