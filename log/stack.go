package log

import (
	"path/filepath"
	"runtime"
	"strconv"
)

var skipFunc = map[string]bool{
	"simplicity/log.Write":              true,
	"simplicity/log.Fatal":              true,
	"simplicity/log.Messagef":           true,
	"simplicity/log.Error":              true,
	"simplicity/log.RecoverAndLogError": true,
}

// SkipFunc removes the named function from
// at=[file:line] entries printed to the log output.
// The provided name should be a fully-qualified function name
// comprising the import path and identifier separated by a dot.
// For example, simplicity/protocol/verify.tracer.func1.
// SkipFunc must not be called concurrently with any function
// in this package (including itself).
func SkipFunc(name string) {
	skipFunc[name] = true
}

// caller returns a string containing filename and line number of
// the deepest function invocation on the calling goroutine's stack,
// after skipping functions in skipFunc and the log package itself.
// If no stack information is available, it returns "?:?".
func caller() string {
	for i := 1; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			return "?:?"
		}
		name := runtime.FuncForPC(pc).Name()
		if name == "simplicity/log.caller" || skipFunc[name] {
			continue
		}
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
}
