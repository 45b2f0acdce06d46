// Package log writes structured log entries as K=V pairs.
//
// Entries go to stdout unless SetOutput says otherwise. Each entry
// starts with the run ID and fields attached to its context by
// WithRunID and With, so every line about one program execution,
// including per-instruction trace lines, can be grouped and
// filtered together.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"simplicity/errors"
)

const rfc3339NanoFixed = "2006-01-02T15:04:05.000000000Z07:00"

var (
	mu     sync.Mutex // protects output
	output io.Writer  = os.Stdout

	// pairDelims holds the characters that may separate pairs in an
	// entry. Keys and values containing them are rewritten or quoted
	// so that pairs can be extracted unambiguously.
	pairDelims      = " ,;|&\t\n\r"
	illegalKeyChars = pairDelims + `="`
)

// Conventional keys.
const (
	KeyCaller = "at"    // location of caller
	KeyTime   = "t"     // time of call
	KeyRunID  = "runid" // run ID from context

	KeyMessage = "message" // produced by Messagef
	KeyError   = "error"   // produced by Error
	KeyStack   = "stack"   // printed on the lines following the entry

	keyLogError = "log-error" // problems with the log call itself
)

// UnknownRunID is logged for contexts without a run ID.
const UnknownRunID = "unknown_run_id"

type ctxKey int

const (
	runIDKey ctxKey = iota
	fieldsKey
)

// WithRunID returns a copy of ctx carrying a freshly generated run ID.
func WithRunID(ctx context.Context) context.Context {
	return context.WithValue(ctx, runIDKey, uuid.New().String())
}

// RunID returns the run ID stored in ctx by WithRunID,
// or UnknownRunID.
func RunID(ctx context.Context) string {
	if ctx == nil {
		return UnknownRunID
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return UnknownRunID
}

// With returns a copy of ctx whose entries carry keyvals,
// after any pairs attached by earlier calls and before the
// entry's own pairs. Values are formatted when With is called.
func With(ctx context.Context, keyvals ...interface{}) context.Context {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "")
	}
	var b strings.Builder
	b.WriteString(fields(ctx))
	for i := 0; i < len(keyvals); i += 2 {
		writePair(&b, keyvals[i], keyvals[i+1])
	}
	return context.WithValue(ctx, fieldsKey, b.String())
}

func fields(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(fieldsKey).(string)
	return s
}

// SetOutput sets the log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

// Write writes a structured log entry. Log fields are
// specified as a variadic sequence of alternating keys and values.
// Duplicate keys are preserved.
//
// Every entry begins with the run ID from ctx, the file and line
// of the caller, a timestamp, and the fields attached with With.
// The caller may be overridden by passing KeyCaller as the first key.
//
// A KeyStack value of type []byte or []errors.StackFrame, or else
// the stack of a KeyError value, is printed on the lines
// following the entry.
func Write(ctx context.Context, keyvals ...interface{}) {
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "", keyLogError, "odd number of log params")
	}

	var at string
	if len(keyvals) >= 2 && keyvals[0] == KeyCaller {
		at = formatValue(keyvals[1])
		keyvals = keyvals[2:]
	} else {
		at = caller()
	}

	var b strings.Builder
	b.WriteString(KeyRunID + "=" + formatValue(RunID(ctx)))
	b.WriteString(" " + KeyCaller + "=" + at)
	b.WriteString(" " + KeyTime + "=" + time.Now().UTC().Format(rfc3339NanoFixed))
	b.WriteString(fields(ctx))

	var stack interface{}
	for i := 0; i < len(keyvals); i += 2 {
		k, v := keyvals[i], keyvals[i+1]
		if k == KeyStack && isStackVal(v) {
			stack = v
			continue
		}
		if e, ok := v.(error); ok && k == KeyError && stack == nil {
			stack = errors.Stack(e)
		}
		writePair(&b, k, v)
	}
	b.WriteByte('\n')
	writeRawStack(&b, stack)

	mu.Lock()
	io.WriteString(output, b.String()) // ignore errors
	mu.Unlock()
}

func writePair(b *strings.Builder, k, v interface{}) {
	b.WriteByte(' ')
	b.WriteString(formatKey(k))
	b.WriteByte('=')
	b.WriteString(formatValue(v))
}

// Fatal is equivalent to Write() followed by a call to os.Exit(1).
func Fatal(ctx context.Context, keyvals ...interface{}) {
	Write(ctx, keyvals...)
	os.Exit(1)
}

func writeRawStack(b *strings.Builder, v interface{}) {
	switch v := v.(type) {
	case []byte:
		if len(v) > 0 {
			b.Write(v)
			b.WriteByte('\n')
		}
	case []errors.StackFrame:
		for _, s := range v {
			b.WriteString(s.String())
			b.WriteByte('\n')
		}
	}
}

func isStackVal(v interface{}) bool {
	switch v.(type) {
	case []byte, []errors.StackFrame:
		return true
	}
	return false
}

// Messagef writes an entry whose "message" value is
// formatted as in fmt.Printf.
func Messagef(ctx context.Context, format string, a ...interface{}) {
	Write(ctx, KeyCaller, caller(), KeyMessage, fmt.Sprintf(format, a...))
}

// Error writes an entry whose "error" value is err,
// prefixed with a message formatted as in fmt.Print if a is non-empty.
func Error(ctx context.Context, err error, a ...interface{}) {
	if len(a) > 0 && len(errors.Stack(err)) > 0 {
		err = errors.Wrap(err, a...) // keep err's stack
	} else if len(a) > 0 {
		err = fmt.Errorf("%s: %s", fmt.Sprint(a...), err) // don't add a stack here
	}
	Write(ctx, KeyCaller, caller(), KeyError, err)
}

// formatKey replaces delimiter and quote characters
// in the stringified key with hyphens.
func formatKey(k interface{}) string {
	s := fmt.Sprint(k)
	if s == "" {
		return "?"
	}
	for _, c := range illegalKeyChars {
		s = strings.ReplaceAll(s, string(c), "-")
	}
	return s
}

// formatValue quotes the stringified value
// if it contains delimiter characters.
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, pairDelims) {
		return strconv.Quote(s)
	}
	return s
}

// RecoverAndLogError must be used inside a defer.
// It logs a recovered panic along with its stack.
func RecoverAndLogError(ctx context.Context) {
	if err := recover(); err != nil {
		const size = 64 << 10
		buf := make([]byte, size)
		buf = buf[:runtime.Stack(buf, false)]
		Write(ctx,
			KeyMessage, "panic",
			KeyError, err,
			KeyStack, buf,
		)
	}
}
