package dispatch

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/1broseidon/wintk/internal/platform"
)

var (
	// ErrUnknownHandle means no widget is registered for a message's
	// handle, typically a native child control the toolkit does not wrap.
	ErrUnknownHandle = errors.New("dispatch: no widget registered for handle")

	// ErrReflectionFailed means the child that generated a notification
	// could not be resolved from its parent.
	ErrReflectionFailed = errors.New("dispatch: reflected child not found")
)

// HandlerError is a panic recovered while a widget handled a message.
type HandlerError struct {
	Handle  platform.Handle
	Message platform.MessageID
	Value   any
	Stack   string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("dispatch: handler for %s on window %d panicked: %v", e.Message, e.Handle, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *HandlerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// captureStack formats the stack of the panicking goroutine, skipping the
// runtime and recovery frames.
func captureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(4, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
