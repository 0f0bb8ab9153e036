package core

import (
	"fmt"
	"os"
	"runtime/debug"
)

// cleanupHook runs before the crash report is printed, typically to restore
// the terminal. Set once at startup, before any Go call.
var cleanupHook func()

// SetCrashCleanup registers a function invoked on panic before the stack
// trace is printed.
func SetCrashCleanup(fn func()) {
	cleanupHook = fn
}

// HandleCrash is the unified panic handler. It runs the cleanup hook and
// prints the stack trace to stderr.
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if cleanupHook != nil {
		cleanupHook()
	}

	os.Stdout.Sync()
	os.Stderr.Sync()

	fmt.Fprintf(os.Stderr, "\r\nCRASH DETECTED: %v\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())

	os.Stderr.Sync()
	os.Exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crashing background task
// (e.g. the narration sink) still cleans up the host terminal.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
