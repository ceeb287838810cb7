// Package thread pins windowing calls to the main OS thread.
// See: https://github.com/golang/go/wiki/LockOSThread
package thread

import (
	"runtime"

	"github.com/faiface/mainthread"
)

var isMacOs = runtime.GOOS == "darwin"

func init() {
	runtime.LockOSThread()
}

// Run executes the program body. On macOS the body runs on a separate
// goroutine while the main thread serves Call requests; elsewhere it runs
// directly on the (locked) calling thread.
func Run(run func()) {
	if isMacOs {
		mainthread.Run(run)
	} else {
		run()
	}
}

// Call executes f on the main thread and waits for it to finish.
// Outside macOS it is a direct call.
func Call(f func()) {
	if isMacOs {
		mainthread.Call(f)
	} else {
		f()
	}
}

// CallErr is Call for functions that return an error.
func CallErr(f func() error) error {
	var err error
	Call(func() { err = f() })
	return err
}
