package main

import (
	"os"
)

// CaptureOutput redirects stdout and stderr into the log view so that
// nothing is printed over the terminal screen. The returned function
// puts the original files back.
func CaptureOutput(l *LogView) (func(), error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	stdout, stderr := os.Stdout, os.Stderr

	// redirect both to the pipe
	os.Stdout = w
	os.Stderr = w

	l.Follow(r)

	restore := func() {
		os.Stdout = stdout
		os.Stderr = stderr

		_ = w.Close()
	}

	return restore, nil
}
