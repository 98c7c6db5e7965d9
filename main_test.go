package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/sqweek/dialog"
)

// Not parallel, it redirects the process output.
func TestStartupFailureShownAfterCapture(t *testing.T) {
	stdout, stderr := os.Stdout, os.Stderr

	logView := NewLogView()
	restore, err := CaptureOutput(logView)
	assert.NoError(t, err)
	t.Cleanup(restore)

	logger := CreateLogger(false, false)

	missing := filepath.Join(t.TempDir(), "missing.ch8")
	opts := Options{Input: missing, Speed: chip8.DefaultSpeed, Scale: 1, Terminal: true}

	_, _, err = open(opts, logger, logView)
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.Equal(t, 1, abort(restore, &buf, err))

	assert.True(t, os.Stdout == stdout, "stdout restored")
	assert.True(t, os.Stderr == stderr, "stderr restored")
	assert.Contains(t, buf.String(), missing)
}

func TestAbortDialogCancelled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := fmt.Errorf("choosing a program: %w", dialog.ErrCancelled)

	assert.Equal(t, 0, abort(func() {}, &buf, err))
	assert.Equal(t, "", buf.String())
}
