/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stdout)
			os.Exit(usageErr.ExitCode())
		}
		os.Exit(1)
	}

	os.Exit(run(app.Context(), opts))
}

/// Load the program and run it until the user quits. Returns the exit
/// code.
///
func run(ctx context.Context, opts Options) int {
	var logView *LogView

	restore := func() {}

	// the terminal shows captured output in its log box
	if opts.Terminal {
		if err := CheckTerminal(); err != nil {
			color.Red("%v", err)
			return 1
		}

		logView = NewLogView()

		var err error
		if restore, err = CaptureOutput(logView); err != nil {
			color.Red("%v", err)
			return 1
		}
	}

	logger := CreateLogger(opts.Debug, opts.Quiet)

	session, frontend, err := open(opts, logger, logView)
	if err != nil {
		return abort(restore, color.Output, err)
	}

	err = session.Runner.Run(ctx)

	frontend.Close()
	restore()

	if err != nil {
		color.Red("CHIP-8 halted: %v", err)
		return 1
	}
	return 0
}

/// Pick and load the program, then open the frontend it runs in.
///
func open(opts Options, logger *log.Logger, logView *LogView) (*Session, Frontend, error) {
	if opts.Input == "" {
		file, err := dialog.File().Filter("CHIP-8 programs", "ch8", "c8").Title("Open CHIP-8 program").Load()
		if err != nil {
			return nil, nil, fmt.Errorf("choosing a program: %w", err)
		}
		opts.Input = file
	}

	vm, err := chip8.LoadFile(opts.Input, chip8.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	session := NewSession(logger)

	frontend, err := newFrontend(session, logView, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("opening display: %w", err)
	}

	session.Attach(vm, frontend, opts.Speed)

	return session, frontend, nil
}

func newFrontend(session *Session, logView *LogView, opts Options) (Frontend, error) {
	if opts.Terminal {
		return NewTermHost(session, logView)
	}
	return NewSDLHost(session, opts.Scale)
}

// abort puts captured output back before reporting err on w, captured
// logs are never shown once startup fails.
func abort(restore func(), w io.Writer, err error) int {
	restore()

	if errors.Is(err, dialog.ErrCancelled) {
		return 0
	}

	_, _ = color.New(color.FgRed).Fprintf(w, "chip8vm: %v\n", err)
	return 1
}
