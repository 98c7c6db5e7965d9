package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/massung/chip8vm/chip8"
)

/// Options are the command line settings.
///
type Options struct {
	/// Input is the path of the program to run.
	///
	Input string

	/// Speed is the instruction rate in Hz.
	///
	Speed int

	/// Scale is the size of a CHIP-8 pixel in the SDL window.
	///
	Scale int

	/// Terminal runs in the terminal instead of an SDL window.
	///
	Terminal bool

	/// Open picks the program with a file dialog when no Input is given.
	///
	Open bool

	Debug bool
	Quiet bool
}

/// UsageError is returned when the command line is incomplete or
/// invalid and usage should be shown.
///
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

/// ExitCode is 0 when usage was requested or the program is missing,
/// otherwise 2.
///
func (e *UsageError) ExitCode() int {
	if e.msg == "" {
		return 0
	}
	return 2
}

/// ShowUsage prints the banner, the problem (if any) and the options.
///
func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = color.New(color.Bold).Fprintln(w, "chip8vm - CHIP-8 interpreter")
	if e.msg != "" {
		_, _ = color.New(color.FgRed).Fprintln(w, e.msg)
	}

	fmt.Fprintf(w, "\nusage: chip8vm [options] <program>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

/// ParseFlags parses the command line arguments (without the program name).
///
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	flags.IntVar(&opts.Speed, "hz", chip8.DefaultSpeed, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", 10, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.Terminal, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&opts.Open, "open", false, "choose the program with a file dialog if none is given")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, &UsageError{flags: flags}
		}
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	switch rest := flags.Args(); {
	case len(rest) > 1:
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("unexpected arguments after %s", rest[0])}
	case len(rest) == 1:
		opts.Input = rest[0]
	case !opts.Open:
		return opts, &UsageError{flags: flags}
	}

	if opts.Scale < 1 {
		return opts, &UsageError{flags: flags, msg: fmt.Sprintf("invalid scale %d", opts.Scale)}
	}
	if opts.Speed < chip8.MinSpeed || opts.Speed > chip8.MaxSpeed {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("speed must be between %d and %d", chip8.MinSpeed, chip8.MaxSpeed),
		}
	}

	return opts, nil
}
