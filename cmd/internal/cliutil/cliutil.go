// Package cliutil provides shared CLI utilities for the svmodel command.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// GlobalFlags holds the flags accepted before or after any subcommand.
type GlobalFlags struct {
	Verbose  int
	Config   string
	Ext      string
	NoColor  bool
	HelpFlag bool
}

// ParseArgs parses global flags and extracts the subcommand from args.
// Flags handled: -v/--verbose, -vv, -c/--config, --ext, --no-color,
// -h/--help. Unrecognized flags and their values are passed through to
// the subcommand.
func ParseArgs(args []string) (flags GlobalFlags, cmd string, cmdArgs []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			flags.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			flags.Verbose = max(flags.Verbose, 1)
		case arg == "-vv":
			flags.Verbose = 2
		case arg == "--no-color":
			flags.NoColor = true
		case arg == "-c" || arg == "--config":
			if i+1 < len(args) {
				i++
				flags.Config = args[i]
			}
		case strings.HasPrefix(arg, "--config="):
			flags.Config = arg[len("--config="):]
		case arg == "--ext":
			if i+1 < len(args) {
				i++
				flags.Ext = args[i]
			}
		case strings.HasPrefix(arg, "--ext="):
			flags.Ext = arg[len("--ext="):]
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// GetOutput opens the output file or returns w.
func GetOutput(outputFile string, w io.Writer) (io.Writer, func() error, error) {
	if outputFile == "" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, "error: "+format+"\n", args...)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether output to w should be styled. NO_COLOR
// and --no-color both disable it.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(w)
}
