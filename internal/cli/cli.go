// Package cli implements the rlsummary command line.
package cli

import (
	"fmt"
	"io"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// defaultCommand runs when no command is given.
const defaultCommand = "analyze"

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

// Run dispatches args to a command and returns the process exit code. With
// no command, or when the first argument is a flag, analyze runs.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return findCommand(defaultCommand).Run(nil, stdout, stderr)
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}
	if isFlag(args[0]) {
		return findCommand(defaultCommand).Run(args, stdout, stderr)
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rlsummary [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintf(w, "\nWithout a command, %s runs with default options.\n", defaultCommand)
	fmt.Fprintln(w, "Use \"rlsummary <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("analyze", "Summarize run CSVs and plot learning curves", []string{
		"rlsummary analyze [--results <dir>] [--pattern <glob>] [--config <path>]",
		"                  [--db <path>] [--html] [--verbose] [--color auto|always|never]",
	}, runAnalyze),
	command("validate", "Check that run CSVs parse", []string{
		"rlsummary validate [--results <dir>] [--pattern <glob>] [--config <path>]",
	}, runValidate),
	command("serve", "Serve the results directory over HTTP", []string{
		"rlsummary serve [--results <dir>] [--addr <host:port>] [--config <path>]",
	}, runServe),
}
