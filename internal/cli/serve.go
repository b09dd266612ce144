package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"

	"rlsummary/internal/reportserver"
)

// serveReport is a test seam for running the report server.
var serveReport = reportserver.Serve

// runServe builds the handler for the serve command.
func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		var inputs inputFlags
		inputs.register(fs)
		addr := fs.String("addr", reportserver.DefaultAddr, "Address to listen on")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if *addr == "" {
			fmt.Fprintln(stderr, "Missing --addr")
			return ExitUsage
		}

		cfg, err := inputs.resolveConfig(fs)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config:\n%v\n", err)
			return ExitError
		}
		if info, err := os.Stat(cfg.ResultsDir); err != nil || !info.IsDir() {
			fmt.Fprintf(stderr, "Results directory not found: %s\n", cfg.ResultsDir)
			return ExitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		serverCfg := reportserver.Config{
			Addr: *addr,
			Dir:  cfg.ResultsDir,
			OnListen: func(bound net.Addr) {
				fmt.Fprintf(stdout, "Serving %s at http://%s\n", cfg.ResultsDir, bound)
			},
		}
		if err := serveReport(ctx, serverCfg); err != nil {
			fmt.Fprintf(stderr, "Server error: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
