package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tinylangs/bfjit/internal/engine"
	"github.com/tinylangs/bfjit/internal/version"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut, stdErr io.Writer) int {
	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "Prints usage.")
	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		return 0
	}

	subCmd := flag.Arg(0)
	switch subCmd {
	case "run":
		return doRun(flag.Args()[1:], stdOut, stdErr)
	case "version":
		fmt.Fprintln(stdOut, version.Get())
		return 0
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		return 1
	}
}

func doRun(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("run", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "Prints usage.")

	var backend string
	flags.StringVar(&backend, "backend", string(engine.LIR),
		"Execution backend: reference, hir, lir, or jit.")

	var doTrace bool
	flags.BoolVar(&doTrace, "trace", false,
		"Report non-nested loop hit counts after execution (lir backend only).")

	_ = flags.Parse(args)

	if help {
		printRunUsage(stdErr, flags)
		return 0
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "missing path to source file")
		printRunUsage(stdErr, flags)
		return 1
	}

	src, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}

	cfg := engine.NewConfig().WithBackend(engine.Backend(backend))
	if doTrace {
		cfg = cfg.WithTrace()
	}

	if err := cfg.Run(src, os.Stdin, stdOut); err != nil {
		fmt.Fprintln(stdErr, err)
		return 1
	}
	cfg.Report(stdOut)
	return 0
}

func printUsage(stdErr io.Writer) {
	fmt.Fprint(stdErr, `bfjit is a tape-machine execution engine.

Usage:
	bfjit <command> [arguments]

Commands:
	run	Runs a source file
	version	Prints the version

Use "bfjit <command> -h" for details about a command.
`)
}

func printRunUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprint(stdErr, "usage: bfjit run [flags] <file>\n\n")
	flags.PrintDefaults()
}
