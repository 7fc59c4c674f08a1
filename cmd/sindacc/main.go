// Command sindacc drives the code generator over a single JSON-described
// compilation unit: sindacc generate unit.json -o out.c. Flag handling and
// the config-then-compile-then-exit-code shape follow funxy's CLI driver,
// generalized from "evaluate a script" to "lower a unit to C".
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sindarinsdk/sindacc/internal/config"
	"github.com/sindarinsdk/sindacc/pkg/sindacc"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "generate":
		return runGenerate(args[1:])
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "sindacc: unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sindacc generate <unit.json> -o <out.c> [-config sindacc.yaml]")
}

func runGenerate(args []string) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	out := fs.String("o", "", "output C file (default: stdout)")
	configPath := fs.String("config", "sindacc.yaml", "path to sindacc.yaml")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		usage()
		return 2
	}
	unitPath := fs.Arg(0)

	cfg := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sindacc: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if *out == "" {
		*out = cfg.OutputPath
	}

	data, err := os.ReadFile(unitPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sindacc: %v\n", err)
		return 1
	}

	unit, err := sindacc.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sindacc: %v\n", err)
		return 1
	}

	result, err := sindacc.Compile(cfg, os.Stderr, unit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sindacc: %v\n", err)
		return 1
	}

	dest := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sindacc: %v\n", err)
			return 1
		}
		defer f.Close()
		dest = f
	}
	if _, err := dest.WriteString(result.Output); err != nil {
		fmt.Fprintf(os.Stderr, "sindacc: %v\n", err)
		return 1
	}

	if result.Diag.ErrorCount() > 0 {
		return 1
	}
	return 0
}
