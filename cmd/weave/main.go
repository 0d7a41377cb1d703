// Package main provides the Weave CLI.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	weave "github.com/everydev1618/goweave"
	"github.com/everydev1618/goweave/codegen"
	"github.com/everydev1618/goweave/semantic"
)

var (
	version = "dev"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "check":
		checkCmd(args)
	case "build":
		buildCmd(args)
	case "ast":
		astCmd(args)
	case "version":
		fmt.Printf("weave %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Weave - workflow DSL compiler

Usage:
  weave <command> [options]

Commands:
  check     Validate a .workflow file and report diagnostics
  build     Compile a .workflow file into deployment artifacts
  ast       Dump the parsed program
  version   Print version information
  help      Show this help message

Examples:
  weave check pipeline.workflow
  weave check pipeline.workflow --format json
  weave build pipeline.workflow -o build/
  weave ast pipeline.workflow --format yaml

Run 'weave <command> --help' for more information on a command.`)
}

// checkResult is the machine-readable shape of a check run.
type checkResult struct {
	File   string                `yaml:"file" json:"file"`
	Valid  bool                  `yaml:"valid" json:"valid"`
	Error  string                `yaml:"error,omitempty" json:"error,omitempty"`
	Errors []semantic.Diagnostic `yaml:"errors,omitempty" json:"errors,omitempty"`
}

// checkCmd validates a .workflow file.
func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	format := fs.String("format", "human", "Output format: human, json, or yaml")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Println(`Usage: weave check <file.workflow> [options]

Validate the syntax and semantics of a .workflow file. Lexical and
syntax errors stop at the first problem; semantic diagnostics are
reported as a complete batch.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: no .workflow file specified")
		fs.Usage()
		os.Exit(1)
	}
	setupLogging(*verbose)

	file := fs.Arg(0)
	prog, err := weave.CompileFile(file)

	result := checkResult{File: file, Valid: err == nil}
	if err != nil {
		var list *semantic.ErrorList
		if errors.As(err, &list) {
			result.Errors = list.Diagnostics
		} else {
			result.Error = err.Error()
		}
	}

	switch *format {
	case "human":
		if result.Valid {
			fmt.Printf("OK: %d workflow(s), %d subworkflow(s), %d integration(s)\n",
				len(prog.Workflows), len(prog.Subworkflows), len(prog.Integrations))
			return
		}
		if result.Error != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", file, result.Error)
		}
		for _, d := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", file, d.Error())
		}
		os.Exit(1)
	case "json":
		printJSON(result)
	case "yaml":
		printYAML(result)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}
	if !result.Valid {
		os.Exit(1)
	}
}

// buildCmd compiles a file and writes deployment artifacts.
func buildCmd(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("o", "build", "Output directory")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Println(`Usage: weave build <file.workflow> [options]

Compile a .workflow file and write the deployment manifest and one
config file per agent into the output directory.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: no .workflow file specified")
		fs.Usage()
		os.Exit(1)
	}
	setupLogging(*verbose)

	file := fs.Arg(0)
	prog, err := weave.CompileFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error compiling %s: %v\n", file, err)
		os.Exit(1)
	}

	gen := codegen.New()
	if err := gen.WriteDir(prog, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing build: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Build %s written to %s\n", gen.BuildID(), *out)
}

// astCmd dumps the parsed program.
func astCmd(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	format := fs.String("format", "yaml", "Output format: yaml or json")

	fs.Usage = func() {
		fmt.Println(`Usage: weave ast <file.workflow> [options]

Parse and validate a .workflow file, then dump the program tree.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: no .workflow file specified")
		fs.Usage()
		os.Exit(1)
	}

	prog, err := weave.CompileFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "yaml":
		printYAML(prog)
	case "json":
		printJSON(prog)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printYAML(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}
