package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mgomes/vibetables/vibes"
	"golang.org/x/term"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "eval":
		return evalCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

type engineFlags struct {
	configPath *string
	logLevel   *string
}

func registerEngineFlags(fs *flag.FlagSet) engineFlags {
	return engineFlags{
		configPath: fs.String("config", "", "path to a TOML engine config"),
		logLevel:   fs.String("log-level", "", "log level (debug, info, warn, error); empty disables logging"),
	}
}

func (f engineFlags) engine() (*vibes.Engine, error) {
	var cfg vibes.Config
	if *f.configPath != "" {
		loaded, err := vibes.LoadConfig(*f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *f.logLevel != "" {
		cfg.LogLevel = *f.logLevel
	}
	return newHostEngine(cfg)
}

func evalCommand(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	flags := registerEngineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("vibes eval: expression required")
	}
	engine, err := flags.engine()
	if err != nil {
		return err
	}
	ev := newEvaluator(engine)
	for _, input := range remaining {
		values, err := ev.Eval(context.Background(), input)
		if err != nil {
			return fmt.Errorf("eval failed: %w", err)
		}
		if len(values) > 0 {
			fmt.Println(formatValues(values))
		}
	}
	return nil
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	flags := registerEngineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("vibes repl: stdin is not a terminal")
	}
	engine, err := flags.engine()
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newREPLModel(engine), tea.WithAltScreen()).Run()
	return err
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s eval [flags] <expr> [expr...]\n", prog)
	fmt.Fprintf(os.Stderr, "       %s repl [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config string")
	fmt.Fprintln(os.Stderr, "    path to a TOML engine config (max_stack, max_string_bytes, log_level)")
	fmt.Fprintln(os.Stderr, "  -log-level string")
	fmt.Fprintln(os.Stderr, "    log level; overrides the config file")
	fmt.Fprintln(os.Stderr, "Example:")
	fmt.Fprintf(os.Stderr, "  %s eval 'table.concat({10, 20, 30}, \"-\")'\n", prog)
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

func formatValues(values []vibes.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, "\t")
}

func formatValue(v vibes.Value) string {
	if v.Kind() == vibes.KindString {
		return fmt.Sprintf("%q", v.String())
	}
	return v.String()
}
