package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	room "go.roomlang.dev/pkg"
)

const defaultConfigFile = "room.yaml"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("room", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to a YAML config file (default "+defaultConfigFile+" if present)")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	maxDepth := fs.Int("max-call-depth", room.DefaultMaxCallDepth, "maximum nested function calls, 0 for unlimited")
	allowUnterminated := fs.Bool("allow-unterminated", false, "truncate unterminated string literals instead of failing")
	dumpVars := fs.Bool("dump-vars", false, "print the final variables after the program ends")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "max-call-depth":
			cfg.MaxCallDepth = *maxDepth
		case "allow-unterminated":
			cfg.AllowUnterminatedStrings = *allowUnterminated
		case "dump-vars":
			cfg.DumpVars = *dumpVars
		}
	})
	if fs.NArg() > 0 {
		cfg.Source = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	lvl, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	interp := room.NewInterpreter(cfg.Options(stdout, logger))
	res, err := interp.RunFile(cfg.Source)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", errors.Wrapf(err, "run %s", cfg.Source))
		return 1
	}

	if res.Returned {
		fmt.Fprintln(stdout, "Program exited with return value:", room.Text(res.Value))
	}

	if cfg.DumpVars {
		printVariables(stdout, interp.Variables())
	}

	return 0
}

// loadConfig reads path, or the default config file when path is empty and the
// file exists.
func loadConfig(path string) (*room.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return room.DefaultConfig(), nil
		}
		path = defaultConfigFile
	}

	return room.LoadConfig(path)
}

func printVariables(w io.Writer, vars []room.Binding) {
	fmt.Fprintln(w, "\n=== VARIABLES ===")
	for _, b := range vars {
		fmt.Fprintf(w, "%s = %s\n", b.Name, room.Text(b.Value))
	}
}
