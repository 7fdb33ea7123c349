// Command ascm-alias runs a named command template from a JSON alias file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/atomicstack/ascm/internal/alias"
	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/logging"
)

const envAliasFile = "ASCM_ALIASES"

type options struct {
	file   string
	dryRun bool
	list   bool
	name   string
	args   []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Environ(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, environ)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		}
		fmt.Fprintln(stderr, "usage: ascm-alias [-f FILE] [-n] ALIAS [ARGS...] | -l")
		return 2
	}
	file, err := alias.Load(opts.file)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.list {
		for _, name := range file.Names() {
			fmt.Fprintf(stdout, "%s\t%s\n", name, file.Aliases[name])
		}
		return 0
	}
	command, err := file.Command(opts.name, opts.args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.dryRun {
		fmt.Fprintln(stdout, command)
		return 0
	}

	logging.Configure(lookup(environ, "ASCM_LOG_FILE", ""))
	level, err := logging.ParseLevel(lookup(environ, "ASCM_LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 2
	}
	logger := logging.NewLogger(level)
	logger.Info("running alias", "alias", opts.name, "file", file.Path, "command", command)
	shell := launch.NewShell(launch.Options{Quiet: true}, logger)
	shell.Stdout = stdout
	shell.Stderr = stderr
	if err := shell.Launch(ctx, launch.Request{Label: opts.name, Template: file.Aliases[opts.name], Command: command}); err != nil {
		var lerr *launch.LaunchError
		if errors.As(err, &lerr) && lerr.ExitCode > 0 {
			return lerr.ExitCode
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args, environ []string) (options, error) {
	fs := flag.NewFlagSet("ascm-alias", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts options
	fs.StringVar(&opts.file, "f", lookup(environ, envAliasFile, defaultAliasFile(environ)), "alias file")
	fs.BoolVar(&opts.dryRun, "n", false, "print the command instead of running it")
	fs.BoolVar(&opts.list, "l", false, "list aliases")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	rest := fs.Args()
	if opts.file == "" {
		return options{}, errors.New("no alias file (use -f or " + envAliasFile + ")")
	}
	if opts.list {
		return opts, nil
	}
	if len(rest) == 0 {
		return options{}, errors.New("missing alias name")
	}
	opts.name, opts.args = rest[0], rest[1:]
	return opts, nil
}

func lookup(environ []string, key, fallback string) string {
	prefix := key + "="
	for _, kv := range environ {
		if v, ok := strings.CutPrefix(kv, prefix); ok && v != "" {
			return v
		}
	}
	return fallback
}

func defaultAliasFile(environ []string) string {
	if dir := lookup(environ, "XDG_CONFIG_HOME", ""); dir != "" {
		return filepath.Join(dir, "ascm", "aliases.json")
	}
	if home := lookup(environ, "HOME", ""); home != "" {
		return filepath.Join(home, ".config", "ascm", "aliases.json")
	}
	return ""
}
