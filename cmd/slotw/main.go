package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/slotw/internal/cli"
	"github.com/vburojevic/slotw/internal/config"
	"github.com/vburojevic/slotw/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Config defaults are overridden by CLI flags if specified
	ctx := kong.Parse(&c,
		kong.Name("slotw"),
		kong.Description("Slot watcher: tail a game chat log and tally slot spins, payouts and prize roles\n\nSTART HERE: slotw watch <path/to/latest.log> --slot <name>"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"config_format": cfg.Format,
		},
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	for _, p := range ctx.Path {
		if p.Flag != nil {
			globals.FlagsSet[p.Flag.Name] = true
		}
	}

	logger, closer, err := logging.New(logging.Options{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		Verbose:    globals.Verbose,
	}, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to set up logging: %v\n", err)
	} else {
		globals.Logger = logger
		defer closer.Close()
		defer logger.Sync() //nolint:errcheck
	}

	if err := ctx.Run(globals); err != nil {
		// Commands report their own failures; anything else is printed here.
		var cliErr *cli.CLIError
		if !errors.As(err, &cliErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
