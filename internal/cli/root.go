package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/slotw/internal/config"
	"github.com/vburojevic/slotw/internal/output"
)

// CLI is the root command structure for slotw
type CLI struct {
	// Global flags
	Format  string     `short:"f" default:"${config_format}" enum:"ndjson,text" help:"Output format"`
	Quiet   bool       `short:"q" help:"Suppress banners and warnings (only emit events and stats)"`
	Verbose bool       `short:"v" help:"Show debug output (tailer reopen attempts, file paths)"`
	Version VersionCmd `cmd:"" help:"Show version information"`

	// Commands
	Watch      WatchCmd      `cmd:"" default:"withargs" help:"Tail the chat log and tally slot results"`
	UI         UICmd         `cmd:"" help:"Interactive live view of a watch session"`
	History    HistoryCmd    `cmd:"" help:"Combine archived session summaries of a slot"`
	Summary    SummaryCmd    `cmd:"" help:"Show one archived session summary"`
	Sessions   SessionsCmd   `cmd:"" help:"List archived session summaries"`
	Config     ConfigCmd     `cmd:"" help:"Show or manage configuration"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format   string
	Quiet    bool
	Verbose  bool
	Stdout   io.Writer
	Stderr   io.Writer
	Config   *config.Config
	Logger   *zap.Logger
	Clock    clock.Clock
	FlagsSet map[string]bool
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:   cli.Format,
		Quiet:    cli.Quiet,
		Verbose:  cli.Verbose,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Config:   cfg,
		Logger:   zap.NewNop(),
		Clock:    clock.New(),
		FlagsSet: map[string]bool{},
	}

	// Apply config values if CLI flags weren't explicitly set
	if !cli.Quiet && cfg.Quiet {
		g.Quiet = cfg.Quiet
	}
	if !cli.Verbose && cfg.Verbose {
		g.Verbose = cfg.Verbose
	}

	return g
}

// FlagProvided reports whether a flag was given on the command line
func (g *Globals) FlagProvided(name string) bool {
	return g != nil && g.FlagsSet[name]
}

// Debug logs a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose && g.Logger != nil {
		g.Logger.Debug(fmt.Sprintf(format, args...))
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteMetadata(Version, Commit)
	}
	_, err := io.WriteString(globals.Stdout, "slotw version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
