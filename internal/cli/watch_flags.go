package cli

import (
	"time"

	"github.com/vburojevic/slotw/internal/config"
)

// WatchFlags are shared by the watch and ui commands. Zero values fall back
// to the loaded config.
type WatchFlags struct {
	File            string        `arg:"" optional:"" help:"Chat log to tail (default: watch.file_path)"`
	Slot            string        `short:"s" help:"Slot name used in archive file names (default: session.slot_name)"`
	Prefix          *string       `help:"Marker that precedes the chat body in each line (default: watch.chat_prefix)"`
	Encoding        string        `short:"e" help:"Text encoding of the chat log, e.g. utf-8 or shift_jis"`
	Interval        time.Duration `short:"i" help:"Poll interval (default: watch.poll_interval)"`
	LogDir          string        `help:"Directory for summaries and session logs (default: session.log_dir)"`
	NoSave          bool          `help:"Do not write a session log or summary"`
	MetricsTextfile string        `help:"Write Prometheus metrics to this file when the session stops"`
}

// watchSettings is the merged view of flags and config
type watchSettings struct {
	Path            string
	Slot            string
	Prefix          string
	Encoding        string
	Interval        time.Duration
	LogDir          string
	SaveLogs        bool
	MaxLogMB        int
	MetricsTextfile string
}

func resolveWatchSettings(cfg *config.Config, f WatchFlags) watchSettings {
	if cfg == nil {
		cfg = config.Default()
	}
	s := watchSettings{
		Path:            cfg.Watch.FilePath,
		Slot:            cfg.Session.SlotName,
		Prefix:          cfg.Watch.ChatPrefix,
		Encoding:        cfg.Watch.Encoding,
		Interval:        cfg.Watch.PollInterval,
		LogDir:          cfg.Session.LogDir,
		SaveLogs:        cfg.Session.SaveLogs,
		MaxLogMB:        cfg.Session.MaxLogMB,
		MetricsTextfile: cfg.Metrics.Textfile,
	}
	if f.File != "" {
		s.Path = f.File
	}
	if f.Slot != "" {
		s.Slot = f.Slot
	}
	// An explicit empty prefix is allowed.
	if f.Prefix != nil {
		s.Prefix = *f.Prefix
	}
	if f.Encoding != "" {
		s.Encoding = f.Encoding
	}
	if f.Interval != 0 {
		s.Interval = f.Interval
	}
	if f.LogDir != "" {
		s.LogDir = f.LogDir
	}
	if f.NoSave {
		s.SaveLogs = false
	}
	if f.MetricsTextfile != "" {
		s.MetricsTextfile = f.MetricsTextfile
	}
	return s
}
