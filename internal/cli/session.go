package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vburojevic/slotw/internal/output"
	"github.com/vburojevic/slotw/internal/session"
	"github.com/vburojevic/slotw/internal/tailer"
)

// startSession validates settings and builds a tracker. Failures have
// already been reported to the user.
func startSession(globals *Globals, id string, s watchSettings, display tailer.Sink, onWarning func(string)) (*session.Tracker, error) {
	if s.Path == "" {
		return nil, outputErrorCommon(globals, codeFileNotFound, "no chat log path given", hintForLogFile(s.Path, os.ErrNotExist))
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, outputErrorCommon(globals, codeFileNotFound, fmt.Sprintf("chat log not found: %s", s.Path), hintForLogFile(s.Path, err))
	}
	if info.IsDir() {
		return nil, outputErrorCommon(globals, codeFileNotFound, fmt.Sprintf("chat log is a directory: %s", s.Path))
	}
	if s.Interval <= 0 {
		return nil, outputErrorCommon(globals, codeInvalidFlags, fmt.Sprintf("poll interval must be positive, got %s", s.Interval))
	}
	if s.Encoding != "" {
		if _, ok := tailer.ResolveEncoding(s.Encoding); !ok {
			return nil, outputErrorCommon(globals, codeInvalidFlags, fmt.Sprintf("unknown encoding %q", s.Encoding), "Use an IANA name such as utf-8, shift_jis or euc-jp")
		}
	}

	tr, err := session.NewTracker(session.Options{
		ID:              id,
		Path:            s.Path,
		Encoding:        s.Encoding,
		ChatPrefix:      s.Prefix,
		Interval:        s.Interval,
		Slot:            s.Slot,
		LogDir:          s.LogDir,
		SaveLogs:        s.SaveLogs,
		MaxLogMB:        s.MaxLogMB,
		MetricsTextfile: s.MetricsTextfile,
		Display:         display,
		OnWarning:       onWarning,
		Clock:           globals.Clock,
		Logger:          globals.Logger,
	})
	switch {
	case errors.Is(err, session.ErrNoSlotName):
		return nil, outputErrorCommon(globals, codeNoSlotName, err.Error(), "Pass --slot or use --no-save")
	case err != nil:
		return nil, outputErrorCommon(globals, codeSessionFailed, err.Error(), hintForLogDir(s.LogDir, err))
	}
	globals.Debug("session %s: tailing %s every %s", tr.ID(), s.Path, s.Interval)
	return tr, nil
}

// finishSession reports the end of a session in the selected format
func finishSession(globals *Globals, emitter *output.Emitter, res *session.Result, runErr error) error {
	if res != nil {
		if emitter.IsNDJSON() {
			_ = emitter.WriteNDJSON(func(w *output.NDJSONWriter) error {
				return w.WriteSessionEnd(&output.SessionEndOutput{
					SessionID:       res.ID,
					Slot:            res.Slot,
					Events:          res.Events,
					DurationSeconds: res.Duration.Round(time.Millisecond).Seconds(),
					SummaryPath:     res.SummaryPath,
					LogPath:         res.LogPath,
					LogDisabled:     res.LogDisabled,
					Stats:           output.NewStatsOutput(res.ID, res.Snapshot),
				})
			})
		} else {
			fmt.Fprintln(globals.Stdout)
			if err := emitter.Stats("Session "+res.Slot, res.Snapshot); err != nil {
				return err
			}
			if res.SummaryPath != "" {
				emitInfo(globals, "Summary saved to "+res.SummaryPath)
			}
			if res.LogDisabled {
				emitWarning(globals, nil, "session log is incomplete: recording stopped after a write failure")
			}
		}
	}
	if runErr != nil {
		if res == nil {
			return outputErrorCommon(globals, codeSessionFailed, runErr.Error())
		}
		return outputErrorCommon(globals, codeSummaryWrite, runErr.Error(), "Check that the log directory is writable")
	}
	if err := emitter.Err(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
