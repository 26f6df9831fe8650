package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/vburojevic/slotw/internal/domain"
)

// FileTimestampFormat is the timestamp embedded in session file names
// (yyyyMMdd_HHmmss)
const FileTimestampFormat = "20060102_150405"

// InfoFileName is the summary file name for a session started at t
func InfoFileName(slot string, t time.Time) string {
	return fmt.Sprintf("%s_info_%s.log", slot, t.Format(FileTimestampFormat))
}

// LogFileName is the raw session log file name for a session started at t
func LogFileName(slot string, t time.Time) string {
	return fmt.Sprintf("%s_log_%s.log", slot, t.Format(FileTimestampFormat))
}

// ArchivePattern is the glob matching every summary file of a slot
func ArchivePattern(slot string) string {
	return escapeGlob(slot) + "_info_*.log"
}

// WriteFile writes the encoded snapshot to path in one open/write/sync/close
// sequence, creating the parent directory if needed.
func WriteFile(path string, s domain.Snapshot) (err error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return fmt.Errorf("failed to create summary dir: %w", mkErr)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close summary file: %w", cerr)
		}
	}()

	if _, err := f.WriteString(Encode(s)); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to flush summary file: %w", err)
	}
	return nil
}

// ReadFile decodes a single summary file
func ReadFile(path string) (domain.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Archive is a summary file found on disk
type Archive struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// ListArchives returns the summary files of slot in dir, sorted by file
// name. The name embeds the start time, so this is chronological order.
// A missing directory yields no files.
func ListArchives(dir, slot string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(escapeGlob(dir), ArchivePattern(slot)))
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files, nil
}

// DescribeArchives stats each file and parses the start time from its name.
// Files that can no longer be stat'ed are dropped.
func DescribeArchives(files []string) []Archive {
	archives := make([]Archive, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		a := Archive{
			Path: path,
			Name: filepath.Base(path),
			Size: info.Size(),
		}
		if ts, ok := parseArchiveTime(a.Name); ok {
			a.Timestamp = ts
		} else {
			a.Timestamp = info.ModTime()
		}
		archives = append(archives, a)
	}
	return archives
}

// parseArchiveTime extracts the timestamp from "<slot>_info_<ts>.log"
func parseArchiveTime(name string) (time.Time, bool) {
	base := strings.TrimSuffix(name, ".log")
	idx := strings.LastIndex(base, "_info_")
	if idx < 0 {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(FileTimestampFormat, base[idx+len("_info_"):], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// escapeGlob quotes glob metacharacters so names match literally.
// filepath.Match has no escaping on Windows.
func escapeGlob(s string) string {
	if runtime.GOOS == "windows" {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
