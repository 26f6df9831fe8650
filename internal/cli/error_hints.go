package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

func hintForLogFile(path string, err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, fs.ErrPermission) {
		return "The chat log is not readable by this user; check its permissions"
	}
	if strings.TrimSpace(path) == "" {
		return "Pass the chat log path as an argument or set watch.file_path in the config (try `slotw config path`)"
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "Start the game client once so it creates the log, or check watch.file_path"
	}
	return ""
}

func hintForLogDir(dir string, err error) string {
	if err == nil {
		return ""
	}
	var pe *os.PathError
	if errors.As(err, &pe) && errors.Is(pe.Err, fs.ErrPermission) {
		return "Choose a writable --log-dir or set session.log_dir"
	}
	if dir == "" {
		return "Set session.log_dir in the config"
	}
	return "Check that " + dir + " is a writable directory"
}
