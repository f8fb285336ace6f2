// Package reveal opens a matched file's location in the platform file
// manager so the user can act on the physical document scan.
package reveal

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

// runner launches a command without waiting for it. Injected in tests.
var runner = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// InFileManager reveals path in the platform file manager, selecting the
// file where the platform supports it and falling back to opening the
// containing directory elsewhere.
func InFileManager(path string) error {
	if _, err := os.Stat(path); err != nil {
		return seekerr.New(seekerr.ErrCodeInvalidInput, "file does not exist", err).
			WithDetail("path", path)
	}

	switch runtime.GOOS {
	case "windows":
		if err := runner("explorer", "/select,", path); err != nil {
			return seekerr.New(seekerr.ErrCodeInternal, "failed to open file location", err)
		}
		return nil
	case "darwin":
		if err := runner("open", "-R", path); err != nil {
			return seekerr.New(seekerr.ErrCodeInternal, "failed to open file location", err)
		}
		return nil
	default:
		return openDirectory(filepath.Dir(path))
	}
}

// Directory opens a directory in the platform file manager without
// selecting any file.
func Directory(dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return seekerr.New(seekerr.ErrCodeInvalidInput, "not a directory", err).
			WithDetail("path", dir)
	}

	switch runtime.GOOS {
	case "windows":
		if err := runner("explorer", dir); err != nil {
			return seekerr.New(seekerr.ErrCodeInternal, "failed to open directory", err)
		}
		return nil
	case "darwin":
		if err := runner("open", dir); err != nil {
			return seekerr.New(seekerr.ErrCodeInternal, "failed to open directory", err)
		}
		return nil
	default:
		return openDirectory(dir)
	}
}

// linuxFileManagers is tried in order; xdg-open delegates to the desktop
// default and the rest cover the common environments directly.
var linuxFileManagers = []string{"xdg-open", "nautilus", "dolphin", "thunar", "nemo"}

func openDirectory(dir string) error {
	for _, fm := range linuxFileManagers {
		if err := runner(fm, dir); err == nil {
			return nil
		}
	}
	return seekerr.New(seekerr.ErrCodeInternal, "no suitable file manager found", nil).
		WithDetail("path", dir)
}
