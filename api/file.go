package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/netsense/pkg/yaml"
)

const appDir = "netsense"

var (
	// ErrIsDirectory is returned when a file path names a directory.
	ErrIsDirectory = errors.New("path is a directory")
	// ErrNotRegular is returned when a file path names something other than
	// a regular file or directory.
	ErrNotRegular = errors.New("unknown file state")
)

// GetConfigPath returns the path of filename in the netsense config
// directory: $XDG_CONFIG_HOME/netsense, then ~/.config/netsense, then a
// directory under the system temp dir.
func GetConfigPath(filename string) string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, appDir, filename)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", appDir, filename)
	}

	tmpPath := filepath.Join(os.TempDir(), appDir, filename)

	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", tmpPath),
		slog.Any("error", err),
	)

	return tmpPath
}

// fileExists reports whether a regular file exists at path. Other kinds of
// files are errors.
func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat file: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	case !info.Mode().IsRegular():
		return false, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	return true, nil
}

// ReadFile reads the regular file at path. A missing file is reported with
// an error wrapping [fs.ErrNotExist].
func ReadFile(path string) ([]byte, error) {
	ok, err := fileExists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, fs.ErrNotExist)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading user-selected files is the point.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// MarshalYAML serializes an object to YAML bytes.
func MarshalYAML(obj any) ([]byte, error) {
	b, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// WriteIfNotExists writes data to path unless a file already exists there.
func WriteIfNotExists(path string, data []byte) error {
	ok, err := fileExists(path)
	if err != nil || ok {
		return err
	}

	return writeFile(path, data)
}

// WriteDefaultFile writes defaultData to path if no file exists there. With
// force, an existing file is first renamed to "<name>.<timestamp>.old".
// The kind names the file in logs and errors.
func WriteDefaultFile(path string, defaultData []byte, force bool, kind string) error {
	ok, err := fileExists(path)
	if err != nil {
		return err
	}

	if ok && !force {
		slog.Debug("file already exists, skipping write",
			slog.String("type", kind),
			slog.String("path", path),
		)

		return nil
	}

	if ok {
		backupPath := fmt.Sprintf("%s.%s.old", path, time.Now().Format("20060102T150405.000000000"))

		slog.Info("backing up existing file",
			slog.String("type", kind),
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("back up existing %s file: %w", kind, err)
		}
	}

	slog.Info("write default file",
		slog.String("type", kind),
		slog.String("path", path),
	)

	err = writeFile(path, defaultData)
	if err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}

	return nil
}

func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
