// Package dotdir resolves the .llmstream/ directory that holds config.toml,
// credentials.toml and captured streams.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the llmstream directory.
const DirName = ".llmstream"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .llmstream/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.llmstream/ dir
//  3. Home ~/.llmstream/ dir
//  4. If none found, attempt to create ~/.llmstream/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, DirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, DirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating llmstream directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// localDirExists checks whether a .llmstream/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, DirName))
	return err == nil && info.IsDir()
}

// InitLocal creates a .llmstream/ directory under dir. It reports whether the
// directory already existed.
func (m *Manager) InitLocal(dir string) (string, bool, error) {
	target := filepath.Join(dir, DirName)

	info, err := os.Stat(target)
	if err == nil && info.IsDir() {
		return target, true, nil
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", false, fmt.Errorf("creating %s directory: %w", DirName, err)
	}

	return target, false, nil
}
