package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gat-vcs/gat/pkg/object"
)

// ErrRepositoryNotFound reports that no metadata directory was found while
// one was required.
var ErrRepositoryNotFound = errors.New("not a gat repository (or any parent directory)")

// ErrNotDirectory reports an init target that exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ErrNotEmpty reports an init target whose metadata directory already
// exists and contains entries.
var ErrNotEmpty = errors.New("metadata directory is not empty")

const defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"

// Init creates a new gat repository at path, building the metadata layout:
// objects/, refs/heads/, refs/tags/, branches/, HEAD, description and the
// default config. The worktree directory is created if absent; an existing
// non-empty metadata directory is refused.
func Init(path string) (*Repo, error) {
	gatDir := filepath.Join(path, MetaDirName)

	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("init %s: %w", path, ErrNotDirectory)
		}
		if _, err := os.Stat(gatDir); err == nil {
			empty, err := isDirEmpty(gatDir)
			if err != nil {
				return nil, fmt.Errorf("init: %w", err)
			}
			if !empty {
				return nil, fmt.Errorf("init %s: %w", gatDir, ErrNotEmpty)
			}
		}
	} else if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir worktree: %w", err)
	}

	dirs := []string{
		filepath.Join(gatDir, "objects"),
		filepath.Join(gatDir, "refs", "heads"),
		filepath.Join(gatDir, "refs", "tags"),
		filepath.Join(gatDir, "branches"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	if err := os.WriteFile(filepath.Join(gatDir, "description"), []byte(defaultDescription), 0o644); err != nil {
		return nil, fmt.Errorf("init: write description: %w", err)
	}
	if err := os.WriteFile(filepath.Join(gatDir, "HEAD"), []byte("ref: refs/heads/master\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	cfg := defaultConfig()
	if err := writeConfig(gatDir, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	return &Repo{
		RootDir: path,
		GatDir:  gatDir,
		Config:  cfg,
		Store:   object.NewStore(gatDir),
	}, nil
}

// Open searches upward from path for a metadata directory and opens the
// repository, validating its configuration. Returns ErrRepositoryNotFound
// if no parent contains one.
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		gatDir := filepath.Join(cur, MetaDirName)
		info, err := os.Stat(gatDir)
		if err == nil && info.IsDir() {
			cfg, err := readConfig(gatDir)
			if err != nil {
				return nil, fmt.Errorf("open %s: %w", gatDir, err)
			}
			return &Repo{
				RootDir: cur,
				GatDir:  gatDir,
				Config:  cfg,
				Store:   object.NewStore(gatDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, ErrRepositoryNotFound
		}
		cur = parent
	}
}

func isDirEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
