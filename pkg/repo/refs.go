package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gat-vcs/gat/pkg/object"
)

// Head reads HEAD. If the content starts with "ref: ", it returns the ref
// path (e.g. "refs/heads/master"). Otherwise it returns the raw content as
// a detached hash string.
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.GatDir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimRight(string(data), "\n")

	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), nil
	}
	return content, nil
}

// ResolveRef resolves a ref name to an object hash.
//
// Resolution order:
//  1. If name is "HEAD", read HEAD. If HEAD is symbolic, resolve the target ref.
//  2. If name starts with "refs/", read <gatdir>/<name>.
//  3. Otherwise try "refs/heads/<name>", then "refs/tags/<name>".
func (r *Repo) ResolveRef(name string) (object.Hash, error) {
	if name == "HEAD" {
		head, err := r.Head()
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(head, "refs/") {
			return r.ResolveRef(head)
		}
		h := object.Hash(head)
		if !h.Valid() {
			return "", fmt.Errorf("resolve ref %q: %w %q", name, object.ErrBadHash, head)
		}
		return h, nil
	}

	if strings.HasPrefix(name, "refs/") {
		h, err := readRefHash(filepath.Join(r.GatDir, filepath.FromSlash(name)))
		if err != nil {
			return "", fmt.Errorf("resolve ref %q: %w", name, err)
		}
		if h == "" {
			return "", fmt.Errorf("resolve ref %q: no such ref", name)
		}
		return h, nil
	}

	for _, prefix := range []string{"refs/heads/", "refs/tags/"} {
		h, err := readRefHash(filepath.Join(r.GatDir, filepath.FromSlash(prefix+name)))
		if err != nil {
			return "", fmt.Errorf("resolve ref %q: %w", name, err)
		}
		if h != "" {
			return h, nil
		}
	}
	return "", fmt.Errorf("resolve ref %q: no such ref", name)
}

// UpdateRef writes a hash to the named ref file, creating parent
// directories as needed. The write goes through a lockfile and rename so a
// reader never observes a torn ref.
func (r *Repo) UpdateRef(name string, h object.Hash) error {
	refPath := filepath.Join(r.GatDir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return fmt.Errorf("update ref %q: mkdir: %w", name, err)
	}

	lockPath := refPath + ".lock"
	lock, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("update ref %q: lock: %w", name, err)
	}
	if _, err := lock.WriteString(string(h) + "\n"); err != nil {
		lock.Close()
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: write: %w", name, err)
	}
	if err := lock.Close(); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: close: %w", name, err)
	}
	if err := os.Rename(lockPath, refPath); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("update ref %q: rename: %w", name, err)
	}
	return nil
}

// ListRefs lists references under refs/, optionally restricted to a
// sub-prefix such as "tags". Names are relative to the refs root, e.g.
// "heads/master", "tags/v1".
func (r *Repo) ListRefs(prefix string) (map[string]object.Hash, error) {
	root := filepath.Join(r.GatDir, "refs")
	dir := root
	if strings.TrimSpace(prefix) != "" {
		dir = filepath.Join(root, filepath.FromSlash(prefix))
	}

	refs := make(map[string]object.Hash)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		refs[filepath.ToSlash(rel)] = object.Hash(strings.TrimSpace(string(data)))
		return nil
	})
	if os.IsNotExist(err) {
		return refs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list refs: %w", err)
	}
	return refs, nil
}

func readRefHash(refPath string) (object.Hash, error) {
	data, err := os.ReadFile(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	h := object.Hash(strings.TrimSpace(string(data)))
	if !h.Valid() {
		return "", fmt.Errorf("%w %q", object.ErrBadHash, string(h))
	}
	return h, nil
}
