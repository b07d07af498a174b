package main

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newLsTreeCmd() *cobra.Command {
	var recurse bool

	cmd := &cobra.Command{
		Use:   "ls-tree [-r] <tree>",
		Short: "List the entries of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := resolveObjectArg(r, args[0])
			if err != nil {
				return err
			}

			return lsTree(cmd.OutOrStdout(), r, h, recurse, "")
		},
	}

	cmd.Flags().BoolVarP(&recurse, "recurse", "r", false, "recurse into subtrees")

	return cmd
}

func lsTree(w io.Writer, r *repo.Repo, h object.Hash, recurse bool, prefix string) error {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return err
	}

	for _, e := range tree.Entries {
		if recurse && e.IsTree() {
			if err := lsTree(w, r, e.Target, recurse, path.Join(prefix, e.Name)); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(w, "%s %s %s\t%s\n", padMode(e.Mode), entryType(e), e.Target, path.Join(prefix, e.Name))
	}
	return nil
}

// padMode zero-pads a stored mode string to the six digits shown in
// listings.
func padMode(mode string) string {
	for len(mode) < 6 {
		mode = "0" + mode
	}
	return mode
}

// entryType maps a tree entry's mode to the type of the object it names.
// Symlinks (12) point at blobs; gitlinks (16) point at commits.
func entryType(e object.TreeEntry) object.ObjectType {
	switch {
	case e.IsTree():
		return object.TypeTree
	case strings.HasPrefix(e.Mode, "16"):
		return object.TypeCommit
	default:
		return object.TypeBlob
	}
}
