package main

import (
	"fmt"

	"github.com/gat-vcs/gat/pkg/object"
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <type> <object>",
		Short: "Write the raw payload of an object to standard output",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := object.ObjectType(args[0])
			switch want {
			case object.TypeBlob, object.TypeTree, object.TypeCommit, object.TypeTag:
			default:
				return fmt.Errorf("unknown object type %q", args[0])
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := resolveObjectArg(r, args[1])
			if err != nil {
				return err
			}

			objType, payload, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if objType != want {
				return &object.TypeMismatchError{Hash: h, Got: objType, Want: want}
			}

			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}
}

// resolveObjectArg treats a 40-hex argument as an object ID and anything
// else as a ref name.
func resolveObjectArg(r *repo.Repo, arg string) (object.Hash, error) {
	if h := object.Hash(arg); h.Valid() {
		return h, nil
	}
	return r.ResolveRef(arg)
}
