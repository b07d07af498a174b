package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var message string

	cmd := &cobra.Command{
		Use:   "tag [-a] [-m message] [name [object]]",
		Short: "List tags or create a tag",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if len(args) == 0 {
				names, err := r.ListTags()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			name := args[0]
			targetRef := "HEAD"
			if len(args) > 1 {
				targetRef = args[1]
			}
			target, err := resolveObjectArg(r, targetRef)
			if err != nil {
				return err
			}

			if !annotate {
				return r.CreateTag(name, target)
			}

			h, err := r.CreateAnnotatedTag(name, target, taggerIdentity(), message)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "create an annotated tag object")
	cmd.Flags().StringVarP(&message, "message", "m", "", "annotated tag message")

	return cmd
}

func taggerIdentity() string {
	if v := os.Getenv("GAT_TAGGER"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
