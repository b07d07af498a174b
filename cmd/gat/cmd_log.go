package main

import (
	"github.com/gat-vcs/gat/pkg/repo"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [commit]",
		Short: "Emit commit ancestry as a Graphviz digraph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			ref := "HEAD"
			if len(args) > 0 {
				ref = args[0]
			}
			start, err := resolveObjectArg(r, ref)
			if err != nil {
				return err
			}

			return r.WriteLogDot(cmd.OutOrStdout(), start)
		},
	}
}
