package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func treeCmd(flags *globalFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "tree <scene>",
		Short: "Print the item tree of a scene",
		Long: `Tree instantiates a scene at its document window size and prints
every item, including repeated instances, with its current geometry.

Examples:
  scene tree list.yaml
  scene tree list.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(flags)
			if err != nil {
				return err
			}
			_, w, err := e.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Sync(); err != nil {
				return err
			}
			snap, err := w.Snapshot()
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			return snap.Dump(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the tree as JSON")

	return cmd
}
