package main

import (
	"fmt"

	"github.com/spf13/cobra"

	filestore "eiendom_showcase/internal/storage/file"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check property files without touching the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := filestore.Open(opts.dataDir)
			if err != nil {
				return err
			}
			items, _ := store.GetAll(cmd.Context())
			problems := store.Problems()

			out := cmd.OutOrStdout()
			for _, p := range problems {
				fmt.Fprintf(out, "FAIL %s: %v\n", p.Path, p.Err)
			}
			fmt.Fprintf(out, "%d valid, %d skipped\n", len(items), len(problems))
			if len(problems) > 0 {
				return fmt.Errorf("%d invalid property files", len(problems))
			}
			return nil
		},
	}
}
