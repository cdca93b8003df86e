package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every post as a zip archive, or into a directory with --dir",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if dir != "" {
				result, err := a.pipeline.ExportAll(ctx, dir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d posts to %s (%d skipped)\n", len(result.Written), dir, result.Skipped)
				return nil
			}

			name, err := a.archive.ExportAllAsArchive(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(a.archive.Dir(), name))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write one file per post into this directory instead of an archive")
	return cmd
}
