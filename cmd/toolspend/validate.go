package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var errRejected = errors.New("file would be rejected")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Check a CSV without importing it",
		Long: `Runs the import pipeline over a file without storing anything and
prints every row error and warning. Exits non-zero when the file would be
rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := svc.CheckFile(filepath.Base(path), info.Size()); err != nil {
				return userError(err)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			result, err := svc.DryRun(raw)
			if err != nil {
				return userError(err)
			}
			result.FileName = filepath.Base(path)

			out := cmd.OutOrStdout()
			status := "ok"
			if !result.Accepted {
				status = "rejected"
			}
			fmt.Fprintf(out, "%s: %s (%d of %d rows valid, encoding %s)\n",
				result.FileName, status, len(result.Parse.Records), result.TotalRows, result.Encoding)
			printMessages(out, result)

			if !result.Accepted {
				return errRejected
			}
			return nil
		},
	}
}
