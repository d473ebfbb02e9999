package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ToolSpend/internal/core"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export <file.csv|sheet-url>",
		Short: "Import a source and write the resulting report",
		Long: `Imports the source, then writes the records as csv, json or xlsx.
Without --out the report is written to a dated file in the current
directory; "--out -" writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := core.ParseExportFormat(format)
			if err != nil {
				return err
			}

			svc, done, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if _, err := runImport(cmd.Context(), svc, args[0]); err != nil {
				return userError(err)
			}

			var buf bytes.Buffer
			if err := core.Export(&buf, f, svc.Records()); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if out == "" {
				out = core.ExportFileName(core.DefaultExportName, f, time.Now())
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Report format: csv, json or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path, or - for stdout")
	return cmd
}
