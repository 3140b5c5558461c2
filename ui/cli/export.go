// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/medledger/internal/export"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/snapshot"
)

// now is the clock used for default file names.
var now = time.Now

// newExportCmd creates the 'export' command.
// It writes the ledger as an Excel workbook.
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [output-file]",
		Short: "Export the device ledger as an Excel workbook",
		Long: `Writes all devices and their repair history to an .xlsx workbook with a
"Devices" and a "Repairs" sheet.

If an output file is specified, '.xlsx' will be appended to the name if it's not already present.
If no output file is specified, a default filename 'medledger-YYYY-MM-DD.xlsx' is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := outputName(args, export.DefaultFileName(now()), ".xlsx")
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if err := export.WriteLedgerFile(outputFile, reg); err != nil {
				return errors.New(i18n.T("cli.export.error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.export.success", reg.Len(), outputFile))
			return nil
		},
	}
}

// newBackupCmd creates the 'backup' command.
// It writes a zstd-compressed JSON snapshot that can be used as --seed.
func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [output-file]",
		Short: "Create a compressed (zstd) JSON snapshot of the ledger",
		Long: `Dumps every device with its inspection dates and repair history into a
single, Zstandard-compressed JSON file. The file can be loaded again with --seed.

If an output file is specified, '.zst' will be appended to the name if it's not already present.
If no output file is specified, a default filename 'medledger-backup-YYYY-MM-DD.json.zst' is used.

Examples:
  # Backup to a default file (e.g., medledger-backup-2026-10-19.json.zst)
  medledger backup

  # Backup to a specific file
  medledger backup devices.json`, // .zst will be appended
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := outputName(args, snapshot.DefaultFileName(now()), ".zst")
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			if err := snapshot.WriteFile(outputFile, reg); err != nil {
				return errors.New(i18n.T("cli.backup.error", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup.success", reg.Len(), outputFile))
			return nil
		},
	}
}

// outputName picks the output file from args, adding suffix when missing.
func outputName(args []string, def, suffix string) string {
	if len(args) == 0 {
		return def
	}
	if !strings.HasSuffix(args[0], suffix) {
		return args[0] + suffix
	}
	return args[0]
}
