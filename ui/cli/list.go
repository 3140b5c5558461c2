// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/medledger/internal/export"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

// newListCmd creates the 'list' command.
// It prints the devices matching an optional search term.
func newListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list [term]",
		Short: "Print the devices, optionally filtered by a search term",
		Long: `Prints every device whose name, model or location contains the search
term. Matching is case-sensitive. Without a term all devices are printed
in registration order.

Examples:
  # All devices as a table
  medledger list

  # Devices in the imaging room as YAML
  medledger list 画像診断室 --output yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			return printDevices(cmd.OutOrStdout(), reg.Filter(term), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, yaml or json")
	return cmd
}

// printDevices writes devices to w in the given format.
func printDevices(w io.Writer, devices []model.Device, format string) error {
	switch format {
	case outputTable:
		if len(devices) == 0 {
			_, err := fmt.Fprintln(w, i18n.T("cli.list.empty"))
			return err
		}
		_, err := fmt.Fprintln(w, deviceTable(devices))
		return err
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(devices); err != nil {
			return fmt.Errorf("could not encode yaml: %w", err)
		}
		return enc.Close()
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(devices); err != nil {
			return fmt.Errorf("could not encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%s", i18n.T("cli.error_output", format))
	}
}

// deviceTable renders devices with localized headers and placeholders.
func deviceTable(devices []model.Device) string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			d.Name,
			d.Model,
			d.Location,
			export.DisplayDate(d.LastInspection),
			export.DisplayDate(d.NextInspection),
			strconv.Itoa(len(d.Repairs)),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(
			i18n.T("export.col.id"),
			i18n.T("export.col.name"),
			i18n.T("export.col.model"),
			i18n.T("export.col.location"),
			i18n.T("export.col.last_inspection"),
			i18n.T("export.col.next_inspection"),
			i18n.T("export.col.repair_count"),
		).
		Rows(rows...).
		String()
}
