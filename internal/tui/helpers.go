// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/model"
)

// FilterI18nKeys holds the translation keys for filter status messages.
type FilterI18nKeys struct {
	Filtering    string // e.g., "ledger.filtering"
	FilterActive string // e.g., "ledger.filter_active"
	FilterHint   string // e.g., "ledger.filter_hint"
}

// getFilterStatusLine generates the standard filter status string for footers.
// It takes the filtering state, the filter text, a struct of i18n keys,
// and optional arguments for the format strings.
func getFilterStatusLine(isFiltering bool, filterText string, keys FilterI18nKeys, formatArgs ...interface{}) string {
	allArgs := append(formatArgs, filterText)
	if isFiltering {
		return i18n.T(keys.Filtering, allArgs...)
	}
	if filterText != "" {
		return i18n.T(keys.FilterActive, allArgs...)
	}
	return i18n.T(keys.FilterHint)
}

// displayDate localizes the inspection placeholders and passes real dates
// through untouched.
func displayDate(v string) string {
	switch v {
	case model.NotPerformed:
		return i18n.T("date.not_performed")
	case model.NotScheduled:
		return i18n.T("date.not_scheduled")
	case "":
		return "-"
	}
	return v
}

// styledDate renders placeholders in the attention color.
func styledDate(v string) string {
	if v == model.NotPerformed || v == model.NotScheduled || v == "" {
		return pendingDateStyle.Render(displayDate(v))
	}
	return v
}

// deviceSummary is the plain-text device detail copied to the clipboard.
func deviceSummary(d model.Device) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", i18n.T("detail.title", d.Name))
	fmt.Fprintf(&b, "%s: %s\n", i18n.T("detail.model"), d.Model)
	fmt.Fprintf(&b, "%s: %s\n", i18n.T("detail.location"), d.Location)
	fmt.Fprintf(&b, "%s: %s\n", i18n.T("detail.last_inspection"), displayDate(d.LastInspection))
	fmt.Fprintf(&b, "%s: %s\n", i18n.T("detail.next_inspection"), displayDate(d.NextInspection))
	fmt.Fprintf(&b, "%s:\n", i18n.T("detail.repairs"))
	if len(d.Repairs) == 0 {
		fmt.Fprintf(&b, "  %s\n", i18n.T("detail.no_repairs"))
	}
	for _, r := range d.Repairs {
		fmt.Fprintf(&b, "  - %s\n", r.String())
	}
	return b.String()
}
