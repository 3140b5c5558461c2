// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter is a tool to check for missing or orphaned translation keys.
// It scans the Go source code for i18n.T() calls and key-like string
// literals and compares them against the YAML locale files.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

// report is the outcome of one lint run.
type report struct {
	Used      int
	Undefined []string            // used in code but absent from the primary locale
	Orphaned  []string            // in the primary locale but never used
	Missing   map[string][]string // locale file -> keys it lacks
}

func (r report) failed() bool {
	if len(r.Undefined) > 0 {
		return true
	}
	for _, keys := range r.Missing {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	r, err := lint(projectRoot, filepath.Join(projectRoot, localesDir))
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, r)
	if r.failed() {
		os.Exit(1)
	}
}

// lint compares the keys used under root with the locale files in dir.
func lint(root, dir string) (report, error) {
	r := report{Missing: make(map[string][]string)}

	primary, err := loadKeysFromLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return r, fmt.Errorf("loading primary locale %s: %w", primaryLocale, err)
	}
	used, err := findUsedKeys(root, namespaces(primary))
	if err != nil {
		return r, fmt.Errorf("finding used keys: %w", err)
	}
	r.Used = len(used)

	for key := range used {
		if _, ok := primary[key]; !ok {
			r.Undefined = append(r.Undefined, key)
		}
	}
	for key := range primary {
		if _, ok := used[key]; !ok {
			r.Orphaned = append(r.Orphaned, key)
		}
	}
	sort.Strings(r.Undefined)
	sort.Strings(r.Orphaned)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return r, err
	}
	for _, file := range files {
		if filepath.Base(file) == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return r, fmt.Errorf("loading %s: %w", file, err)
		}
		var missing []string
		for key := range primary {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		sort.Strings(missing)
		r.Missing[filepath.Base(file)] = missing
	}
	return r, nil
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "🔍 %d unique translation keys used in source code.\n\n", r.Used)

	section := func(title string, keys []string) {
		fmt.Fprintf(w, "--- %s ---\n", title)
		if len(keys) == 0 {
			fmt.Fprintln(w, "  ✨ None found.")
		}
		for _, k := range keys {
			fmt.Fprintf(w, "  - %s\n", k)
		}
		fmt.Fprintln(w)
	}
	section("Undefined keys (used in code, missing from "+primaryLocale+")", r.Undefined)
	section("Orphaned keys (in "+primaryLocale+" but not used in code)", r.Orphaned)

	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		section("Missing keys in "+f, r.Missing[f])
	}

	if r.failed() {
		fmt.Fprintln(w, "❌ Found issues that need to be addressed.")
	} else {
		fmt.Fprintln(w, "✅ All translation files are consistent!")
	}
}

// namespaces returns the first segments of the given keys, e.g. "ledger".
func namespaces(keys map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range keys {
		ns, _, _ := strings.Cut(k, ".")
		out[ns] = struct{}{}
	}
	return out
}

var (
	callRe    = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	literalRe = regexp.MustCompile(`"([a-z]+\.[a-z_.]+)"`)
)

// findUsedKeys scans the non-test .go files under root for i18n.T("key")
// calls and for dotted literals in a known namespace (keys kept in tables).
// Directories starting with "_" or "." and the tools directory are skipped.
func findUsedKeys(root string, ns map[string]struct{}) (map[string]struct{}, error) {
	keys := make(map[string]struct{})

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range callRe.FindAllStringSubmatch(string(content), -1) {
			keys[m[1]] = struct{}{}
		}
		for _, m := range literalRe.FindAllStringSubmatch(string(content), -1) {
			first, _, _ := strings.Cut(m[1], ".")
			if _, ok := ns[first]; ok {
				keys[m[1]] = struct{}{}
			}
		}
		return nil
	})

	return keys, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into a flat map with dot-separated keys.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			newPrefix := k
			if prefix != "" {
				newPrefix = prefix + "." + k
			}
			flattenYAML(newPrefix, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
