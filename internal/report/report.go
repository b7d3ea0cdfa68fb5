// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a finder result as a Markdown researcher table, a
// YAML or JSON export, or a terminal table.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"
	"go.yaml.in/yaml/v3"

	"github.com/wevbarker/sauron/internal/finder"
)

// Format selects an output rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatTerminal Format = "table"
)

// notAvailable fills cells for researchers without a registry identity.
const notAvailable = "N/A"

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "table", "text":
		return FormatTerminal, nil
	}
	return "", fmt.Errorf("unknown format %q (want markdown, yaml, json, or table)", s)
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatJSON:
		return ".json"
	case FormatTerminal:
		return ".txt"
	}
	return ".md"
}

// Write renders res to w in format f.
func Write(w io.Writer, f Format, res finder.Result) error {
	switch f {
	case FormatMarkdown:
		return WriteMarkdown(w, res)
	case FormatYAML:
		return WriteYAML(w, res)
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatTerminal:
		FormatTable(w, res)
		return nil
	}
	return fmt.Errorf("unknown format %q", f)
}

// WriteFile renders res to path, creating parent directories.
func WriteFile(path string, f Format, res finder.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(file, f, res); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// DefaultPath returns outputDir/<Institution_Name>/researchers<ext>. Spaces
// become underscores; commas and path separators are dropped.
func DefaultPath(outputDir, institution string, f Format) string {
	return filepath.Join(outputDir, DirName(institution), "researchers"+f.Extension())
}

// DirName turns an institution name into a single path component.
func DirName(institution string) string {
	r := strings.NewReplacer(" ", "_", ",", "", "/", "", "\\", "")
	name := r.Replace(strings.TrimSpace(institution))
	if name == "" || name == "." || name == ".." {
		return "unnamed"
	}
	return name
}

// WriteMarkdown writes the counts header and the researcher table.
func WriteMarkdown(w io.Writer, res finder.Result) error {
	doc := md.NewMarkdown(w).
		H1("Researchers at " + res.Institution).
		LF().
		PlainText(md.Bold("Initial search") + ": " + strconv.Itoa(res.Discovered) + " names").
		PlainText(md.Bold("Matched to INSPIRE") + ": " + strconv.Itoa(res.Matched)).
		PlainText(md.Bold("Expanded via INSPIRE") + ": " + strconv.Itoa(len(res.Researchers)) + " total researchers")

	if res.NewViaExpansion > 0 {
		doc.PlainText(md.Bold("New via expansion") + ": " + strconv.Itoa(res.NewViaExpansion))
	}
	if res.FellBack {
		doc.PlainText(md.Italic("No registry institution matched the name; all affiliated institutions were used."))
	}
	if res.Truncated > 0 {
		doc.PlainText(md.Italic(fmt.Sprintf("Limited to %d researchers (%d omitted).", len(res.Researchers), res.Truncated)))
	}

	doc.LF().HorizontalRule().LF()

	rows := make([][]string, 0, len(res.Researchers))
	for _, r := range res.Researchers {
		bai, link := notAvailable, notAvailable
		if r.StableKey != "" {
			bai = r.StableKey
		}
		if r.ProfileURL != "" {
			link = md.Link("Link", r.ProfileURL)
		}
		rows = append(rows, []string{r.DisplayName, bai, link, strconv.Itoa(r.PublicationCount)})
	}
	doc.Table(md.TableSet{
		Header: []string{"Researcher Name", "INSPIRE BAI", "INSPIRE URL", "Publications"},
		Rows:   rows,
	})

	return doc.Build()
}

// WriteYAML writes the full result as YAML.
func WriteYAML(w io.Writer, res finder.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the full result as indented JSON.
func WriteJSON(w io.Writer, res finder.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// FormatTable writes a fixed-width table for the terminal.
func FormatTable(w io.Writer, res finder.Result) {
	if len(res.Researchers) == 0 {
		fmt.Fprintln(w, "No researchers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-32s  %-24s  %-5s  %s\n", "#", "Name", "INSPIRE BAI", "Pubs", "Profile")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range res.Researchers {
		bai := r.StableKey
		if bai == "" {
			bai = "-"
		}
		fmt.Fprintf(w, "%-4d  %-32s  %-24s  %-5d  %s\n",
			i+1, truncate(r.DisplayName, 32), truncate(bai, 24), r.PublicationCount, r.ProfileURL)
	}

	fmt.Fprintf(w, "\n%d researchers (%d discovered, %d matched, %d via expansion, %d new)",
		len(res.Researchers), res.Discovered, res.Matched, res.Expanded, res.NewViaExpansion)
	if res.Truncated > 0 {
		fmt.Fprintf(w, ", %d omitted by limit", res.Truncated)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
