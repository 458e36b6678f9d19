package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/praetorian-inc/repotext/pkg/extract"
	"github.com/praetorian-inc/repotext/pkg/types"
)

// Output formats.
const (
	formatJSON  = "json"
	formatNames = "names"
	formatHuman = "human"
)

// styles holds color formatters for the human tree view
type styles struct {
	dir       *color.Color
	text      *color.Color
	binary    *color.Color
	truncated *color.Color
	summary   *color.Color
}

// newStyles creates color formatters.
// enabled=false respects --color=never and the NO_COLOR env var
func newStyles(enabled bool) *styles {
	s := &styles{
		dir:       color.New(color.Bold, color.FgHiBlue),
		text:      color.New(color.FgHiWhite),
		binary:    color.New(color.FgHiBlack),
		truncated: color.New(color.FgYellow),
		summary:   color.New(color.Bold),
	}

	if !enabled {
		s.dir.DisableColor()
		s.text.DisableColor()
		s.binary.DisableColor()
		s.truncated.DisableColor()
		s.summary.DisableColor()
	}

	return s
}

// colorEnabled resolves a --color value of auto, always or never.
func colorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""
	}
}

func validateFormat(format string) error {
	switch format {
	case formatJSON, formatNames, formatHuman:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json, names or human)", format)
	}
}

// writeResult prints result to the command's stdout in the given format.
func writeResult(cmd *cobra.Command, result *types.Result, format, colorMode string) error {
	out := cmd.OutOrStdout()
	switch format {
	case formatNames:
		return writeJSON(out, struct {
			FileNames []types.NameEntry `json:"fileNames"`
		}{result.FileNames})
	case formatHuman:
		writeHuman(out, result, newStyles(colorEnabled(colorMode)))
		return nil
	default:
		return writeJSON(out, result)
	}
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeHuman prints the content tree with one line per entry and a summary.
func writeHuman(out io.Writer, result *types.Result, s *styles) {
	writeEntries(out, result.FileContentArray, "", result.Stats.PerFileLimit, s)

	st := result.Stats
	fmt.Fprintln(out)
	s.summary.Fprintf(out, "%s, %s, %s\n",
		english.Plural(st.TextFiles, "text file", ""),
		english.Plural(st.BinaryFiles, "binary file", ""),
		english.Plural(st.Truncated, "truncated file", ""),
	)
	if st.TextFiles > 0 {
		fmt.Fprintf(out, "%s characters of text, limit %s per file\n",
			humanize.Comma(int64(st.TextChars)),
			humanize.Comma(int64(st.PerFileLimit)),
		)
	}
}

func writeEntries(out io.Writer, entries []types.Entry, indent string, limit int, s *styles) {
	for _, e := range entries {
		switch e.Kind {
		case types.KindDir:
			s.dir.Fprintf(out, "%s%s/\n", indent, e.Name)
			writeEntries(out, e.Children, indent+"  ", limit, s)
		case types.KindBinary:
			s.binary.Fprintf(out, "%s%s (binary)\n", indent, e.Name)
		default:
			size := humanize.Bytes(uint64(len(e.Content)))
			if isTruncated(e.Content, limit) {
				s.truncated.Fprintf(out, "%s%s (%s, truncated)\n", indent, e.Name, size)
				continue
			}
			s.text.Fprintf(out, "%s%s (%s)\n", indent, e.Name, size)
		}
	}
}

// isTruncated reports whether content carries the truncation marker added
// by the budget step.
func isTruncated(content string, limit int) bool {
	return strings.HasSuffix(content, extract.TruncationMarker) &&
		utf8.RuneCountInString(content) == limit+utf8.RuneCountInString(extract.TruncationMarker)
}
