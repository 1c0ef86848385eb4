package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/docforge-io/docforge/internal/doc"
	"github.com/docforge-io/docforge/internal/docx"
)

var infoShowText bool

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show a summary of a .docx file",
	Long: `Read a .docx file and print its structure: paragraph and table
counts, headings, and page margins.

Examples:
  docforge info report.docx
  docforge info report.docx --text`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoShowText, "text", false, "also print the paragraph text")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}

	d, err := docx.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	paragraphs := d.Paragraphs()
	tables := d.Tables()
	headings := 0
	pageBreaks := 0
	for _, p := range paragraphs {
		if p.Style.HeadingLevel > 0 {
			headings++
		}
	}
	for _, b := range d.Blocks {
		if b.Type == doc.BlockTypePageBreak {
			pageBreaks++
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "File\t%s\n", path)
	fmt.Fprintf(w, "Paragraphs\t%d\n", len(paragraphs))
	fmt.Fprintf(w, "Headings\t%d\n", headings)
	fmt.Fprintf(w, "Tables\t%d\n", len(tables))
	fmt.Fprintf(w, "Page breaks\t%d\n", pageBreaks)
	fmt.Fprintf(w, "Margins (cm)\ttop %.2f, bottom %.2f, left %.2f, right %.2f\n",
		cm(d.Margins.Top), cm(d.Margins.Bottom), cm(d.Margins.Left), cm(d.Margins.Right))
	w.Flush()

	for i, t := range tables {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTable %d: %d rows x %d cols", i, t.RowCount(), t.Cols)
		if t.Style != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", t.Style)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	if infoShowText {
		fmt.Fprintln(cmd.OutOrStdout())
		for i, p := range paragraphs {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", i, p.Text())
		}
	}
	return nil
}

func cm(twips int) float64 {
	return float64(twips) / doc.TwipsPerCm
}
