package main

import (
	"fmt"

	"github.com/matsen/citations/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportType   string
	exportEmail  string
	exportAppend string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "ieee", "Output format: ieee, bibtex or jsonl")
	exportCmd.Flags().StringVar(&exportType, "type", "", "Only citations of this type")
	exportCmd.Flags().StringVar(&exportEmail, "email", "", "Only citations the individual with this email is a member of")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append BibTeX entries to this file, skipping ones it already has")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "File to write a jsonl dump to")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export citations as IEEE strings, BibTeX or a JSONL dump",
	Long: `Export citations.

Formats:
  ieee    one formatted citation per line
  bibtex  BibTeX entries; with --append, add only entries missing from a .bib file
  jsonl   full aggregates, one per line, restorable with "cite import"

Examples:
  cite export --type articles
  cite export --format bibtex > refs.bib
  cite export --format bibtex --append refs.bib
  cite export --format jsonl -o backup.jsonl`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// ExportResponse reports the outcome of a file-writing export.
type ExportResponse struct {
	Format  string `json:"format"`
	Path    string `json:"path"`
	Written int    `json:"written"`
	Skipped int    `json:"skipped,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, _ := listFilter(exportType, exportEmail)

	ctx := cmd.Context()
	s := openSession(ctx)
	defer s.Close()

	switch exportFormat {
	case "jsonl":
		if exportOutput == "" {
			exitWithError(ExitError, "--output is required for the jsonl format")
		}
		n, err := s.db.Dump(ctx, exportOutput)
		if err != nil {
			exitWithErr(err)
		}
		reportExport(ExportResponse{Format: "jsonl", Path: exportOutput, Written: n})
		return nil

	case "ieee", "bibtex":
	default:
		exitWithError(ExitError, "unknown format: %s (valid: ieee, bibtex, jsonl)", exportFormat)
	}

	cits, err := s.db.List(ctx, filter)
	if err != nil {
		exitWithErr(err)
	}

	if exportFormat == "ieee" {
		for _, v := range newCitationViews(s.style, cits) {
			if v.Formatted == "" {
				s.log.Warn("citation cannot be formatted", "citation_id", v.ID, "type", string(v.Kind))
				continue
			}
			fmt.Println(v.Formatted)
		}
		return nil
	}

	if exportAppend == "" {
		fmt.Print(export.ToBibTeXList(cits))
		return nil
	}

	n, err := export.AppendBibTeX(exportAppend, cits)
	if err != nil {
		exitWithError(ExitError, "appending to %s: %v", exportAppend, err)
	}
	reportExport(ExportResponse{Format: "bibtex", Path: exportAppend, Written: n, Skipped: len(cits) - n})
	return nil
}

func reportExport(r ExportResponse) {
	if humanOutput {
		outputHuman("Wrote %d citation(s) to %s", r.Written, r.Path)
		if r.Skipped > 0 {
			outputHuman(" (%d already present)", r.Skipped)
		}
		outputHuman("\n")
		return
	}
	outputJSON(collectionEnvelope("exported", "exports", r, r.Written))
}
