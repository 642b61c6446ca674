package yamas

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Transpose swaps rows and columns. Ragged input is squared off to
// the longest row with empty cells.
func Transpose(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	out := make([][]string, width)
	for i := range out {
		out[i] = make([]string, len(rows))
		for j, row := range rows {
			if i < len(row) {
				out[i][j] = row[i]
			}
		}
	}
	return out
}

// writeCSVAtomic writes rows as CSV through a temp file so the
// destination is observed fully written or not at all.
func writeCSVAtomic(path string, write func(w *csv.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readTSV reads a tab-separated table without field-count enforcement.
func readTSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// MergedProfileToCSV reformats the merged profile table into
// comma-separated form: the reserved clade-hierarchy delimiter '|' is
// replaced with ',' inside cells, and the body is transposed so each
// original column becomes a row.
func MergedProfileToCSV(ctx *PipelineContext) error {
	inPath := filepath.Join(ctx.ExportDir(), ctx.DatasetID+"_final.txt")
	outPath := filepath.Join(ctx.ExportDir(), ctx.DatasetID+"_final_table.csv")

	rows, err := readTSV(inPath)
	if err != nil {
		return fmt.Errorf("%s not found: %w", inPath, err)
	}
	if len(rows) == 0 {
		return nil
	}

	for _, row := range rows {
		for i := range row {
			row[i] = strings.ReplaceAll(row[i], "|", ",")
		}
	}
	header := rows[0]
	body := Transpose(rows[1:])

	return writeCSVAtomic(outPath, func(w *csv.Writer) error {
		if err := w.Write(header); err != nil {
			return err
		}
		return w.WriteAll(body)
	})
}

// TsvToCsv converts a tab-separated table to comma-separated form,
// optionally dropping the first line (tool banner above the header).
func TsvToCsv(inPath, outPath string, skipFirstLine bool) error {
	rows, err := readTSV(inPath)
	if err != nil {
		return err
	}
	if skipFirstLine && len(rows) > 0 {
		rows = rows[1:]
	}
	return writeCSVAtomic(outPath, func(w *csv.Writer) error {
		return w.WriteAll(rows)
	})
}

// ConvertExportsToCSV converts the exported feature and taxonomy
// tables to CSV next to their sources.
func ConvertExportsToCSV(ctx *PipelineContext) error {
	otuTsv := filepath.Join(ctx.ExportsDir(), "otu.tsv")
	if err := TsvToCsv(otuTsv, filepath.Join(ctx.ExportsDir(), "otu.csv"), true); err != nil {
		return err
	}

	// the taxonomy export step unpacks into a directory named tax.tsv
	taxTsv := filepath.Join(ctx.ExportsDir(), "tax.tsv", "taxonomy.tsv")
	return TsvToCsv(taxTsv, filepath.Join(ctx.ExportsDir(), "tax.tsv", "taxonomy.csv"), false)
}

// PadOTUWithTreeLeaves appends zero-count rows to the feature table
// for tree leaves that have no table entry, so the table and the tree
// cover the same feature set.
func PadOTUWithTreeLeaves(ctx *PipelineContext, leaves []string) error {
	otuPath := filepath.Join(ctx.ExportsDir(), "otu.csv")
	paddedPath := filepath.Join(ctx.ExportsDir(), "otu_padding.csv")

	f, err := os.Open(otuPath)
	if err != nil {
		return err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	f.Close()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("%s is empty", otuPath)
	}

	inTable := make(map[string]bool)
	for _, row := range rows[1:] {
		if len(row) > 0 {
			inTable[row[0]] = true
		}
	}

	missing := []string{}
	for _, leaf := range leaves {
		if leaf != "" && !inTable[leaf] {
			missing = append(missing, leaf)
		}
	}
	Info.Printf("Adding %d ASVs from tree to CSV...\n", len(missing))

	zeros := make([]string, len(rows[0])-1)
	for i := range zeros {
		zeros[i] = "0"
	}

	return writeCSVAtomic(paddedPath, func(w *csv.Writer) error {
		if err := w.WriteAll(rows); err != nil {
			return err
		}
		for _, leaf := range missing {
			if err := w.Write(append([]string{leaf}, zeros...)); err != nil {
				return err
			}
		}
		return nil
	})
}
