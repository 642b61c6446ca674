package yamas

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Manifest headers expected by the import tool.
var (
	manifestSingleHeader = []string{"SampleID", "absolute-filepath"}
	manifestPairedHeader = []string{"SampleID", "forward-absolute-filepath", "reverse-absolute-filepath"}
)

// ManifestRow is one sample entry of a manifest. Reverse is empty in
// single-end manifests.
type ManifestRow struct {
	SampleID string
	Forward  string
	Reverse  string
}

// manifestNames derives the sample names to list: the downloaded
// archive entries when present, otherwise the prefixes of the read
// files found on disk.
func manifestNames(baseDir string) []string {
	sraFiles := listFiles(filepath.Join(baseDir, "sra"))
	if len(sraFiles) > 0 {
		names := []string{}
		for _, f := range sraFiles {
			names = append(names, strings.TrimSuffix(f, filepath.Ext(f)))
		}
		sort.Strings(names)
		return names
	}

	seen := make(map[string]bool)
	for _, f := range listFiles(filepath.Join(baseDir, "fastq")) {
		if strings.HasSuffix(f, ".fastq") {
			stem := strings.TrimSuffix(f, ".fastq")
			seen[strings.Split(stem, "_")[0]] = true
		}
	}
	names := []string{}
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteManifest writes manifest.tsv for the run: tab-separated, one
// row per sample, with the single-end or paired-end header depending
// on the read layout. Rows whose files are missing are left out.
func WriteManifest(reads ReadSet) error {
	baseDir, err := filepath.Abs(reads.DirPath)
	if err != nil {
		return err
	}
	fastqPath := filepath.Join(baseDir, "fastq")
	names := manifestNames(baseDir)

	w, err := os.Create(filepath.Join(baseDir, "manifest.tsv"))
	if err != nil {
		return err
	}
	defer w.Close()

	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	defer tsv.Flush()

	if !reads.Rev {
		if err := tsv.Write(manifestSingleHeader); err != nil {
			return err
		}
		for _, n := range names {
			f := filepath.Join(fastqPath, n+".fastq")
			if _, err := os.Stat(f); err != nil {
				f = filepath.Join(fastqPath, n+"_1.fastq")
			}
			if _, err := os.Stat(f); err == nil {
				if err := tsv.Write([]string{n, f}); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := tsv.Write(manifestPairedHeader); err != nil {
		return err
	}
	for _, n := range names {
		f1 := filepath.Join(fastqPath, n+"_1.fastq")
		f2 := filepath.Join(fastqPath, n+"_2.fastq")
		_, err1 := os.Stat(f1)
		_, err2 := os.Stat(f2)
		if err1 == nil && err2 == nil {
			if err := tsv.Write([]string{n, f1, f2}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadManifest parses a manifest file back into its rows.
func ReadManifest(path string) ([]ManifestRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	records, err := tsv.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	paired := len(records[0]) == len(manifestPairedHeader)
	rows := []ManifestRow{}
	for _, rec := range records[1:] {
		row := ManifestRow{SampleID: rec[0], Forward: rec[1]}
		if paired {
			row.Reverse = rec[2]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
