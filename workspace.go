package yamas

import (
	"os"
	"path/filepath"
	"time"
)

// Fixed subdirectories of a run directory.
var runSubdirs = []string{"sra", "fastq", "qza", "vis", "humann_results", "export"}

// PipelineContext holds the paths of one run. Every stage reads the
// paths it needs and may create further subdirectories under BaseDir.
type PipelineContext struct {
	BaseDir   string
	DatasetID string
	Threads   int
}

func (c *PipelineContext) SraDir() string        { return filepath.Join(c.BaseDir, "sra") }
func (c *PipelineContext) FastqDir() string      { return filepath.Join(c.BaseDir, "fastq") }
func (c *PipelineContext) QzaDir() string        { return filepath.Join(c.BaseDir, "qza") }
func (c *PipelineContext) VisDir() string        { return filepath.Join(c.BaseDir, "vis") }
func (c *PipelineContext) HumannDir() string     { return filepath.Join(c.BaseDir, "humann_results") }
func (c *PipelineContext) ExportDir() string     { return filepath.Join(c.BaseDir, "export") }
func (c *PipelineContext) ExportsDir() string    { return filepath.Join(c.BaseDir, "exports") }
func (c *PipelineContext) FastqCleanDir() string { return filepath.Join(c.BaseDir, "fastq_clean") }
func (c *PipelineContext) FastqRawDir() string   { return filepath.Join(c.BaseDir, "fastq_raw") }
func (c *PipelineContext) KneadOutDir() string   { return filepath.Join(c.BaseDir, "knead_out") }

func (c *PipelineContext) ManifestPath() string { return filepath.Join(c.BaseDir, "manifest.tsv") }
func (c *PipelineContext) MetadataPath() string { return filepath.Join(c.BaseDir, "metadata.json") }
func (c *PipelineContext) ReadSetPath() string {
	return filepath.Join(c.BaseDir, "reads_data.json")
}

// QzaPath returns the path of an artifact under qza/.
func (c *PipelineContext) QzaPath(fileName string) string {
	return filepath.Join(c.QzaDir(), fileName)
}

// DemuxArtifact is the imported demultiplexed artifact for the layout.
func (c *PipelineContext) DemuxArtifact(paired bool) string {
	if paired {
		return c.QzaPath("demux-paired-end.qza")
	}
	return c.QzaPath("demux-single-end.qza")
}

// MakeDir creates a directory and its parents.
func MakeDir(d string) error {
	return os.MkdirAll(d, 0755)
}

// CreateRunDir scaffolds a new run directory named
// <datasetID>-<dd-mm-YYYY_HH-MM-SS>, with the fixed subdirectories,
// under location (or the working directory when location is empty).
func CreateRunDir(datasetID, location string) (string, error) {
	dirName := datasetID + "-" + time.Now().Format("02-01-2006_15-04-05")

	var dirPath string
	var err error
	if location != "" {
		dirPath, err = filepath.Abs(filepath.Join(location, dirName))
	} else {
		dirPath, err = filepath.Abs(dirName)
	}
	if err != nil {
		return "", err
	}

	if err := MakeDir(dirPath); err != nil {
		return "", err
	}
	Info.Printf("%s created.\n", dirPath)

	for _, sub := range runSubdirs {
		if err := MakeDir(filepath.Join(dirPath, sub)); err != nil {
			return "", err
		}
	}

	return dirPath, nil
}

// listFiles returns the sorted names of regular files in dir, or nil
// when the directory does not exist.
func listFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// dirEmpty reports whether a directory is missing or has no entries.
func dirEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err != nil || len(entries) == 0
}
