package yamas

import (
	"fmt"
	"os"
	"path/filepath"
)

// RunParams configure a full download-and-analyze run.
type RunParams struct {
	AccListPath string
	DatasetID   string
	DataType    DataType
	Location    string
	AsSingle    bool
	Clean       bool
	Pathways    bool
	Threads     int
	Dehost      DehostOptions
}

// checkInput reports on the accession list without aborting; a bad
// path surfaces again as a failed download stage.
func checkInput(accList string) {
	fi, err := os.Stat(accList)
	switch {
	case err != nil:
		Warn.Printf("Input path %s: invalid, file does not exist.\n", accList)
	case fi.IsDir():
		Warn.Printf("Input path %s: invalid, not a file.\n", accList)
	default:
		Info.Printf("Input path %s: valid.\n", accList)
	}
}

// RunDownload drives a complete run: scaffold the run directory,
// download and convert the reads, optionally deplete host reads, then
// route into the amplicon or shotgun branch. It returns the run
// directory. Per-sample and per-stage failures are reported and the
// run keeps going; only configuration errors abort.
func RunDownload(p RunParams) (string, error) {
	CheckCondaQiime2()
	checkInput(p.AccListPath)

	dirPath, err := CreateRunDir(p.DatasetID, p.Location)
	if err != nil {
		return "", err
	}
	ctx := &PipelineContext{BaseDir: dirPath, DatasetID: p.DatasetID, Threads: p.Threads}

	Info.Println("Start prefetch (1/6)")
	Prefetch(ctx, p.AccListPath)

	meta := Metadata{DirPath: dirPath, DatasetID: p.DatasetID}
	if err := SaveMetadata(meta, ctx.MetadataPath()); err != nil {
		return dirPath, err
	}

	Info.Println("Start conversion (2/6)")
	reads := ConvertToFastq(ctx, p.AsSingle)

	if p.Clean {
		Info.Println("Running KneadData cleaning...")
		if err := RunCleaning(ctx, p.Dehost, true); err != nil {
			return dirPath, err
		}
	}

	meta.Type = string(p.DataType)
	meta.ReadDataFwd = reads.Fwd
	meta.ReadDataRev = reads.Rev
	if err := SaveMetadata(meta, ctx.MetadataPath()); err != nil {
		return dirPath, err
	}

	if err := runBranch(ctx, reads, p.DataType, p.Pathways); err != nil {
		return dirPath, err
	}
	return dirPath, nil
}

// ContinueParams configure re-entry into an interrupted run directory.
type ContinueParams struct {
	DatasetID    string
	ContinuePath string
	DataType     DataType
	Clean        bool
	Pathways     bool
	Threads      int
	Dehost       DehostOptions
}

// RunContinueFastq resumes a run from its converted read files,
// re-probing sra/ and fastq/ for the read layout.
func RunContinueFastq(p ContinueParams) error {
	CheckCondaQiime2()
	ctx := &PipelineContext{BaseDir: p.ContinuePath, DatasetID: p.DatasetID, Threads: p.Threads}

	if _, err := os.Stat(ctx.FastqDir()); err != nil {
		Warn.Printf("Fastq directory not found in %s\n", p.ContinuePath)
	}
	reads := ConvertToFastq(ctx, false)

	if p.Clean {
		if err := RunCleaning(ctx, p.Dehost, true); err != nil {
			return err
		}
	}

	return runBranch(ctx, reads, p.DataType, p.Pathways)
}

// RunContinue resumes a run from its persisted metadata record.
func RunContinue(p ContinueParams) error {
	CheckCondaQiime2()
	ctx := &PipelineContext{BaseDir: p.ContinuePath, DatasetID: p.DatasetID, Threads: p.Threads}

	if p.Clean {
		if err := RunCleaning(ctx, p.Dehost, true); err != nil {
			return err
		}
	}

	reads := ReadSet{DirPath: p.ContinuePath, Fwd: true}
	if meta, err := ReadMetadata(ctx.MetadataPath()); err == nil {
		reads = meta.ReadSet()
		reads.DirPath = p.ContinuePath
	} else {
		Warn.Printf("cannot read %s, assuming single-end reads: %v\n", ctx.MetadataPath(), err)
	}

	return runBranch(ctx, reads, p.DataType, p.Pathways)
}

// runBranch routes a converted run into its analysis branch.
func runBranch(ctx *PipelineContext, reads ReadSet, dataType DataType, pathways bool) error {
	if dataType.Amplicon() {
		Info.Println("Start 16S flow...")
		if err := WriteManifest(reads); err != nil {
			return err
		}
		qzaPath, res := QiimeImport(ctx, reads)
		if res.OK() {
			QiimeDemuxSummarize(ctx, qzaPath)
		}
		return SaveReadSet(reads, ctx.ReadSetPath())
	}

	Info.Println("Start Shotgun flow...")
	ProfileSamples(ctx, reads)
	if err := MergeProfiles(ctx); err != nil {
		Warn.Printf("profile merge failed: %v\n", err)
	}
	if err := MergedProfileToCSV(ctx); err != nil {
		Warn.Printf("profile reformat failed: %v\n", err)
	}
	if pathways {
		RunPathways(ctx)
	}
	Info.Println("Shotgun analysis finished successfully.")
	return nil
}

// ExportParams configure the amplicon export phase.
type ExportParams struct {
	OutputDir      string
	DataType       DataType
	Trim           string
	Trunc          string
	ClassifierPath string
	Threads        int

	// Tree provides the phylogenetic export capability; it is
	// injected only for amplicon runs.
	Tree TreeExporter
}

// RunExport runs the amplicon export phase over a completed run
// directory: denoise, cluster, classify, filter, then export the
// feature, taxonomy and phylogeny tables.
func RunExport(p ExportParams) error {
	Info.Printf("### Exporting %s ###\n", p.DataType)
	CheckCondaQiime2()

	if !p.DataType.Amplicon() {
		return fmt.Errorf("export applies to amplicon (16S/18S) runs, not %s", p.DataType)
	}
	if err := ClassifierExists(p.ClassifierPath); err != nil {
		return fmt.Errorf("%w; download it from %s", err, ClassifierURL())
	}

	ctx := &PipelineContext{BaseDir: p.OutputDir, Threads: p.Threads}
	reads, err := ReadReadSet(ctx.ReadSetPath())
	if err != nil {
		return fmt.Errorf("cannot load read record for %s: %w", p.OutputDir, err)
	}

	Info.Println("Running DADA2...")
	Dada2(ctx, reads, p.Trim, p.Trunc, p.Threads)

	Info.Println("Clustering features...")
	ClusterFeatures(ctx)

	Info.Println("Assigning taxonomy...")
	AssignTaxonomy(ctx, p.DataType, p.ClassifierPath)

	if err := MakeDir(ctx.ExportsDir()); err != nil {
		return err
	}

	Info.Println("Cleaning taxonomy...")
	FilterTaxa(ctx, p.DataType)
	FilterFeatures(ctx)

	Info.Println("Exporting OTU & Taxonomy...")
	ExportOTU(ctx)
	ExportTaxonomy(ctx, p.DataType)

	Info.Println("Exporting Phylogeny & Tree...")
	ExportPhylogeny(ctx)

	if err := ConvertExportsToCSV(ctx); err != nil {
		Warn.Printf("csv conversion failed: %v\n", err)
	}

	if p.Tree == nil {
		Warn.Println("no tree export capability provided; skipping tree export")
	} else {
		rooted := filepath.Join(ctx.ExportsDir(), "fasttree-tree-rooted.qza")
		leaves, err := p.Tree.ExportTree(rooted, filepath.Join(ctx.ExportsDir(), "tree.nwk"))
		if err != nil {
			Warn.Printf("tree export failed: %v\n", err)
		} else if err := PadOTUWithTreeLeaves(ctx, leaves); err != nil {
			Warn.Printf("otu padding failed: %v\n", err)
		}
	}

	Info.Println("Export finished.")
	return nil
}
