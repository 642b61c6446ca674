package yamas

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TreeExporter is the phylogenetic-tree export capability. The
// sequencer receives an implementation only when the amplicon branch
// is selected; the shotgun branch never needs one.
type TreeExporter interface {
	// ExportTree writes the rooted tree artifact as plain newick to
	// dest and returns the tree's leaf names.
	ExportTree(artifact, dest string) ([]string, error)
}

// QzaTreeExporter extracts the newick payload from a rooted tree
// artifact. The artifact format is a zip archive carrying its data
// under <uuid>/data/.
type QzaTreeExporter struct{}

func (QzaTreeExporter) ExportTree(artifact, dest string) ([]string, error) {
	zr, err := zip.OpenReader(artifact)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var entry *zip.File
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".nwk") {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("no newick file inside %s", artifact)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return nil, err
	}

	tree, err := ParseNewick(string(data))
	if err != nil {
		return nil, err
	}
	return tree.Leaves(), nil
}

// ClassifierExists verifies the classifier artifact configured for
// taxonomy assignment. A missing classifier is a configuration error.
func ClassifierExists(path string) error {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return fmt.Errorf("classifier not found at %s", path)
	}
	return nil
}

// taxonomyArtifactName is the classified-taxonomy artifact for the
// data type's reference database.
func taxonomyArtifactName(dataType DataType) string {
	if dataType == Amplicon16S {
		return "gg-13-8-99-nb-classified.qza"
	}
	return "silva-132-99-nb-classifier.qza"
}

// Dada2 denoises the demultiplexed reads. For paired-end runs trim
// and trunc are "forward,reverse" pairs; for single-end runs they are
// plain integers.
func Dada2(ctx *PipelineContext, reads ReadSet, trim, trunc string, threads int) StageResult {
	paired := reads.Paired()

	verb := "denoise-single"
	if paired {
		verb = "denoise-paired"
	}
	cmd := &Command{Program: "qiime", Args: []string{"dada2", verb}}
	cmd.Add("--i-demultiplexed-seqs", ctx.DemuxArtifact(paired))

	if paired {
		trims := strings.Split(trim, ",")
		truncs := strings.Split(trunc, ",")
		if len(trims) != 2 || len(truncs) != 2 {
			Warn.Println("paired-end runs need --trim and --trunc as forward,reverse pairs")
			return StageResult{Stage: "qiime dada2", Status: StatusFailed,
				Err: fmt.Errorf("trim/trunc must be pairs for paired reads")}
		}
		cmd.Add("--p-trim-left-f", trims[0])
		cmd.Add("--p-trim-left-r", trims[1])
		cmd.Add("--p-trunc-len-f", truncs[0])
		cmd.Add("--p-trunc-len-r", truncs[1])
	} else {
		cmd.Add("--p-trim-left", trim)
		cmd.Add("--p-trunc-len", trunc)
	}

	cmd.AddOutput("--o-table", ctx.QzaPath("dada2_table.qza"))
	cmd.Add("--p-n-threads", strconv.Itoa(threads))
	cmd.Add("--p-chimera-method", "consensus")
	cmd.AddOutput("--o-representative-sequences", ctx.QzaPath("dada2_rep-seqs.qza"))
	cmd.AddOutput("--o-denoising-stats", ctx.QzaPath("dada2_denoising-stats.qza"))
	cmd.AddFlag("--verbose")

	return cmd.Run()
}

// ClusterFeatures clusters the denoised features de novo at 99%.
func ClusterFeatures(ctx *PipelineContext) StageResult {
	cmd := &Command{Program: "qiime", Args: []string{"vsearch", "cluster-features-de-novo"}}
	cmd.Add("--i-table", ctx.QzaPath("dada2_table.qza"))
	cmd.Add("--i-sequences", ctx.QzaPath("dada2_rep-seqs.qza"))
	cmd.Add("--p-perc-identity", "0.99")
	cmd.AddOutput("--o-clustered-table", ctx.QzaPath("table-dn-99.qza"))
	cmd.AddOutput("--o-clustered-sequences", ctx.QzaPath("rep-seqs-dn-99.qza"))
	return cmd.Run()
}

// AssignTaxonomy classifies the clustered sequences against the
// pre-trained classifier.
func AssignTaxonomy(ctx *PipelineContext, dataType DataType, classifierPath string) StageResult {
	cmd := &Command{Program: "qiime", Args: []string{"feature-classifier", "classify-sklearn"}}
	cmd.Add("--i-reads", ctx.QzaPath("rep-seqs-dn-99.qza"))
	cmd.Add("--i-classifier", classifierPath)
	cmd.AddOutput("--o-classification", ctx.QzaPath(taxonomyArtifactName(dataType)))
	return cmd.Run()
}

// FilterTaxa drops mitochondrial and chloroplast features.
func FilterTaxa(ctx *PipelineContext, dataType DataType) StageResult {
	cmd := &Command{Program: "qiime", Args: []string{"taxa", "filter-table"}}
	cmd.Add("--i-table", ctx.QzaPath("table-dn-99.qza"))
	cmd.Add("--i-taxonomy", ctx.QzaPath(taxonomyArtifactName(dataType)))
	cmd.Add("--p-exclude", "mitochondria,chloroplast")
	cmd.AddOutput("--o-filtered-table", ctx.QzaPath("clean_table.qza"))
	return cmd.Run()
}

// FilterFeatures drops rare features from the cleaned table.
func FilterFeatures(ctx *PipelineContext) StageResult {
	cmd := &Command{Program: "qiime", Args: []string{"feature-table", "filter-features"}}
	cmd.Add("--i-table", ctx.QzaPath("clean_table.qza"))
	cmd.Add("--p-min-samples", "3")
	cmd.Add("--p-min-frequency", "10")
	cmd.AddOutput("--o-filtered-table", ctx.QzaPath("feature-frequency-filtered-table.qza"))
	return cmd.Run()
}

// ExportOTU unpacks the filtered feature table and converts it to a
// tab-separated table under exports/.
func ExportOTU(ctx *PipelineContext) []StageResult {
	results := []StageResult{}

	cmd := &Command{Program: "qiime", Args: []string{"tools", "export"}}
	cmd.Add("--input-path", ctx.QzaPath("feature-frequency-filtered-table.qza"))
	cmd.Add("--output-path", ctx.ExportsDir())
	results = append(results, cmd.Run())

	conv := &Command{Program: "biom", Args: []string{"convert"}}
	conv.Add("-i", filepath.Join(ctx.ExportsDir(), "feature-table.biom"))
	conv.Add("-o", filepath.Join(ctx.ExportsDir(), "otu.tsv"))
	conv.AddFlag("--to-tsv")
	results = append(results, conv.Run())

	return results
}

// ExportTaxonomy unpacks the classified taxonomy into exports/tax.tsv.
func ExportTaxonomy(ctx *PipelineContext, dataType DataType) StageResult {
	cmd := &Command{Program: "qiime", Args: []string{"tools", "export"}}
	cmd.Add("--input-path", ctx.QzaPath(taxonomyArtifactName(dataType)))
	cmd.AddOutput("--output-path", filepath.Join(ctx.ExportsDir(), "tax.tsv"))
	return cmd.Run()
}

// ExportPhylogeny aligns the representative sequences, builds a tree
// and roots it at the midpoint. The rooted artifact lands in exports/.
func ExportPhylogeny(ctx *PipelineContext) []StageResult {
	results := []StageResult{}

	aligned := ctx.QzaPath("aligned-rep-seqs.qza")
	mafft := &Command{Program: "qiime", Args: []string{"alignment", "mafft"}}
	mafft.Add("--i-sequences", ctx.QzaPath("rep-seqs-dn-99.qza"))
	mafft.AddOutput("--o-alignment", aligned)
	results = append(results, mafft.Run())

	tree := filepath.Join(ctx.ExportsDir(), "fasttree-tree.qza")
	fasttree := &Command{Program: "qiime", Args: []string{"phylogeny", "fasttree"}}
	fasttree.Add("--i-alignment", aligned)
	fasttree.AddOutput("--o-tree", tree)
	fasttree.AddFlag("--verbose")
	results = append(results, fasttree.Run())

	rooted := filepath.Join(ctx.ExportsDir(), "fasttree-tree-rooted.qza")
	midpoint := &Command{Program: "qiime", Args: []string{"phylogeny", "midpoint-root"}}
	midpoint.Add("--i-tree", tree)
	midpoint.AddOutput("--o-rooted-tree", rooted)
	results = append(results, midpoint.Run())

	return results
}
