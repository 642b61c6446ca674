package yamas

import (
	"path/filepath"
)

// QiimeImport imports the manifest's read files into a demultiplexed
// artifact under qza/. Returns the artifact path alongside the result.
func QiimeImport(ctx *PipelineContext, reads ReadSet) (string, StageResult) {
	paired := reads.Paired()
	outPath := ctx.DemuxArtifact(paired)

	sampleType := "SampleData[SequencesWithQuality]"
	inputFormat := "SingleEndFastqManifestPhred33V2"
	if paired {
		sampleType = "SampleData[PairedEndSequencesWithQuality]"
		inputFormat = "PairedEndFastqManifestPhred33V2"
	}

	cmd := &Command{Program: "qiime", Args: []string{"tools", "import"}}
	cmd.Add("--type", sampleType)
	cmd.Add("--input-path", filepath.Join(reads.DirPath, "manifest.tsv"))
	cmd.Add("--input-format", inputFormat)
	cmd.AddOutput("--output-path", outPath)

	return outPath, cmd.Run()
}

// QiimeDemuxSummarize renders the demultiplexing summary into vis/.
func QiimeDemuxSummarize(ctx *PipelineContext, qzaPath string) (string, StageResult) {
	visPath := filepath.Join(ctx.VisDir(), ctx.DatasetID+".qzv")

	cmd := &Command{Program: "qiime", Args: []string{"demux", "summarize"}}
	cmd.Add("--i-data", qzaPath)
	cmd.AddOutput("--o-visualization", visPath)

	return visPath, cmd.Run()
}
