package main

import (
	yamas "github.com/louzounlab/YaMAS"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Command for the amplicon export phase: denoise, cluster, classify
// and export the feature, taxonomy and phylogeny tables of a
// completed run directory.
type cmdExport struct {
	cmdConfig
	clause *kingpin.CmdClause

	outputDir  *string
	dataType   *string
	trim       *string
	trunc      *string
	classifier *string
}

func newExportCmd(app *kingpin.Application) *cmdExport {
	cmd := &cmdExport{}
	cmd.clause = app.Command("export", "Export tabular results for a completed amplicon run.")
	cmd.outputDir = cmd.clause.Arg("run-dir", "run directory of the completed run.").Required().String()
	cmd.dataType = cmd.clause.Flag("type", "data type: 16S or 18S.").Required().String()
	cmd.trim = cmd.clause.Flag("trim", "bases to trim from the left; forward,reverse pair for paired-end runs.").Required().String()
	cmd.trunc = cmd.clause.Flag("trunc", "position to truncate at; forward,reverse pair for paired-end runs.").Required().String()
	cmd.classifier = cmd.clause.Flag("classifier", "pre-trained classifier artifact path.").Default("").String()
	cmd.configFlags(cmd.clause)
	return cmd
}

func (cmd *cmdExport) run() {
	cmd.ParseConfig()

	dataType, err := yamas.ParseDataType(*cmd.dataType)
	if err != nil {
		ERROR.Fatalln(err)
	}

	params := yamas.ExportParams{
		OutputDir:      *cmd.outputDir,
		DataType:       dataType,
		Trim:           *cmd.trim,
		Trunc:          *cmd.trunc,
		ClassifierPath: resolveClassifier(*cmd.classifier),
		Threads:        *cmd.threads,
		Tree:           yamas.QzaTreeExporter{},
	}

	if err := yamas.RunExport(params); err != nil {
		ERROR.Fatalln(err)
	}
}
