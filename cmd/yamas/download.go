package main

import (
	yamas "github.com/louzounlab/YaMAS"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Command for downloading a dataset and running it through the
// selected analysis branch.
type cmdDownload struct {
	cmdConfig
	clause *kingpin.CmdClause

	accList  *string
	dataset  *string
	dataType *string
	location *string
	asSingle *bool
	clean    *bool
	pathways *bool
	hostDB   *string
}

func newDownloadCmd(app *kingpin.Application) *cmdDownload {
	cmd := &cmdDownload{}
	cmd.clause = app.Command("download", "Download a dataset from the sequencing archive and analyze it.")
	cmd.accList = cmd.clause.Arg("acc-list", "file listing the accessions to download.").Required().String()
	cmd.dataset = cmd.clause.Flag("dataset", "dataset identifier.").Required().String()
	cmd.dataType = cmd.clause.Flag("type", "data type: 16S, 18S or Shotgun.").Required().String()
	cmd.location = cmd.clause.Flag("location", "directory under which the run directory is created.").Default("").String()
	cmd.asSingle = cmd.clause.Flag("as-single", "treat paired reads as single-end (reverse reads are deleted).").Bool()
	cmd.clean = cmd.clause.Flag("clean", "remove host reads before profiling.").Bool()
	cmd.pathways = cmd.clause.Flag("pathways", "infer functional pathways per sample (shotgun only).").Bool()
	cmd.hostDB = cmd.clause.Flag("host-db", "host genome bowtie2 index directory for --clean.").Default("").String()
	cmd.configFlags(cmd.clause)
	return cmd
}

func (cmd *cmdDownload) run() {
	cmd.ParseConfig()

	dataType, err := yamas.ParseDataType(*cmd.dataType)
	if err != nil {
		ERROR.Fatalln(err)
	}

	params := yamas.RunParams{
		AccListPath: *cmd.accList,
		DatasetID:   *cmd.dataset,
		DataType:    dataType,
		Location:    *cmd.location,
		AsSingle:    *cmd.asSingle,
		Clean:       *cmd.clean,
		Pathways:    *cmd.pathways,
		Threads:     *cmd.threads,
	}
	if *cmd.clean {
		params.Dehost = dehostOptions(resolveHostDB(*cmd.hostDB), *cmd.threads)
	}

	dirPath, err := yamas.RunDownload(params)
	if err != nil {
		ERROR.Fatalln(err)
	}
	INFO.Printf("Run directory: %s\n", dirPath)
}
