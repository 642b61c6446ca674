package main

import (
	yamas "github.com/louzounlab/YaMAS"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Command for resuming an interrupted run directory, either from the
// persisted metadata record or by re-probing the converted reads.
type cmdContinue struct {
	cmdConfig
	clause    *kingpin.CmdClause
	fromFastq bool

	path     *string
	dataset  *string
	dataType *string
	clean    *bool
	pathways *bool
	hostDB   *string
}

func newContinueCmd(app *kingpin.Application, name, help string, fromFastq bool) *cmdContinue {
	cmd := &cmdContinue{fromFastq: fromFastq}
	cmd.clause = app.Command(name, help)
	cmd.path = cmd.clause.Arg("run-dir", "run directory of the interrupted run.").Required().String()
	cmd.dataset = cmd.clause.Flag("dataset", "dataset identifier.").Required().String()
	cmd.dataType = cmd.clause.Flag("type", "data type: 16S, 18S or Shotgun.").Required().String()
	cmd.clean = cmd.clause.Flag("clean", "remove host reads before profiling.").Bool()
	cmd.pathways = cmd.clause.Flag("pathways", "infer functional pathways per sample (shotgun only).").Bool()
	cmd.hostDB = cmd.clause.Flag("host-db", "host genome bowtie2 index directory for --clean.").Default("").String()
	cmd.configFlags(cmd.clause)
	return cmd
}

func (cmd *cmdContinue) run() {
	cmd.ParseConfig()

	dataType, err := yamas.ParseDataType(*cmd.dataType)
	if err != nil {
		ERROR.Fatalln(err)
	}

	params := yamas.ContinueParams{
		DatasetID:    *cmd.dataset,
		ContinuePath: *cmd.path,
		DataType:     dataType,
		Clean:        *cmd.clean,
		Pathways:     *cmd.pathways,
		Threads:      *cmd.threads,
	}
	if *cmd.clean {
		params.Dehost = dehostOptions(resolveHostDB(*cmd.hostDB), *cmd.threads)
	}

	if cmd.fromFastq {
		err = yamas.RunContinueFastq(params)
	} else {
		err = yamas.RunContinue(params)
	}
	if err != nil {
		ERROR.Fatalln(err)
	}
}
