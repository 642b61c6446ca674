package main

import (
	"log"
	"os"

	yamas "github.com/louzounlab/YaMAS"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	INFO  *log.Logger
	ERROR *log.Logger
)

func main() {
	// Register loggers.
	INFO = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ERROR = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	registerLogger()

	app := kingpin.New("yamas", "Microbiome analysis pipeline: downloads sequencing datasets and routes them through the amplicon or shotgun branch.")
	app.Version("v2.0.0")

	download := newDownloadCmd(app)
	cont := newContinueCmd(app, "continue",
		"Continue an interrupted run from its metadata record.", false)
	contFastq := newContinueCmd(app, "continue-fastq",
		"Continue an interrupted run from its converted read files.", true)
	export := newExportCmd(app)

	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case download.clause.FullCommand():
		download.run()
	case cont.clause.FullCommand():
		cont.run()
	case contFastq.clause.FullCommand():
		contFastq.run()
	case export.clause.FullCommand():
		export.run()
	}
}

func registerLogger() {
	yamas.Info = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	yamas.Warn = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	yamas.Error = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}
