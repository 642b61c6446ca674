// yamas_reformat converts tab-separated tool output tables into the
// comma-separated form downstream consumers expect.
package main

import (
	"encoding/csv"
	"log"
	"os"
	"strings"

	yamas "github.com/louzounlab/YaMAS"
	"gopkg.in/alecthomas/kingpin.v2"
)

func main() {
	app := kingpin.New("yamas_reformat", "Convert a tab-separated profile table to CSV")
	app.Version("v2.0.0")
	inFileArg := app.Arg("infile", "tab-separated input table").Required().String()
	outFileArg := app.Arg("outfile", "comma-separated output table").Required().String()
	transposeFlag := app.Flag("transpose", "transpose the table body, keeping the header row").Default("false").Bool()
	skipHeaderFlag := app.Flag("skip-first-line", "drop the first line (tool banner) before converting").Default("false").Bool()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if !*transposeFlag {
		if err := yamas.TsvToCsv(*inFileArg, *outFileArg, *skipHeaderFlag); err != nil {
			log.Fatalln(err)
		}
		return
	}

	rows, err := readTable(*inFileArg, *skipHeaderFlag)
	if err != nil {
		log.Fatalln(err)
	}
	if len(rows) == 0 {
		return
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.ReplaceAll(row[i], "|", ",")
		}
	}

	out, err := os.Create(*outFileArg)
	if err != nil {
		log.Fatalln(err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	if err := w.Write(rows[0]); err != nil {
		log.Fatalln(err)
	}
	if err := w.WriteAll(yamas.Transpose(rows[1:])); err != nil {
		log.Fatalln(err)
	}
}

func readTable(path string, skipFirstLine bool) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if skipFirstLine && len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
