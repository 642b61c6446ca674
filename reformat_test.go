package yamas

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTranspose(t *testing.T) {
	in := [][]string{{"1", "2", "3"}, {"4", "5", "6"}}
	want := [][]string{{"1", "4"}, {"2", "5"}, {"3", "6"}}
	if got := Transpose(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestMergedProfileToCSV(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base, DatasetID: "DS1"}
	if err := MakeDir(ctx.ExportDir()); err != nil {
		t.Fatal(err)
	}

	in := filepath.Join(ctx.ExportDir(), "DS1_final.txt")
	if err := os.WriteFile(in, []byte("a|x\tb|y\n1\t2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := MergedProfileToCSV(ctx); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(ctx.ExportDir(), "DS1_final_table.csv"))
	if len(rows) != 3 {
		t.Fatalf("expected header + one row per original column, got %d rows", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"a,x", "b,y"}) {
		t.Errorf("hierarchy delimiter not normalized in header: %v", rows[0])
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Errorf("body not transposed: %v", rows[1:])
	}
}

func TestTsvToCsvSkipsFirstLine(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "otu.tsv")
	out := filepath.Join(dir, "otu.csv")
	body := "# Constructed from biom file\n#OTU ID\ts1\ts2\nasv1\t5\t7\n"
	if err := os.WriteFile(in, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if err := TsvToCsv(in, out, true); err != nil {
		t.Fatal(err)
	}
	rows := readCSV(t, out)
	if len(rows) != 2 || rows[0][0] != "#OTU ID" || rows[1][0] != "asv1" {
		t.Fatalf("unexpected conversion: %v", rows)
	}
}

func TestPadOTUWithTreeLeaves(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base}
	if err := MakeDir(ctx.ExportsDir()); err != nil {
		t.Fatal(err)
	}

	otu := filepath.Join(ctx.ExportsDir(), "otu.csv")
	if err := os.WriteFile(otu, []byte("#OTU ID,s1,s2\nasv1,5,7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := PadOTUWithTreeLeaves(ctx, []string{"asv1", "asv2"}); err != nil {
		t.Fatal(err)
	}
	rows := readCSV(t, filepath.Join(ctx.ExportsDir(), "otu_padding.csv"))
	if len(rows) != 3 {
		t.Fatalf("expected one padded row, got %v", rows)
	}
	if !reflect.DeepEqual(rows[2], []string{"asv2", "0", "0"}) {
		t.Errorf("padded row wrong: %v", rows[2])
	}
}
