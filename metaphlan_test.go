package yamas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMergeProfiles(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base, DatasetID: "DS1"}
	if err := MakeDir(ctx.QzaDir()); err != nil {
		t.Fatal(err)
	}

	p1 := "#mpa_vJun23_CHOCOPhlAnSGB_202307\n" +
		"clade_name\tNCBI_tax_id\trelative_abundance\n" +
		"k__Bacteria\t2\t100.0\n" +
		"k__Bacteria|p__Firmicutes\t2|1239\t60.0\n"
	p2 := "#mpa_vJun23_CHOCOPhlAnSGB_202307\n" +
		"k__Bacteria\t2\t100.0\n" +
		"k__Bacteria|p__Bacteroidota\t2|976\t40.0\n"
	os.WriteFile(ctx.QzaPath("s1_profile.txt"), []byte(p1), 0644)
	os.WriteFile(ctx.QzaPath("s2_profile.txt"), []byte(p2), 0644)

	if err := MergeProfiles(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(ctx.ExportDir(), "DS1_final.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "clade_name\ts1\ts2" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 3 clade rows, got %d: %v", len(lines)-1, lines)
	}
	for _, line := range lines[1:] {
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			t.Fatalf("row has wrong cardinality: %q", line)
		}
		switch fields[0] {
		case "k__Bacteria":
			if fields[1] != "100.0" || fields[2] != "100.0" {
				t.Errorf("shared clade wrong: %q", line)
			}
		case "k__Bacteria|p__Firmicutes":
			if fields[1] != "60.0" || fields[2] != "0" {
				t.Errorf("missing sample not zero-filled: %q", line)
			}
		}
	}
}

func TestMergeProfilesNoInputs(t *testing.T) {
	ctx := &PipelineContext{BaseDir: t.TempDir(), DatasetID: "DS1"}
	if err := MakeDir(ctx.QzaDir()); err != nil {
		t.Fatal(err)
	}
	if err := MergeProfiles(ctx); err != nil {
		t.Fatalf("no profiles should not be an error: %v", err)
	}
}
