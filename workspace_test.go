package yamas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateRunDirScaffold(t *testing.T) {
	base := t.TempDir()
	dirPath, err := CreateRunDir("DS1", base)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(filepath.Base(dirPath), "DS1-") {
		t.Errorf("run dir not named after the dataset: %s", dirPath)
	}
	for _, sub := range []string{"sra", "fastq", "qza", "vis", "humann_results", "export"} {
		fi, err := os.Stat(filepath.Join(dirPath, sub))
		if err != nil || !fi.IsDir() {
			t.Errorf("missing subdirectory %s", sub)
		}
	}
}

func TestProbePairing(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base}
	if err := MakeDir(ctx.FastqDir()); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, ctx.FastqDir(), "s1_1.fastq", "s1_2.fastq")

	reads := probePairing(ctx, false)
	if !reads.Paired() {
		t.Fatalf("expected paired reads, got %+v", reads)
	}

	reads = probePairing(ctx, true)
	if reads.Rev {
		t.Fatalf("as-single should downgrade to single-end: %+v", reads)
	}
	if _, err := os.Stat(filepath.Join(ctx.FastqDir(), "s1_2.fastq")); !os.IsNotExist(err) {
		t.Errorf("reverse reads should have been deleted")
	}
}

func TestProbePairingSingle(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base}
	if err := MakeDir(ctx.FastqDir()); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, ctx.FastqDir(), "solo.fastq")

	if reads := probePairing(ctx, false); reads.Rev || !reads.Fwd {
		t.Fatalf("expected single-end reads, got %+v", reads)
	}
}
