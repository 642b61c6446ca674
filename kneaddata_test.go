package yamas

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunDehostRequiresHostDB(t *testing.T) {
	ctx := &PipelineContext{BaseDir: t.TempDir()}
	if _, err := RunDehost(ctx, DehostOptions{}); err == nil {
		t.Fatal("missing host DB must be a configuration error")
	}
}

func TestValidateHostDB(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateHostDB(dir); err == nil {
		t.Fatal("directory without index files should not validate")
	}
	os.WriteFile(filepath.Join(dir, "host.1.bt2"), []byte("x"), 0644)
	if err := ValidateHostDB(dir); err != nil {
		t.Fatalf("valid index directory rejected: %v", err)
	}
}

func TestSwapCleanedReads(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base}
	for _, d := range []string{ctx.FastqDir(), ctx.FastqCleanDir()} {
		if err := MakeDir(d); err != nil {
			t.Fatal(err)
		}
	}
	writeFiles(t, ctx.FastqDir(), "s1_1.fastq", "s1_2.fastq")
	writeFiles(t, ctx.FastqCleanDir(),
		"s1_1_kneaddata_paired_1.fastq",
		"s1_1_kneaddata_paired_2.fastq")

	if err := SwapCleanedReads(ctx, true); err != nil {
		t.Fatal(err)
	}

	// raw reads backed up
	if _, err := os.Stat(filepath.Join(ctx.FastqRawDir(), "s1_1.fastq")); err != nil {
		t.Errorf("raw reads not backed up: %v", err)
	}
	// cleaned copies active under canonical names
	for _, n := range []string{"s1_1_1.fastq", "s1_1_2.fastq"} {
		if _, err := os.Stat(filepath.Join(ctx.FastqDir(), n)); err != nil {
			t.Errorf("cleaned read %s not swapped in: %v", n, err)
		}
	}
}

func TestSwapCleanedReadsNoOutput(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base}
	if err := MakeDir(ctx.FastqDir()); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, ctx.FastqDir(), "s1.fastq")

	if err := SwapCleanedReads(ctx, true); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(ctx.FastqDir(), "s1.fastq")); err != nil {
		t.Errorf("raw reads must stay in place when cleaning produced nothing: %v", err)
	}
}
