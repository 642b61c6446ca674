package yamas

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindProfileSecondCandidate(t *testing.T) {
	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base, DatasetID: "DS1"}
	if err := MakeDir(ctx.QzaDir()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ctx.QzaPath("X_1_profile.txt"), []byte("#\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := Sample{Key: "X", Forward: filepath.Join(base, "fastq", "X_1.fastq")}
	got := findProfile(profileCandidates(ctx, s))
	if filepath.Base(got) != "X_1_profile.txt" {
		t.Fatalf("expected the second candidate, got %q", got)
	}
}

func TestFindProfileNone(t *testing.T) {
	ctx := &PipelineContext{BaseDir: t.TempDir()}
	s := Sample{Key: "X", Forward: "X_1.fastq"}
	if got := findProfile(profileCandidates(ctx, s)); got != "" {
		t.Fatalf("expected no profile, got %q", got)
	}
}

func TestRunPathwaysSkipsSampleWithoutProfile(t *testing.T) {
	var buf bytes.Buffer
	oldWarn, oldInfo := Warn, Info
	Warn = log.New(&buf, "WARN: ", 0)
	Info = log.New(&buf, "INFO: ", 0)
	defer func() { Warn, Info = oldWarn, oldInfo }()

	base := t.TempDir()
	ctx := &PipelineContext{BaseDir: base, DatasetID: "DS1", Threads: 1}
	for _, d := range []string{ctx.FastqDir(), ctx.QzaDir()} {
		if err := MakeDir(d); err != nil {
			t.Fatal(err)
		}
	}
	writeFiles(t, ctx.FastqDir(), "noprof.fastq")

	results := RunPathways(ctx)
	if len(results) != 1 || results[0].Status != StatusSkipped {
		t.Fatalf("expected one skipped sample, got %+v", results)
	}
	if !strings.Contains(buf.String(), "no taxonomic profile found for noprof") {
		t.Errorf("skip not reported: %q", buf.String())
	}
}

func TestConcatFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.fastq")
	b := filepath.Join(dir, "b.fastq")
	os.WriteFile(a, []byte("AAA\n"), 0644)
	os.WriteFile(b, []byte("BBB\n"), 0644)

	merged := filepath.Join(dir, "merged.fastq")
	if err := concatFiles(merged, a, b); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(merged)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "AAA\nBBB\n" {
		t.Fatalf("merged = %q", string(data))
	}
}
