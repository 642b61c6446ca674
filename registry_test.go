package yamas

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("@r\nACGT\n+\nFFFF\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetectSamplesPaired(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "sampleA_1.fastq", "sampleA_2.fastq")

	samples, err := DetectSamples(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	s, found := samples["sampleA"]
	if !found {
		t.Fatalf("expected key sampleA, got %v", SampleKeys(samples))
	}
	if !s.Paired() {
		t.Errorf("sampleA should be paired: %+v", s)
	}
	if filepath.Base(s.Forward) != "sampleA_1.fastq" || filepath.Base(s.Reverse) != "sampleA_2.fastq" {
		t.Errorf("wrong mate assignment: %+v", s)
	}
}

func TestDetectSamplesSingle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "sampleB.fastq")

	samples, err := DetectSamples(dir)
	if err != nil {
		t.Fatal(err)
	}
	s, found := samples["sampleB"]
	if len(samples) != 1 || !found {
		t.Fatalf("expected single key sampleB, got %v", SampleKeys(samples))
	}
	if s.Paired() || s.Reverse != "" {
		t.Errorf("sampleB should be single-end: %+v", s)
	}
}

func TestDetectSamplesEmptyDir(t *testing.T) {
	samples, err := DetectSamples(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected empty mapping, got %v", SampleKeys(samples))
	}
}

func TestDetectSamplesRTokensAndGz(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "x_R1.fastq.gz", "x_R2.fastq.gz", "notes.txt")

	samples, err := DetectSamples(dir)
	if err != nil {
		t.Fatal(err)
	}
	s := samples["x"]
	if len(samples) != 1 || !s.Paired() {
		t.Fatalf("expected one paired sample x, got %+v", samples)
	}
}

func TestDetectSamplesExtraFilesFlagged(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "y_1.fastq", "y_2.fastq", "y.fastq")

	samples, err := DetectSamples(dir)
	if err != nil {
		t.Fatal(err)
	}
	s := samples["y"]
	if len(s.Extra) != 1 {
		t.Fatalf("expected 1 extra file flagged, got %+v", s)
	}
}

func TestReadKeyMidNameToken(t *testing.T) {
	// a pairing token away from the suffix position stays in the key
	key, mate, ok := readKey("run_1_sampleC.fastq")
	if !ok || mate != mateSingle || key != "run_1_sampleC" {
		t.Errorf("got key=%q mate=%d ok=%v", key, mate, ok)
	}
}
