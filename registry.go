package yamas

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Sample groups the read files that belong to one sequencing sample.
// Forward holds the single-end or forward read file; Reverse is empty
// for single-end samples. Extra collects files that mapped to the same
// key but could not be placed, which callers should treat as an
// inconsistency in the input directory.
type Sample struct {
	Key     string
	Forward string
	Reverse string
	Extra   []string
}

// Paired reports whether both mates are present.
func (s Sample) Paired() bool {
	return s.Forward != "" && s.Reverse != ""
}

// Files returns the read files of the sample, forward first.
func (s Sample) Files() []string {
	files := []string{}
	if s.Forward != "" {
		files = append(files, s.Forward)
	}
	if s.Reverse != "" {
		files = append(files, s.Reverse)
	}
	return files
}

const (
	mateSingle = iota
	mateForward
	mateReverse
)

// Pairing tokens under both common naming conventions.
// A token only matches at the suffix position, immediately before the
// extension; a sample whose name contains "_1" elsewhere is still
// grouped by its full stem.
var pairTokens = []struct {
	token string
	mate  int
}{
	{"_R1", mateForward},
	{"_R2", mateReverse},
	{"_1", mateForward},
	{"_2", mateReverse},
}

var readExtensions = []string{".fastq", ".fq"}

// readKey derives the sample key of a read file name and reports which
// mate the file holds. ok is false for files without a recognized
// read extension.
func readKey(name string) (key string, mate int, ok bool) {
	stem := strings.TrimSuffix(name, ".gz")

	ext := ""
	for _, e := range readExtensions {
		if strings.HasSuffix(stem, e) {
			ext = e
			break
		}
	}
	if ext == "" {
		return "", 0, false
	}
	stem = strings.TrimSuffix(stem, ext)

	for _, t := range pairTokens {
		if strings.HasSuffix(stem, t.token) {
			return strings.TrimSuffix(stem, t.token), t.mate, true
		}
	}

	return stem, mateSingle, true
}

// DetectSamples scans a directory of read files and groups them into
// samples by their pairing key. An empty or all-unrecognized directory
// yields an empty map; a missing directory is an error.
func DetectSamples(dir string) (map[string]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	samples := make(map[string]Sample)
	for _, name := range names {
		key, mate, ok := readKey(name)
		if !ok {
			continue
		}

		s := samples[key]
		s.Key = key
		path := filepath.Join(dir, name)
		switch {
		case mate == mateReverse && s.Reverse == "":
			s.Reverse = path
		case mate != mateReverse && s.Forward == "":
			s.Forward = path
		default:
			s.Extra = append(s.Extra, path)
		}
		samples[key] = s
	}

	return samples, nil
}

// SampleKeys returns the keys of a discovery pass in deterministic order.
func SampleKeys(samples map[string]Sample) []string {
	keys := []string{}
	for k := range samples {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
