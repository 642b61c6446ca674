package yamas

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Qiime2Version probes the local conda installation for a qiime2
// environment name. Falls back to a pinned default so callers can
// still build a classifier URL without conda.
func Qiime2Version() string {
	out, err := exec.Command("conda", "env", "list").Output()
	if err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			for _, part := range strings.Split(line, "/") {
				if strings.Contains(part, "qiime2") && !strings.Contains(part, " ") {
					return part
				}
			}
		}
	}
	return "qiime2-unknown"
}

// ClassifierURL points at the default pre-trained classifier matching
// the detected toolkit version.
func ClassifierURL() string {
	version := Qiime2Version()
	ver := "2023.2"
	if i := strings.Index(version, "-"); i >= 0 {
		ver = version[i+1:]
	}
	return "https://data.qiime2.org/" + ver + "/common/gg-13-8-99-nb-classifier.qza"
}

// CheckCondaQiime2 warns when the active conda environment is not a
// qiime2 one. The shotgun branch runs fine without it; amplicon
// stages will fail later with their own diagnostics.
func CheckCondaQiime2() {
	prefix := os.Getenv("CONDA_PREFIX")
	if !strings.Contains(filepath.Base(prefix), "qiime2") {
		Warn.Println("'qiime2' environment not detected. " +
			"Shotgun analysis will proceed, but 16S features requiring QIIME2 will fail.")
	}
}
