package yamas

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCommandArgOrder(t *testing.T) {
	cmd := &Command{Program: "tool", Args: []string{"sub"}}
	cmd.Add("-a", "1").AddFlag("--verbose").Add("-b", "2")

	want := []string{"sub", "-a", "1", "--verbose", "-b", "2"}
	if got := cmd.args(); !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v, want %v", got, want)
	}
}

func TestRunWritesCombinedLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "stage.log")
	cmd := &Command{
		Program: "/bin/sh",
		Args:    []string{"-c", "echo out; echo err 1>&2"},
		LogPath: logPath,
	}

	res := cmd.Run()
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "out") || !strings.Contains(string(data), "err") {
		t.Errorf("log missing combined output: %q", string(data))
	}
}

func TestRunFailureDoesNotStopNextStage(t *testing.T) {
	var buf bytes.Buffer
	old := Warn
	Warn = log.New(&buf, "WARN: ", 0)
	defer func() { Warn = old }()

	dir := t.TempDir()
	fail := &Command{Program: "/bin/sh", Args: []string{"-c", "exit 1"},
		LogPath: filepath.Join(dir, "fail.log")}
	res := fail.Run()
	if res.Status != StatusFailed || res.ExitCode != 1 {
		t.Fatalf("expected failed/exit 1, got %+v", res)
	}
	if !strings.Contains(buf.String(), "non-zero exit status 1") {
		t.Errorf("failure not visible in log output: %q", buf.String())
	}

	ok := &Command{Program: "/bin/sh", Args: []string{"-c", "true"},
		LogPath: filepath.Join(dir, "ok.log")}
	if res := ok.Run(); !res.OK() {
		t.Errorf("independent stage after a failure should still run: %+v", res)
	}
}

func TestRunMissingProgram(t *testing.T) {
	var buf bytes.Buffer
	old := Warn
	Warn = log.New(&buf, "WARN: ", 0)
	defer func() { Warn = old }()

	cmd := &Command{Program: "no-such-tool-anywhere"}
	res := cmd.Run()
	if res.Status != StatusFailed || res.ExitCode != -1 {
		t.Fatalf("expected failed spawn, got %+v", res)
	}
}

func TestRunCreatesOutputParents(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "qza", "deep", "table.qza")
	cmd := &Command{Program: "/bin/sh", Args: []string{"-c", "true"}}
	cmd.AddOutput("--o-table", out)

	if res := cmd.Run(); !res.OK() {
		t.Fatalf("run failed: %+v", res)
	}
	if fi, err := os.Stat(filepath.Dir(out)); err != nil || !fi.IsDir() {
		t.Errorf("output parent directory was not created")
	}
}
