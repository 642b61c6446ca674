package yamas

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// StageStatus classifies the outcome of one pipeline stage.
type StageStatus int

const (
	StatusOK StageStatus = iota
	StatusSkipped
	StatusFailed
)

func (s StageStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// StageResult carries the outcome of one external-tool invocation.
// A failed stage never halts the pipeline; callers inspect the result
// and decide whether downstream stages still make sense.
type StageResult struct {
	Stage    string
	Status   StageStatus
	ExitCode int
	LogPath  string
	Err      error
}

// OK reports whether the stage completed successfully.
func (r StageResult) OK() bool {
	return r.Status == StatusOK
}

// Skip records a skipped stage with the given reason.
func Skip(stage, reason string) StageResult {
	Warn.Printf("%s skipped: %s\n", stage, reason)
	return StageResult{Stage: stage, Status: StatusSkipped}
}

// Option is one flag/value pair of an external command. A flag with an
// empty value is emitted bare.
type Option struct {
	Flag  string
	Value string
}

// Command describes one external-tool invocation: the program, its
// positional arguments, its options in insertion order, the declared
// output files whose parent directories must exist before the run, and
// the file that receives the combined standard output and error.
type Command struct {
	Program string
	Args    []string
	Options []Option
	Outputs []string
	LogPath string
}

// Add appends an option with a value.
func (c *Command) Add(flag, value string) *Command {
	c.Options = append(c.Options, Option{Flag: flag, Value: value})
	return c
}

// AddFlag appends a bare option.
func (c *Command) AddFlag(flag string) *Command {
	c.Options = append(c.Options, Option{Flag: flag})
	return c
}

// AddOutput declares an output path whose parent directory is created
// before the command runs.
func (c *Command) AddOutput(flag, path string) *Command {
	c.Outputs = append(c.Outputs, path)
	return c.Add(flag, path)
}

func (c *Command) args() []string {
	args := append([]string{}, c.Args...)
	for _, opt := range c.Options {
		args = append(args, opt.Flag)
		if opt.Value != "" {
			args = append(args, opt.Value)
		}
	}
	return args
}

func (c *Command) String() string {
	return c.Program + " " + strings.Join(c.args(), " ")
}

// Run executes the command synchronously and reports the outcome.
// Non-zero exits and spawn failures are logged as warnings and
// returned as failed results; nothing is raised.
func (c *Command) Run() StageResult {
	res := StageResult{Stage: c.Program, Status: StatusOK, LogPath: c.LogPath}

	for _, out := range c.Outputs {
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			Warn.Printf("cannot create output directory for %s: %v\n", out, err)
			res.Status = StatusFailed
			res.Err = err
			return res
		}
	}

	cmd := exec.Command(c.Program, c.args()...)

	var stderr *bytes.Buffer
	if c.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(c.LogPath), 0755); err != nil {
			Warn.Printf("cannot create log directory for %s: %v\n", c.LogPath, err)
			res.Status = StatusFailed
			res.Err = err
			return res
		}
		logFile, err := os.Create(c.LogPath)
		if err != nil {
			Warn.Printf("cannot create %s: %v\n", c.LogPath, err)
			res.Status = StatusFailed
			res.Err = err
			return res
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	} else {
		stderr = new(bytes.Buffer)
		cmd.Stdout = os.Stdout
		cmd.Stderr = stderr
	}

	if err := cmd.Run(); err != nil {
		res.Status = StatusFailed
		res.Err = err
		if ee, ok := err.(*exec.ExitError); ok {
			res.ExitCode = ee.ExitCode()
		} else {
			res.ExitCode = -1
		}
		Warn.Printf("command '%s' returned non-zero exit status %d\n", c.String(), res.ExitCode)
		if stderr != nil && stderr.Len() > 0 {
			Warn.Println(stderr.String())
		}
		return res
	}

	return res
}
