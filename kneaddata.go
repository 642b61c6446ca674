package yamas

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DehostOptions configure the host-read removal branch.
type DehostOptions struct {
	// HostDB is the directory holding the host genome bowtie2 index.
	// It must be set; a missing host database is a configuration
	// error and aborts the run.
	HostDB string

	Threads             int
	RunFastQC           bool
	BypassTRF           bool
	TrimmomaticAdapters string
	ExtraArgs           []string
}

// ValidateHostDB checks that the host database directory exists and
// holds bowtie2 index files.
func ValidateHostDB(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("host DB directory not found: %s "+
			"(expected a directory created by 'kneaddata_database --download human_genome bowtie2 <ROOT>')", dir)
	}
	idx, err := filepath.Glob(filepath.Join(dir, "*.bt2*"))
	if err != nil || len(idx) == 0 {
		return fmt.Errorf("no bowtie2 index files (*.bt2/*.bt2l) under: %s", dir)
	}
	return nil
}

// RunDehost removes host reads from every sample under fastq/.
// Per-sample outputs land in knead_out/<sample>/ and cleaned read
// files are copied into fastq_clean/. A failing sample is reported
// and the next sample is attempted.
func RunDehost(ctx *PipelineContext, opts DehostOptions) ([]string, error) {
	if opts.HostDB == "" {
		return nil, fmt.Errorf("host DB path is not set: set YAMAS_HOST_DB, " +
			"the clean_db config key, or the --host-db flag")
	}
	if err := ValidateHostDB(opts.HostDB); err != nil {
		return nil, err
	}
	if _, err := os.Stat(ctx.FastqDir()); err != nil {
		return nil, fmt.Errorf("FASTQ folder not found: %s", ctx.FastqDir())
	}
	if err := MakeDir(ctx.KneadOutDir()); err != nil {
		return nil, err
	}
	if err := MakeDir(ctx.FastqCleanDir()); err != nil {
		return nil, err
	}

	samples, err := DetectSamples(ctx.FastqDir())
	if err != nil {
		return nil, err
	}

	cleaned := []string{}
	for _, key := range SampleKeys(samples) {
		s := samples[key]
		if len(s.Extra) > 0 {
			Warn.Printf("sample %s has unexpected extra read files: %s\n",
				key, strings.Join(s.Extra, ", "))
		}

		outDir := filepath.Join(ctx.KneadOutDir(), key)
		if err := MakeDir(outDir); err != nil {
			Warn.Printf("cannot create %s: %v\n", outDir, err)
			continue
		}

		cmd := &Command{Program: "kneaddata", LogPath: filepath.Join(outDir, "kneaddata.log")}
		cmd.Add("--threads", strconv.Itoa(opts.Threads))
		cmd.Add("--reference-db", opts.HostDB)
		cmd.Add("--output", outDir)
		if opts.RunFastQC {
			cmd.AddFlag("--run-fastqc-start")
			cmd.AddFlag("--run-fastqc-end")
		}
		if opts.BypassTRF {
			cmd.AddFlag("--bypass-trf")
		}
		if opts.TrimmomaticAdapters != "" {
			cmd.Add("--trimmomatic", "trimmomatic")
			cmd.Add("--trimmomatic-options",
				fmt.Sprintf("ILLUMINACLIP:%s:2:30:10", opts.TrimmomaticAdapters))
		}
		for _, a := range opts.ExtraArgs {
			cmd.AddFlag(a)
		}
		if s.Paired() {
			cmd.Add("--input1", s.Forward)
			cmd.Add("--input2", s.Reverse)
		} else {
			cmd.Add("--unpaired", s.Forward)
		}

		Info.Printf("[KneadData] Running: %s\n", cmd.String())
		cmd.Run()

		cleaned = append(cleaned, collectCleaned(outDir, ctx.FastqCleanDir())...)
	}

	return cleaned, nil
}

// collectCleaned copies the kneaddata read outputs of one sample into
// the shared fastq_clean/ directory.
func collectCleaned(outDir, cleanDir string) []string {
	patterns := []string{
		"*_kneaddata*.fastq", "*_kneaddata*.fastq.gz",
		"*_kneaddata*.fq", "*_kneaddata*.fq.gz",
	}
	copied := []string{}
	for _, pattern := range patterns {
		matches, _ := filepath.Glob(filepath.Join(outDir, pattern))
		for _, src := range matches {
			dst := filepath.Join(cleanDir, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				Warn.Printf("cannot copy %s: %v\n", src, err)
				continue
			}
			copied = append(copied, dst)
		}
	}
	return copied
}

// SwapCleanedReads replaces the active fastq/ files with the cleaned
// copies, backing the raw reads up to fastq_raw/ (or deleting them).
// When the cleaning produced nothing the raw reads stay in place.
func SwapCleanedReads(ctx *PipelineContext, backup bool) error {
	if dirEmpty(ctx.FastqCleanDir()) {
		Warn.Println("Cleaning pipeline produced no output. Using raw reads.")
		return nil
	}

	if backup {
		if err := MakeDir(ctx.FastqRawDir()); err != nil {
			return err
		}
		for _, f := range listFiles(ctx.FastqDir()) {
			src := filepath.Join(ctx.FastqDir(), f)
			if err := os.Rename(src, filepath.Join(ctx.FastqRawDir(), f)); err != nil {
				return err
			}
		}
	} else {
		for _, f := range listFiles(ctx.FastqDir()) {
			if err := os.Remove(filepath.Join(ctx.FastqDir(), f)); err != nil {
				return err
			}
		}
	}

	swapped := 0
	for _, name := range listFiles(ctx.FastqCleanDir()) {
		ext := filepath.Ext(name)
		if ext != ".fastq" && ext != ".fq" {
			continue
		}
		src := filepath.Join(ctx.FastqCleanDir(), name)

		switch {
		case strings.Contains(name, "paired_1"):
			clean := strings.Split(name, "_kneaddata")[0] + "_1.fastq"
			if err := copyFile(src, filepath.Join(ctx.FastqDir(), clean)); err != nil {
				return err
			}
			swapped++
		case strings.Contains(name, "paired_2"):
			clean := strings.Split(name, "_kneaddata")[0] + "_2.fastq"
			if err := copyFile(src, filepath.Join(ctx.FastqDir(), clean)); err != nil {
				return err
			}
			swapped++
		case strings.Contains(name, "_1.fastq") && !strings.Contains(name, "paired"):
			if err := copyFile(src, filepath.Join(ctx.FastqDir(), name)); err != nil {
				return err
			}
			swapped++
		}
	}

	Info.Printf("Swapped %d cleaned paired files into active fastq folder.\n", swapped)
	return nil
}

// RunCleaning runs the full host-depletion branch: kneaddata over all
// samples, then the swap of cleaned reads into fastq/.
func RunCleaning(ctx *PipelineContext, opts DehostOptions, backup bool) error {
	if _, err := RunDehost(ctx, opts); err != nil {
		return err
	}
	return SwapCleanedReads(ctx, backup)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
