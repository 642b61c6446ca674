package yamas

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/cheggaaa/pb.v1"
)

// Prefetch downloads the accessions listed in accList into the run's
// sra/ directory, then sweeps stray downloads out of the local NCBI
// repository. Some prefetch builds ignore --output-directory and write
// to the repository root instead.
func Prefetch(ctx *PipelineContext, accList string) StageResult {
	cmd := &Command{Program: "prefetch"}
	cmd.Add("--option-file", accList)
	cmd.Add("--output-directory", ctx.SraDir())
	cmd.Add("--max-size", "100G")
	res := cmd.Run()

	moveRepositoryFiles(ctx)
	return res
}

// moveRepositoryFiles moves *.sra files from the NCBI repository root
// (NCBI_VDB_REPOSITORY_ROOT, default ~/ncbi) into the run's sra/ dir.
func moveRepositoryFiles(ctx *PipelineContext) {
	root := os.Getenv("NCBI_VDB_REPOSITORY_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		root = filepath.Join(home, "ncbi")
	}

	srcDir := filepath.Join(root, "public", "sra")
	files, err := filepath.Glob(filepath.Join(srcDir, "*.sra"))
	if err != nil || len(files) == 0 {
		return
	}
	for _, src := range files {
		dst := filepath.Join(ctx.SraDir(), filepath.Base(src))
		if err := os.Rename(src, dst); err != nil {
			Warn.Printf("cannot move %s: %v\n", src, err)
			continue
		}
		Info.Printf("moved %s -> %s\n", src, dst)
	}
}

// ConvertToFastq converts every downloaded archive under sra/ into
// read files under fastq/, then probes the result for pairing. With
// asSingle, reverse read files are deleted and the run proceeds
// single-end.
func ConvertToFastq(ctx *PipelineContext, asSingle bool) ReadSet {
	Info.Println("converting files from .sra to .fastq.")
	reads := ReadSet{DirPath: ctx.BaseDir, Fwd: true}

	sraEntries, err := os.ReadDir(ctx.SraDir())
	if err != nil {
		if !dirEmpty(ctx.FastqDir()) {
			return probePairing(ctx, asSingle)
		}
		Warn.Println("SRA directory missing and no FastQ files found.")
		return reads
	}

	bar := pb.StartNew(len(sraEntries))
	bar.Prefix("converted files")
	for _, entry := range sraEntries {
		target := filepath.Join(ctx.SraDir(), entry.Name())
		if entry.IsDir() {
			// prefetch nests each accession in its own directory.
			nested := listFiles(target)
			if len(nested) == 0 {
				bar.Increment()
				continue
			}
			target = filepath.Join(target, nested[0])
		}

		cmd := &Command{Program: "fasterq-dump"}
		cmd.Args = []string{"--split-files", target}
		cmd.Add("-O", ctx.FastqDir())
		cmd.Run()
		bar.Increment()
	}
	bar.Finish()

	return probePairing(ctx, asSingle)
}

// probePairing inspects the first few converted files and decides
// whether the dataset is paired-end: any name prefix seen twice means
// forward/reverse mates were split out.
func probePairing(ctx *PipelineContext, asSingle bool) ReadSet {
	reads := ReadSet{DirPath: ctx.BaseDir, Fwd: true}

	fastqs := []string{}
	for _, f := range listFiles(ctx.FastqDir()) {
		if strings.HasSuffix(f, ".fastq") || strings.HasSuffix(f, ".fq") {
			fastqs = append(fastqs, f)
		}
	}
	if len(fastqs) == 0 {
		return reads
	}
	if len(fastqs) > 3 {
		fastqs = fastqs[:3]
	}

	counts := make(map[string]int)
	for _, f := range fastqs {
		counts[strings.Split(f, "_")[0]]++
	}
	paired := false
	for _, c := range counts {
		if c == 2 {
			paired = true
		}
	}
	if !paired {
		return reads
	}

	if asSingle {
		reverse, _ := filepath.Glob(filepath.Join(ctx.FastqDir(), "*_2.fastq"))
		for _, f := range reverse {
			if err := os.Remove(f); err != nil {
				Warn.Printf("cannot remove %s: %v\n", f, err)
			}
		}
		Info.Println("Single reads requested - reverse reads deleted.")
		return reads
	}

	reads.Rev = true
	return reads
}
