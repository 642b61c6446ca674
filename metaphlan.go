package yamas

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/cheggaaa/pb.v1"
)

// Reference index pinned for compatibility with the downstream
// pathway-inference tool.
const metaphlanIndex = "mpa_vJun23_CHOCOPhlAnSGB_202307"

// ProfileSamples runs the taxonomic profiler over every sample under
// fastq/, writing per-sample profiles into qza/. Paired mates are
// passed as one comma-joined input. Failures are reported per sample
// and the remaining samples are still profiled.
func ProfileSamples(ctx *PipelineContext, reads ReadSet) []StageResult {
	if err := MakeDir(ctx.ExportDir()); err != nil {
		Warn.Printf("cannot create %s: %v\n", ctx.ExportDir(), err)
	}

	fastqs := []string{}
	for _, f := range listFiles(ctx.FastqDir()) {
		if strings.HasSuffix(f, ".fastq") {
			fastqs = append(fastqs, f)
		}
	}

	results := []StageResult{}
	threads := strconv.Itoa(ctx.Threads)

	if reads.Paired() {
		forward := []string{}
		for _, f := range fastqs {
			if strings.Contains(f, "_1.fastq") {
				forward = append(forward, f)
			}
		}

		bar := pb.StartNew(len(forward))
		for _, f1 := range forward {
			name := strings.Replace(f1, "_1.fastq", "", 1)
			p1 := filepath.Join(ctx.FastqDir(), f1)
			p2 := filepath.Join(ctx.FastqDir(), name+"_2.fastq")
			if _, err := os.Stat(p2); err != nil {
				bar.Increment()
				continue
			}

			cmd := &Command{Program: "metaphlan", Args: []string{p1 + "," + p2}}
			cmd.Add("--input_type", "fastq")
			cmd.Add("--nproc", threads)
			cmd.Add("--bowtie2out", filepath.Join(ctx.FastqDir(), name+".bowtie2.bz2"))
			cmd.AddOutput("-o", ctx.QzaPath(name+"_profile.txt"))
			cmd.Add("--index", metaphlanIndex)
			results = append(results, cmd.Run())
			bar.Increment()
		}
		bar.Finish()
		return results
	}

	bar := pb.StartNew(len(fastqs))
	for _, f := range fastqs {
		cmd := &Command{Program: "metaphlan", Args: []string{filepath.Join(ctx.FastqDir(), f)}}
		cmd.Add("--input_type", "fastq")
		cmd.Add("--nproc", threads)
		cmd.Add("--bowtie2out", filepath.Join(ctx.FastqDir(), f+".bowtie2.bz2"))
		cmd.AddOutput("-o", ctx.QzaPath(f+"_profile.txt"))
		cmd.Add("--index", metaphlanIndex)
		results = append(results, cmd.Run())
		bar.Increment()
	}
	bar.Finish()
	return results
}

// MergeProfiles combines every per-sample profile under qza/ into one
// tab-separated table at export/<dataset>_final.txt, clades as rows
// and samples as columns, absent clades filled with zero.
func MergeProfiles(ctx *PipelineContext) error {
	profiles, err := filepath.Glob(ctx.QzaPath("*_profile.txt"))
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		Warn.Println("no taxonomic profiles found to merge")
		return nil
	}
	sort.Strings(profiles)

	abundance := make(map[string]map[string]string)
	samples := []string{}
	for _, path := range profiles {
		sample := strings.TrimSuffix(filepath.Base(path), "_profile.txt")
		samples = append(samples, sample)
		if err := readProfile(path, sample, abundance); err != nil {
			Warn.Printf("cannot read profile %s: %v\n", path, err)
		}
	}

	clades := []string{}
	for c := range abundance {
		clades = append(clades, c)
	}
	sort.Strings(clades)

	if err := MakeDir(ctx.ExportDir()); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(ctx.ExportDir(), ctx.DatasetID+"_final.txt"))
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	w.WriteString("clade_name\t" + strings.Join(samples, "\t") + "\n")
	for _, clade := range clades {
		row := []string{clade}
		for _, sample := range samples {
			v := abundance[clade][sample]
			if v == "" {
				v = "0"
			}
			row = append(row, v)
		}
		w.WriteString(strings.Join(row, "\t") + "\n")
	}

	return nil
}

// readProfile scans one profiler output: comment lines are skipped,
// data lines carry clade name first and relative abundance third.
func readProfile(path, sample string, abundance map[string]map[string]string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 || fields[0] == "clade_name" {
			continue
		}
		if abundance[fields[0]] == nil {
			abundance[fields[0]] = make(map[string]string)
		}
		abundance[fields[0]][sample] = fields[2]
	}
	return sc.Err()
}
