package yamas

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// profileCandidates lists the naming patterns a sample's taxonomic
// profile may have been stored under, in lookup order.
func profileCandidates(ctx *PipelineContext, s Sample) []string {
	candidates := []string{
		ctx.QzaPath(s.Key + "_profile.txt"),
		ctx.QzaPath(s.Key + "_1_profile.txt"),
	}
	if s.Forward != "" {
		stem := strings.TrimSuffix(filepath.Base(s.Forward), filepath.Ext(s.Forward))
		candidates = append(candidates, ctx.QzaPath(stem+"_profile.txt"))
	}
	return candidates
}

// findProfile returns the first existing candidate profile, or empty.
func findProfile(candidates []string) string {
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// RunPathways infers functional pathways per sample. Each sample needs
// its previously produced taxonomic profile; a sample without one is
// skipped with a warning and the run continues. Paired reads are
// concatenated into a temporary file that is removed afterward.
func RunPathways(ctx *PipelineContext) []StageResult {
	Info.Printf("[HUMAnN] Starting pipeline for dataset: %s\n", ctx.DatasetID)

	if err := MakeDir(ctx.HumannDir()); err != nil {
		Warn.Printf("cannot create %s: %v\n", ctx.HumannDir(), err)
		return nil
	}

	samples, err := DetectSamples(ctx.FastqDir())
	if err != nil {
		Warn.Printf("[HUMAnN] reads directory missing: %v\n", err)
		return nil
	}
	Info.Printf("[HUMAnN] Found %d samples to process.\n", len(samples))

	results := []StageResult{}
	for _, key := range SampleKeys(samples) {
		s := samples[key]
		Info.Printf("[HUMAnN] Processing sample: %s\n", key)

		candidates := profileCandidates(ctx, s)
		profile := findProfile(candidates)
		if profile == "" {
			names := []string{}
			for _, c := range candidates {
				names = append(names, filepath.Base(c))
			}
			results = append(results, Skip("humann",
				"no taxonomic profile found for "+key+" (checked: "+strings.Join(names, ", ")+")"))
			continue
		}

		input := s.Forward
		tempCat := ""
		if s.Paired() {
			tempCat = filepath.Join(ctx.HumannDir(),
				key+"_merged_"+uuid.New().String()[:8]+".fastq")
			Info.Printf("[HUMAnN] Merging paired reads to %s...\n", tempCat)
			if err := concatFiles(tempCat, s.Forward, s.Reverse); err != nil {
				Warn.Printf("[HUMAnN] cannot merge reads for %s: %v\n", key, err)
				results = append(results, StageResult{Stage: "humann", Status: StatusFailed, Err: err})
				continue
			}
			input = tempCat
		}

		results = append(results, runSingleHumann(ctx, input, profile))

		if tempCat != "" {
			if err := os.Remove(tempCat); err != nil {
				Warn.Printf("[HUMAnN] cannot remove %s: %v\n", tempCat, err)
			}
		}
	}

	return results
}

// runSingleHumann executes the pathway tool for one prepared input.
func runSingleHumann(ctx *PipelineContext, input, profile string) StageResult {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	logPath := filepath.Join(ctx.HumannDir(), stem+"_humann.log")

	cmd := &Command{Program: "humann", LogPath: logPath}
	cmd.Add("--input", input)
	cmd.Add("--output", ctx.HumannDir())
	cmd.Add("--taxonomic-profile", profile)
	cmd.Add("--threads", strconv.Itoa(ctx.Threads))
	cmd.Add("--input-format", "fastq")
	cmd.AddFlag("--remove-temp-output")

	Info.Printf("[HUMAnN] Executing: %s\n", cmd.String())
	res := cmd.Run()
	if res.OK() {
		Info.Printf("[HUMAnN] Completed %s\n", filepath.Base(input))
	}
	return res
}

// concatFiles concatenates srcs into dst in order.
func concatFiles(dst string, srcs ...string) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, src := range srcs {
		if err := appendFile(out, src); err != nil {
			return err
		}
	}
	return nil
}

func appendFile(out *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = out.ReadFrom(in)
	return err
}
