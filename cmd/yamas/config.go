package main

import (
	"os"
	"path/filepath"
	"runtime"

	yamas "github.com/louzounlab/YaMAS"
	"github.com/spf13/viper"
	"gopkg.in/alecthomas/kingpin.v2"
)

// Shared run configuration, resolved from flags, the environment and
// the config file, in that order.
type cmdConfig struct {
	config  *string
	threads *int
}

func (cmd *cmdConfig) configFlags(clause *kingpin.CmdClause) {
	cmd.config = clause.Flag("config", "configure file name (without extension), searched in ~/.yamas and the working directory.").Default("config").String()
	cmd.threads = clause.Flag("threads", "number of threads for external tools.").Default("0").Int()
}

// ParseConfig loads the configuration file. A missing file is fine;
// every key has a flag or environment fallback.
func (cmd *cmdConfig) ParseConfig() {
	viper.SetConfigName(*cmd.config)
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".yamas"))
	}
	viper.AddConfigPath(".")
	viper.ReadInConfig()

	if *cmd.threads <= 0 {
		if n := viper.GetInt("threads"); n > 0 {
			*cmd.threads = n
		} else {
			*cmd.threads = runtime.NumCPU()
		}
	}
}

// resolveHostDB locates the host-depletion database: flag first, then
// environment, then the config file. An empty result is a fatal
// configuration error at the call site.
func resolveHostDB(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("YAMAS_HOST_DB"); env != "" {
		return env
	}
	return viper.GetString("clean_db")
}

// resolveClassifier locates the classifier artifact for the export
// phase: flag first, then the config file.
func resolveClassifier(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("classifier")
}

func dehostOptions(hostDB string, threads int) yamas.DehostOptions {
	return yamas.DehostOptions{
		HostDB:    hostDB,
		Threads:   threads,
		RunFastQC: true,
	}
}
