package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vigilsec/vigil/config"
	"github.com/vigilsec/vigil/report"
	"github.com/vigilsec/vigil/walker"
)

// commonFlags holds the flags shared by both subcommands (spec §6,
// "CLI surface"). --nodeps is accepted for CLI-shape parity with the
// original but has no effect: this core never shells out to a package
// manager.
type commonFlags struct {
	configPath   string
	omit         string
	dedup        int
	nodeps       bool
	scanLocal    bool
	scanRemote   bool
	branches     string
	scanArchives bool
	scanBinary   bool
	jsonOut      bool
	yamlOut      bool
}

func addCommonFlags(cmd *cobra.Command, f *commonFlags) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "path to the rule schema YAML file (required)")
	cmd.Flags().StringVar(&f.omit, "omit", "", "space-separated list of path substrings to skip")
	cmd.Flags().IntVar(&f.dedup, "dedup", 0, "dedup policy: 0=none, 1=by file+line+branch, 2=by file+line")
	cmd.Flags().BoolVar(&f.nodeps, "nodeps", false, "accepted for CLI-shape parity; has no effect")
	cmd.Flags().BoolVar(&f.scanLocal, "scan-local", false, "enumerate local git branches")
	cmd.Flags().BoolVar(&f.scanRemote, "scan-remote", false, "enumerate remote-tracking git branches")
	cmd.Flags().StringVar(&f.branches, "branches", "", "comma-separated branch allowlist")
	cmd.Flags().BoolVar(&f.scanArchives, "scan-archives", false, "expand zip/tar/gz/jar/bz2 archives")
	cmd.Flags().BoolVar(&f.scanBinary, "scan-binary", false, "lossily decode non-UTF-8 files instead of skipping them")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "emit JSON output")
	cmd.Flags().BoolVar(&f.yamlOut, "yaml", false, "emit YAML output")
	_ = cmd.MarkFlagRequired("config")
}

func (f *commonFlags) walkerOptions() walker.Options {
	var omit []string
	if f.omit != "" {
		omit = strings.Fields(f.omit)
	}
	return walker.Options{
		Omit:         omit,
		ScanArchives: f.scanArchives,
		ScanBinary:   f.scanBinary,
	}
}

func (f *commonFlags) branchSelection() (config.Branches, []string) {
	var list []string
	if f.branches != "" {
		list = strings.Split(f.branches, ",")
	}
	switch {
	case f.scanLocal && f.scanRemote:
		return config.All, list
	case f.scanLocal:
		return config.Local, list
	case f.scanRemote:
		return config.Remote, list
	default:
		return config.Head, list
	}
}

func (f *commonFlags) format() report.Format {
	switch {
	case f.jsonOut:
		return report.FormatJSON
	case f.yamlOut:
		return report.FormatYAML
	default:
		return report.FormatText
	}
}
