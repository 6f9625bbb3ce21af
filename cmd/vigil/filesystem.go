package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vigilsec/vigil/config"
	"github.com/vigilsec/vigil/executor"
	"github.com/vigilsec/vigil/inspect"
	"github.com/vigilsec/vigil/report"
	"github.com/vigilsec/vigil/rules"
	"github.com/vigilsec/vigil/source"
)

func newFilesystemCmd() *cobra.Command {
	f := &commonFlags{}
	var path string

	cmd := &cobra.Command{
		Use:   "filesystem",
		Short: "Scan a directory on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("--path is required")
			}
			insp, err := buildInspector(f.configPath)
			if err != nil {
				return err
			}

			fsProvider := source.NewFileSystem(path)
			branches, filter := f.branchSelection()

			printBanner()
			exec := executor.New(fsProvider, insp, f.walkerOptions(), branches, filter, 0)
			rep := report.New(os.Stdout, f.format(), f.dedup)

			sink := make(chan report.Input)
			done := make(chan struct{})
			go func() {
				rep.Run(sink)
				close(done)
			}()

			if err := exec.Run(sink); err != nil {
				logger.Warn("source error", "err", err)
			}
			<-done
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "directory to scan (required)")
	_ = cmd.MarkFlagRequired("path")
	addCommonFlags(cmd, f)
	return cmd
}

func buildInspector(configPath string) (*inspect.Inspector, error) {
	schemas, err := config.LoadRuleSchemas(configPath)
	if err != nil {
		return nil, err
	}
	rs, err := rules.Compile(schemas)
	if err != nil {
		if len(rs.Rules) == 0 {
			return nil, fmt.Errorf("compile rules: %w", err)
		}
		logger.Warn("some rules failed to compile", "err", err)
	}
	return inspect.New(rs), nil
}
