package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/vigilsec/vigil/executor"
	"github.com/vigilsec/vigil/report"
	"github.com/vigilsec/vigil/source"
)

func newGitCmd() *cobra.Command {
	f := &commonFlags{}
	var url, path string

	cmd := &cobra.Command{
		Use:   "git",
		Short: "Scan a git repository, local or remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			insp, err := buildInspector(f.configPath)
			if err != nil {
				return err
			}

			var src source.Provider
			switch {
			case url != "":
				src, err = source.NewRemoteGit(url)
			case path != "":
				src, err = source.NewLocalGit(path)
			default:
				return errors.New("either --url or --path is required")
			}
			if err != nil {
				return err
			}

			branches, filter := f.branchSelection()
			printBanner()
			exec := executor.New(src, insp, f.walkerOptions(), branches, filter, 0)
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

	cmd.Flags().StringVar(&url, "url", "", "remote repository URL to clone")
	cmd.Flags().StringVar(&path, "path", "", "local repository path to discover")
	addCommonFlags(cmd, f)
	return cmd
}
