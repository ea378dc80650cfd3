// Package main implements a CLI tool that bumps the version in
// library.properties, commits and pushes the change to the upstream and
// origin remotes, and creates a GitHub release using gh.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	release "github.com/basicmicrosupport/arduinorelease/pkg"
)

var Version = "development"

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if errors.Is(err, release.ErrAborted) {
			fmt.Println("Aborted.")
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var chdir string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "arduinorelease",
		Short: "Release a new version of the BasicMicro Arduino library",
		Long: `arduinorelease bumps the version in library.properties, commits and
pushes the change to the upstream (acidtech) and origin (basicmicrosupport)
remotes, and creates a GitHub release on the public repository.

All decisions are made through interactive prompts.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(chdir)
			if err != nil {
				return err
			}

			log := zap.NewNop().Sugar()
			if verbose {
				zapConfig := zap.NewDevelopmentConfig()
				zapConfig.OutputPaths = []string{"stdout"}
				logger, err := zapConfig.Build()
				if err != nil {
					return err
				}
				defer logger.Sync() //nolint:errcheck
				log = logger.Sugar()
			}

			workflow := &release.Workflow{
				Config:      cfg,
				Runner:      release.NewExecRunner(cfg.Dir, log),
				Prompt:      release.NewTermPrompter(os.Stdin, os.Stdout),
				Out:         os.Stdout,
				Log:         log,
				Interactive: term.IsTerminal(int(os.Stdout.Fd())),
			}
			return workflow.Run(context.Background())
		},
	}

	cmd.Flags().StringVarP(&chdir, "chdir", "C", "", "run as if started in this directory")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every external command")
	return cmd
}

// loadConfig layers environment overrides over the fixed release defaults.
// Every key can be set as ARDUINORELEASE_<KEY>, e.g. ARDUINORELEASE_BRANCH.
func loadConfig(chdir string) (release.Config, error) {
	defaults := release.DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("arduinorelease")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("properties_file", defaults.PropertiesFile)
	v.SetDefault("branch", defaults.Branch)
	v.SetDefault("release_repo", defaults.ReleaseRepo)
	v.SetDefault("upstream_url", defaults.Remotes[0].URL)
	v.SetDefault("origin_url", defaults.Remotes[1].URL)

	dir := chdir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return release.Config{}, err
		}
		dir = wd
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return release.Config{}, fmt.Errorf("not a directory: %s", dir)
	}

	return release.Config{
		Dir:            dir,
		PropertiesFile: v.GetString("properties_file"),
		Branch:         v.GetString("branch"),
		Remotes: []release.Remote{
			{Name: "upstream", URL: v.GetString("upstream_url")},
			{Name: "origin", URL: v.GetString("origin_url")},
		},
		ReleaseRepo: v.GetString("release_repo"),
	}, nil
}
