// Package cmd is the cobra+viper CLI surface over the recall engine,
// generalized from the teacher's root command: wememory serve (load a
// snapshot and start the HTTP façade), wememory build (the offline
// ingest -> segmentation -> embedding -> snapshot pipeline), and
// wememory stats.
package cmd

import (
	"fmt"
	"os"

	"github.com/mixuechu/wememory/pkg/config"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "wememory",
	Short: "Hybrid conversational memory recall engine",
	Long:  `wememory recalls the most relevant past conversation fragments for a natural-language cue, blending BM25 lexical scoring with dual-vector ANN search.`,
}

// Execute runs the root command, exiting with status 1 on any error per
// spec §6's exit-code convention.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./.wememory/settings.yaml)")
	rootCmd.AddCommand(serveCmd, buildCmd, statsCmd)
}

// loadConfig is the shared config-loading entry point for every
// subcommand; a load failure is a ConfigError (spec §7), fatal at
// startup.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}
