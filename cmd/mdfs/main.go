package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
}

func (c *rootCmdConfig) Logf(format string, a ...interface{}) {
	logger(c.verbose).Logf(format, a...)
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mdfs",
		Short: "mdfs computes multidimensional information gains over a feature matrix",
		Long:  `A tool to discretise numeric data and rank feature k-subsets by how much joint information they carry about a decision column.`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), runCmd(config))
	return rootCmd
}
