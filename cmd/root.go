// Package cmd provides the lvlspec command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lvlspec",
	Short: "lvlspec - level-spacing statistics of pruned network spectra",
	Long: `lvlspec unfolds eigenvalue ensembles, builds nearest-neighbour spacing
histograms and tracks their KL divergence from the Poisson law as network
edges are removed in order of betweenness.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
