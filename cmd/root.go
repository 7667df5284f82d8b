// root.go viper root command code
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/cmd/analyze"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/cmd/gensignal"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/cmd/plot"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/cmd/resynth"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/buildinfo"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	// Create the root command
	rootCmd := &cobra.Command{
		Use:     "qrst",
		Short:   "Quick Rolling Spectral Transform CLI",
		Version: fmt.Sprintf("%s (built %s)", build.Version(), build.BuildDate()),
	}

	// Set up the global flags for the root command.
	err := setupFlags(rootCmd, settings)
	if err != nil {
		log.Printf("error setting up flags: %v\n", err)
	}

	// Add sub-commands to the root command.
	analyzeCmd := analyze.Command(settings)
	resynthCmd := resynth.Command(settings)
	gensignalCmd := gensignal.Command(settings)
	plotCmd := plot.Command(settings)

	rootCmd.AddCommand(analyzeCmd, resynthCmd, gensignalCmd, plotCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().IntVar(&settings.Analyzer.NumOctaves, "num-octaves", viper.GetInt("analyzer.numoctaves"), "Number of active octaves, counting down from octave 15, 1..15")
	rootCmd.PersistentFlags().IntVar(&settings.Analyzer.N, "n", viper.GetInt("analyzer.n"), "Emission cadence in octave-local samples, >= 8")

	// Bind flags to the viper settings
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
