// gensignal.go the "gensignal" subcommand: synthetic linear-sweep test
// waveform generator for exercising the analyzer without recorded audio
package gensignal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/pcm"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/signalgen"
)

const defaultSampleRate = 44100

// Command creates the "gensignal" subcommand: it writes a linearly-swept
// sine waveform to a PCM file.
func Command(settings *conf.Settings) *cobra.Command {
	var sampleCount int

	cmd := &cobra.Command{
		Use:   "gensignal",
		Short: "Generate a synthetic swept-sine test waveform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(settings, sampleCount)
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.Flags().IntVar(&sampleCount, "samples", 20000, "Number of samples to generate")
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVarP(&settings.Output.Path, "output", "o", viper.GetString("output.path"), "Path to generated PCM output file")
	cmd.Flags().StringVar(&settings.Output.Format, "output-format", viper.GetString("output.format"), "Output container: raw or wav")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// Run generates sampleCount samples of the default swept sine and writes
// them to settings.Output.Path in settings.Output.Format.
func Run(settings *conf.Settings, sampleCount int) error {
	sweep, err := signalgen.NewSweep(signalgen.DefaultConfig(sampleCount))
	if err != nil {
		return err
	}

	out, err := os.Create(settings.Output.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/gensignal").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer out.Close()

	writer, err := pcm.NewWriter(out, pcm.Format(settings.Output.Format), defaultSampleRate)
	if err != nil {
		return err
	}

	for {
		sample, err := sweep.Next()
		if err != nil {
			if qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream) {
				break
			}
			return err
		}
		if err := writer.Write(sample); err != nil {
			return err
		}
	}

	return writer.Close()
}
