// resynth.go the "resynth" subcommand: compressed QRST tuple stream in,
// reconstructed PCM waveform out
package resynth

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/logging"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/pcm"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrstfmt"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/resynth"
)

const defaultSampleRate = 44100

// Command creates the "resynth" subcommand: it drives the oscillator bank
// from a compressed tuple stream and writes a reconstructed 16-bit PCM
// waveform.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resynth [input.qrst]",
		Short: "Resynthesize a compressed QRST tuple stream back into PCM audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
			go func() {
				sig := <-sigChan
				fmt.Printf("\nreceived signal %v, initiating graceful shutdown...\n", sig)
				cancel()
			}()

			settings.Input.Path = args[0]
			return Run(ctx, settings)
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVarP(&settings.Output.Path, "output", "o", viper.GetString("output.path"), "Path to reconstructed PCM output file")
	cmd.Flags().StringVar(&settings.Output.Format, "output-format", viper.GetString("output.format"), "Output container: raw or wav")
	cmd.Flags().IntVar(&settings.Resynth.FudgeNumber, "fudge-number", viper.GetInt("resynth.fudgenumber"), "Pitch calibration constant (default -3)")
	cmd.Flags().Float64Var(&settings.Resynth.ScaledPlaybackSpeed, "playback-speed", viper.GetFloat64("resynth.scaledplaybackspeed"), "Multiplier applied to accumulated delay before ticks advance")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// Run drives the full resynthesize pipeline: it reads compressed Records
// until EndOfStream or TruncatedRecord, queues each record's delay and
// applies its update to the oscillator bank at the appropriate tick, then
// flushes any still-decaying oscillators to silence before closing the
// output.
func Run(ctx context.Context, settings *conf.Settings) error {
	log := logging.ForService("qrst-resynth")
	if log == nil {
		log = slog.Default()
	}

	in, err := os.Open(settings.Input.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/resynth").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer in.Close()

	out, err := os.Create(settings.Output.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/resynth").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer out.Close()

	writer, err := pcm.NewWriter(out, pcm.Format(settings.Output.Format), defaultSampleRate)
	if err != nil {
		return err
	}

	synth, err := resynth.NewResynthesizer(resynth.Config{
		FudgeNumber:   settings.Resynth.FudgeNumber,
		PlaybackSpeed: settings.Resynth.ScaledPlaybackSpeed,
	})
	if err != nil {
		return err
	}

	dec := qrstfmt.NewDecoder(in)

	stats, err := resynth.Run(ctx, synth, dec, writer.Write)
	if err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return err
	}

	log.Info("resynthesis complete", "instance", synth.ID(), "records_applied", stats.RecordsApplied, "truncated", stats.Truncated)
	return nil
}
