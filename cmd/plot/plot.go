// plot.go the "plot" subcommand: the spectrum/compressor driver. It runs
// the analyzer once and both accumulates a TSV spectrogram and (optionally)
// writes the same compressed tuple stream cmd/analyze produces.
package plot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/logging"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/pcm"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrst"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrstfmt"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/spectrogram"
)

const wireChannel = 1

// Command creates the "plot" subcommand: it analyzes a waveform file and
// writes a tab-separated frequency/time amplitude table suitable for
// plotting, optionally alongside the compressed tuple stream in the same
// single pass over the input.
func Command(settings *conf.Settings) *cobra.Command {
	var cyclesPerTimeSegment int

	cmd := &cobra.Command{
		Use:   "plot [input]",
		Short: "Analyze a waveform file and write a TSV spectrogram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			return Run(settings, cyclesPerTimeSegment)
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.Flags().IntVar(&cyclesPerTimeSegment, "cycles-per-column", 128*8, "Input samples covered by each plotted time column")
	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVarP(&settings.Output.Plot.Path, "output", "o", viper.GetString("output.plot.path"), "Path to TSV spectrogram output file")
	cmd.Flags().StringVar(&settings.Output.Compressed.Path, "compressed-output", viper.GetString("output.compressed.path"), "Optional path to also write the compressed tuple stream")
	cmd.Flags().StringVar(&settings.Input.Format, "input-format", viper.GetString("input.format"), "Input container: raw or wav")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// Run analyzes settings.Input.Path and writes the TSV spectrogram to
// settings.Output.Plot.Path. When settings.Output.Compressed.Path is also
// set, the same analyzer pass additionally writes the compressed tuple
// stream, so one read of the input serves both outputs.
func Run(settings *conf.Settings, cyclesPerTimeSegment int) error {
	log := logging.ForService("qrst-plot")
	if log == nil {
		log = slog.Default()
	}

	in, err := os.Open(settings.Input.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/plot").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer in.Close()

	reader, err := pcm.NewReader(in, pcm.Format(settings.Input.Format))
	if err != nil {
		return err
	}

	accum, err := spectrogram.NewAccumulator(spectrogram.Config{CyclesPerTimeSegment: cyclesPerTimeSegment})
	if err != nil {
		return err
	}

	analyzer, err := qrst.NewAnalyzer(qrst.Config{
		NumOctaves:               settings.Analyzer.NumOctaves,
		N:                        settings.Analyzer.N,
		EnableCrossoverReduction: settings.Analyzer.EnableCrossoverReduction,
	})
	if err != nil {
		return err
	}

	var tracker *qrstfmt.ChangeTracker
	var compressedOut *os.File
	if settings.Output.Compressed.Path != "" {
		compressedOut, err = os.Create(settings.Output.Compressed.Path)
		if err != nil {
			return qrsterrors.New(err).Component("cmd/plot").Category(qrsterrors.CategoryAudioIO).Build()
		}
		defer compressedOut.Close()
		tracker = qrstfmt.NewChangeTracker(qrstfmt.NewEncoder(compressedOut), wireChannel, settings.Analyzer.N)
	}

	var processed int
	for {
		sample, err := reader.Next()
		if err != nil {
			if qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream) {
				break
			}
			return err
		}

		for _, report := range analyzer.Process(sample) {
			accum.AddReport(report)
			if tracker != nil {
				if err := tracker.Submit(report.Octave, report.Wavelength, report.Amplitude); err != nil {
					return err
				}
			}
		}
		accum.Tick()
		if tracker != nil {
			tracker.Advance()
		}
		processed++
	}

	if tracker != nil {
		if err := tracker.Flush(); err != nil {
			return err
		}
	}

	plotOut, err := os.Create(settings.Output.Plot.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/plot").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer plotOut.Close()

	if err := accum.WriteTSV(plotOut); err != nil {
		return err
	}

	log.Info("plot complete", "instance", analyzer.ID(), "samples_processed", processed)
	return nil
}
