// analyze.go the "analyze" subcommand: waveform file in, compressed QRST
// tuple stream out
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	qrsterrors "github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/errors"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/logging"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/pcm"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrst"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/qrstfmt"
)

const (
	wireChannel    = 1
	sampleChanSize = 4096
)

// Command creates the "analyze" subcommand: it runs the QRST cascade over
// an input waveform and writes the compressed tuple stream.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [input]",
		Short: "Analyze a waveform file into a compressed QRST tuple stream",
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
	cmd.Flags().StringVarP(&settings.Output.Compressed.Path, "output", "o", viper.GetString("output.compressed.path"), "Path to compressed QRST tuple-stream output file")
	cmd.Flags().StringVar(&settings.Input.Format, "input-format", viper.GetString("input.format"), "Input container: raw or wav")
	cmd.Flags().BoolVar(&settings.Metrics.Enabled, "metrics", viper.GetBool("metrics.enabled"), "Serve a Prometheus /metrics endpoint while analyzing")
	cmd.Flags().StringVar(&settings.Metrics.Listen, "metrics-listen", viper.GetString("metrics.listen"), "Address for the /metrics endpoint")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

// Run drives the full analyze pipeline: it opens the input file, constructs
// an Analyzer from settings, and pipes every emitted report through a
// qrstfmt.ChangeTracker into the compressed output file. Reading ahead and
// processing are split across goroutines joined by an errgroup so a slow
// disk read never stalls the single-threaded Analyzer's own bookkeeping, but
// every sample still reaches Process in strict order.
func Run(ctx context.Context, settings *conf.Settings) error {
	log := logging.ForService("qrst-analyze")
	if log == nil {
		log = slog.Default()
	}

	if settings.Metrics.Enabled {
		stopMetrics := serveMetrics(settings.Metrics.Listen, log)
		defer stopMetrics()
	}

	in, err := os.Open(settings.Input.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/analyze").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer in.Close()

	reader, err := pcm.NewReader(in, pcm.Format(settings.Input.Format))
	if err != nil {
		return err
	}

	out, err := os.Create(settings.Output.Compressed.Path)
	if err != nil {
		return qrsterrors.New(err).Component("cmd/analyze").Category(qrsterrors.CategoryAudioIO).Build()
	}
	defer out.Close()

	enc := qrstfmt.NewEncoder(out)
	tracker := qrstfmt.NewChangeTracker(enc, wireChannel, settings.Analyzer.N)

	analyzer, err := qrst.NewAnalyzer(qrst.Config{
		NumOctaves:               settings.Analyzer.NumOctaves,
		N:                        settings.Analyzer.N,
		EnableCrossoverReduction: settings.Analyzer.EnableCrossoverReduction,
	})
	if err != nil {
		return err
	}

	group, gctx := errgroup.WithContext(ctx)
	samples := make(chan int16, sampleChanSize)

	group.Go(func() error {
		defer close(samples)
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			sample, err := reader.Next()
			if err != nil {
				if qrsterrors.IsCategory(err, qrsterrors.CategoryEndOfStream) {
					return nil
				}
				return err
			}
			select {
			case samples <- sample:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var processed int
	group.Go(func() error {
		for sample := range samples {
			for _, report := range analyzer.Process(sample) {
				if err := tracker.Submit(report.Octave, report.Wavelength, report.Amplitude); err != nil {
					return err
				}
			}
			tracker.Advance()
			processed++
		}
		return tracker.Flush()
	})

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("analysis complete", "instance", analyzer.ID(), "samples_processed", processed)
	return nil
}

func serveMetrics(addr string, log interface {
	Error(string, ...any)
}) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", "error", err)
		}
	}()
	return func() {
		_ = srv.Close()
	}
}
