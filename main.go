package main

import (
	"fmt"
	"os"

	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/cmd"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/buildinfo"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/conf"
	"github.com/cpsolver/Quick-Rolling-Spectral-Transform-QRST/internal/logging"
)

// version and buildDate are set via -ldflags "-X main.version=... -X main.buildDate=..."
// at release build time; they default to buildinfo.UnknownValue otherwise.
var (
	version   string
	buildDate string
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	build := buildinfo.NewContext(version, buildDate, "")
	rootCmd := cmd.RootCommand(settings, build)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
