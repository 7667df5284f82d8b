// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "qrst")

	// Logging configuration
	viper.SetDefault("log.enabled", true)
	viper.SetDefault("log.path", "logs/qrst.log")
	viper.SetDefault("log.rotation", string(RotationDaily))
	viper.SetDefault("log.maxsize", int64(10*1024*1024))

	// Analyzer configuration
	viper.SetDefault("analyzer.numoctaves", MaxNumOctaves)
	viper.SetDefault("analyzer.n", DefaultEmissionCadence)
	viper.SetDefault("analyzer.enablecrossoverreduction", false)

	// Resynth configuration
	viper.SetDefault("resynth.fudgenumber", -3)
	viper.SetDefault("resynth.scaledplaybackspeed", 1.0)

	// Input/output configuration
	viper.SetDefault("input.format", "raw")
	viper.SetDefault("output.format", "raw")
	viper.SetDefault("output.compressed.path", "")
	viper.SetDefault("output.plot.path", "")

	// Metrics configuration
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen", ":9090")
}
