// conf/config.go
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// Settings holds the full configuration surface for the QRST CLI.
type Settings struct {
	Debug bool // true to enable debug mode

	Main struct {
		Name string // name of this QRST node, useful when comparing logs from multiple instances
	}

	Log LogConfig

	// Analyzer configures the QRST cascade.
	Analyzer struct {
		NumOctaves               int  // count of active octaves, counting down from octave 15, 1..15
		N                        int  // emission cadence, samples per wavelength/amplitude report, >= 8
		EnableCrossoverReduction bool // apply the (disabled-by-default) overlap crossover amplitude reduction
	}

	// Resynth configures the resynthesizer.
	Resynth struct {
		FudgeNumber         int     // pitch calibration constant, default -3
		ScaledPlaybackSpeed float64 // multiplier applied to accumulated delay before oscillator ticks advance
	}

	Input struct {
		Path   string // path to input file
		Format string // "raw" (headerless 16-bit LE PCM) or "wav"
	}

	Output struct {
		Path       string // path to output PCM/WAV file (resynthesizer)
		Format     string // "raw" or "wav"
		Compressed struct {
			Path string // path to compressed tuple-stream file (analyzer -> resynthesizer)
		}
		Plot struct {
			Path string // path to TSV spectrum plot file
		}
	}

	Metrics struct {
		Enabled bool   // true to serve a Prometheus /metrics endpoint
		Listen  string // address to listen on, e.g. ":9090"
	}
}

// LogConfig defines the configuration for a log file.
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // Path to the log file
	Rotation    RotationType // Type of log rotation
	MaxSize     int64        // Max size in bytes for RotationSize
	RotationDay time.Weekday // Day of the week for RotationWeekly
}

// RotationType defines different types of log rotations.
type RotationType string

const (
	RotationDaily  RotationType = "daily"
	RotationWeekly RotationType = "weekly"
	RotationSize   RotationType = "size"
)

// buildDate is the time when the binary was built.
var buildDate string

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into a fresh Settings value.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	settingsInstance = settings
	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		return fmt.Errorf("error configuring environment variables: %w", err)
	}

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	fmt.Printf("qrst build date: %s, using config file: %s\n", buildDate, viper.ConfigFileUsed())

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	fmt.Println("Created default config file at:", configPath)
	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	return string(data)
}

// GetSettings returns the current settings instance.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveSettings saves the current settings to the YAML file.
func SaveSettings() error {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()

	settingsMap, err := structToMap(settingsInstance)
	if err != nil {
		return fmt.Errorf("error converting settings to map: %w", err)
	}

	if err := viper.MergeConfigMap(settingsMap); err != nil {
		return fmt.Errorf("error merging settings with viper: %w", err)
	}

	return viper.WriteConfig()
}

// UpdateSettings updates the settings in memory and persists them to the YAML file.
func UpdateSettings(newSettings *Settings) error {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := validateSettings(newSettings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settingsInstance = newSettings

	settingsMap, err := structToMap(newSettings)
	if err != nil {
		return fmt.Errorf("error converting settings to map: %w", err)
	}

	if err := viper.MergeConfigMap(settingsMap); err != nil {
		return fmt.Errorf("error merging settings with viper: %w", err)
	}

	return viper.WriteConfig()
}

// Setting returns the current settings instance, initializing it if necessary.
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			_, err := Load()
			if err != nil {
				log.Fatalf("Error loading settings: %v", err)
			}
		}
	})
	return GetSettings()
}

// validateSettings rejects settings that would violate the analyzer's parameter invariants.
func validateSettings(s *Settings) error {
	if s.Analyzer.N != 0 && s.Analyzer.N < MinEmissionCadence {
		return fmt.Errorf("analyzer.n must be >= %d, got %d", MinEmissionCadence, s.Analyzer.N)
	}
	if s.Analyzer.NumOctaves != 0 && (s.Analyzer.NumOctaves < MinNumOctaves || s.Analyzer.NumOctaves > MaxNumOctaves) {
		return fmt.Errorf("analyzer.numoctaves must be in [%d,%d], got %d", MinNumOctaves, MaxNumOctaves, s.Analyzer.NumOctaves)
	}
	return nil
}
