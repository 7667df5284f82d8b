// env.go - environment variable configuration and validation for QRST
package conf

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use).
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"analyzer.numoctaves", "QRST_NUM_OCTAVES", validateEnvNumOctaves},
		{"analyzer.n", "QRST_N", validateEnvN},
		{"analyzer.enablecrossoverreduction", "QRST_ENABLE_CROSSOVER_REDUCTION", nil},
		{"resynth.fudgenumber", "QRST_FUDGE_NUMBER", nil},
		{"resynth.scaledplaybackspeed", "QRST_PLAYBACK_SPEED", validateEnvPlaybackSpeed},
		{"input.path", "QRST_INPUT_PATH", validateEnvPath},
		{"output.path", "QRST_OUTPUT_PATH", validateEnvPath},
		{"debug", "QRST_DEBUG", nil},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal).
func bindEnvVars() error {
	bindings := getEnvBindings()
	var warnings []string

	for _, binding := range bindings {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, envValue, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

func validateEnvNumOctaves(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid numOctaves: %w", err)
	}
	if n < MinNumOctaves || n > MaxNumOctaves {
		return fmt.Errorf("numOctaves must be in [%d,%d], got %d", MinNumOctaves, MaxNumOctaves, n)
	}
	return nil
}

func validateEnvN(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid N: %w", err)
	}
	if n < MinEmissionCadence {
		return fmt.Errorf("N must be >= %d, got %d", MinEmissionCadence, n)
	}
	return nil
}

func validateEnvPlaybackSpeed(value string) error {
	speed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid playback speed: %w", err)
	}
	if speed <= 0 {
		return fmt.Errorf("playback speed must be positive, got %g", speed)
	}
	return nil
}

func validateEnvPath(value string) error {
	if strings.Contains(value, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper.
func configureEnvironmentVariables() error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("QRST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(); err != nil {
		log.Printf("Environment variable validation warnings: %v", err)
	}

	return nil
}
