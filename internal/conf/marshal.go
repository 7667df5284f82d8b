// conf/marshal.go
package conf

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// structToMap converts a Settings value into a generic map suitable for
// merging back into viper's config map, round-tripping through YAML so
// that field names follow the same lower-cased key convention viper uses
// when it unmarshals config.yaml into Settings.
func structToMap(s *Settings) (map[string]any, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("error marshaling settings to yaml: %w", err)
	}

	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling yaml into map: %w", err)
	}

	return result, nil
}
