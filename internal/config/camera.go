package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// CameraSettings is the hot-reloadable [camera] table. A nil field means the
// key is absent and the running value should be left alone.
type CameraSettings struct {
	Brightness *float64 `toml:"brightness"`
	Contrast   *float64 `toml:"contrast"`
	Gain       *float64 `toml:"gain"`
}

// Empty reports whether no camera keys were set.
func (c CameraSettings) Empty() bool {
	return c.Brightness == nil && c.Contrast == nil && c.Gain == nil
}

// LoadCameraSettings reads the [camera] table from a TOML file.
func LoadCameraSettings(path string) (CameraSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CameraSettings{}, fmt.Errorf("read %s: %w", path, err)
	}

	var raw struct {
		Camera CameraSettings `toml:"camera"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return CameraSettings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw.Camera, nil
}
