// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Stage    StageConfig    `yaml:"stage"`
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// StageConfig holds tile stage settings.
type StageConfig struct {
	Width              int        `yaml:"width"`  // stage width in tiles
	Height             int        `yaml:"height"` // stage height in tiles
	Layers             int        `yaml:"layers"`
	MaxAnimationFrames int        `yaml:"max_animation_frames"`
	BaseTile           int        `yaml:"base_tile"`
	FlipU              bool       `yaml:"flip_u"`
	ColorMultiply      [3]float32 `yaml:"color_multiply"`
}

// DataConfig holds asset file paths.
type DataConfig struct {
	Atlas    string `yaml:"atlas"`    // sprite atlas JSON
	Diffuse  string `yaml:"diffuse"`  // diffuse sheet image
	Bump     string `yaml:"bump"`     // optional normal sheet image
	Specular string `yaml:"specular"` // optional specular sheet image
	TileMaps string `yaml:"tilemaps"` // optional saved tile map state
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Stage: StageConfig{
			Width:              16,
			Height:             16,
			Layers:             1,
			MaxAnimationFrames: 4,
			BaseTile:           0,
			FlipU:              false,
			ColorMultiply:      [3]float32{1, 1, 1},
		},
		Data: DataConfig{
			Atlas:   "atlas.json",
			Diffuse: "atlas.png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
