package config

import (
	"errors"

	"github.com/spf13/viper"
)

// LayoutConfig holds the rendering defaults for generated documents.
// Values come from an optional facture.yml so a deployment can adjust
// branding without a rebuild; the in-code defaults reproduce the
// standard layout.
type LayoutConfig struct {
	MarginLeft   float64 `mapstructure:"marginLeft"`
	MarginRight  float64 `mapstructure:"marginRight"`
	MarginTop    float64 `mapstructure:"marginTop"`
	MarginBottom float64 `mapstructure:"marginBottom"`

	// Hex colors, e.g. "#646464".
	NormalColor  string `mapstructure:"normalColor"`
	LightColor   string `mapstructure:"lightColor"`
	AccentColor  string `mapstructure:"accentColor"`
	ShadingColor string `mapstructure:"shadingColor"`
}

func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MarginLeft:   50,
		MarginRight:  50,
		MarginTop:    60,
		MarginBottom: 80,
		NormalColor:  "#646464",
		LightColor:   "#b4b4b4",
		AccentColor:  "#16c60c",
		ShadingColor: "#f5f5f5",
	}
}

// NewLayoutConfig reads the optional layout overlay. A missing config
// file is not an error; malformed values are.
func NewLayoutConfig() (LayoutConfig, error) {
	v := viper.New()

	v.SetConfigName("facture")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/facture")
	v.AddConfigPath(".")

	defaults := DefaultLayoutConfig()
	v.SetDefault("layout.marginLeft", defaults.MarginLeft)
	v.SetDefault("layout.marginRight", defaults.MarginRight)
	v.SetDefault("layout.marginTop", defaults.MarginTop)
	v.SetDefault("layout.marginBottom", defaults.MarginBottom)
	v.SetDefault("layout.normalColor", defaults.NormalColor)
	v.SetDefault("layout.lightColor", defaults.LightColor)
	v.SetDefault("layout.accentColor", defaults.AccentColor)
	v.SetDefault("layout.shadingColor", defaults.ShadingColor)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return LayoutConfig{}, err
		}
	}

	var cfg LayoutConfig
	if err := v.UnmarshalKey("layout", &cfg); err != nil {
		return LayoutConfig{}, err
	}

	if cfg.MarginLeft <= 0 || cfg.MarginRight <= 0 || cfg.MarginTop <= 0 || cfg.MarginBottom <= 0 {
		return LayoutConfig{}, errors.New("layout margins must be positive")
	}

	return cfg, nil
}
