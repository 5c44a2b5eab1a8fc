package app

import (
	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/config"
	"github.com/ziadkadry99/direktor/internal/theme"
)

// SourceFor maps the theme settings to a colour-scheme source. A fixed
// theme ignores the host; auto consults the watched file first, then the
// environment.
func SourceFor(cfg *config.Config, log *zap.Logger) theme.Source {
	switch cfg.Theme {
	case config.ThemeDark:
		return theme.Static{Dark: true}
	case config.ThemeLight:
		return theme.Static{Dark: false}
	}

	var chain theme.Chain
	if cfg.ThemeFile != "" {
		chain = append(chain, theme.FileSource{Path: cfg.ThemeFile, Log: log})
	}
	chain = append(chain, theme.EnvSource{})
	return chain
}
