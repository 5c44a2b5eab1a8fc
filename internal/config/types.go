package config

// ThemeSetting selects how the console picks its display mode.
type ThemeSetting string

const (
	ThemeAuto  ThemeSetting = "auto"
	ThemeDark  ThemeSetting = "dark"
	ThemeLight ThemeSetting = "light"
)

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

// Config is the top-level direktor configuration, corresponding to direktor.yml.
type Config struct {
	ListenPort      int               `yaml:"listen_port" koanf:"listen_port"`
	BackendURL      string            `yaml:"backend_url" koanf:"backend_url"`
	RequestTimeout  string            `yaml:"request_timeout" koanf:"request_timeout"`
	Headers         map[string]string `yaml:"headers,omitempty" koanf:"headers"`
	Theme           ThemeSetting      `yaml:"theme" koanf:"theme"`
	ThemeFile       string            `yaml:"theme_file,omitempty" koanf:"theme_file"`
	AllowAllOrigins bool              `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Log             LogConfig         `yaml:"log" koanf:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
