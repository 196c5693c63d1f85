package config

// Config represents the complete configuration structure
type Config struct {
	Tier    TierConfig    `mapstructure:"tier"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TierConfig holds Tier API connection details
type TierConfig struct {
	URL      string `mapstructure:"url"`
	APIToken string `mapstructure:"api_token"`
	Debug    bool   `mapstructure:"debug"`
	// Timeout is the request timeout in seconds
	Timeout int `mapstructure:"timeout"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
