package logger

// Config defines logging settings.
type Config struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `mapstructure:"level" default:"info"`

	// Format is the output encoding: console or json.
	Format string `mapstructure:"format" default:"console"`
}
