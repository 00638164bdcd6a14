package worldtest

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config controls how test apps behave. Fields are populated from environment variables, so a
// noisy test run can be debugged with e.g. WORLDTEST_LOG_LEVEL=debug without touching test
// code.
type Config struct {
	// LogLevel is the zerolog level applied globally when an App is created.
	LogLevel string `config:"WORLDTEST_LOG_LEVEL"`
	// LogPretty enables human-friendly console output instead of JSON.
	LogPretty bool `config:"WORLDTEST_LOG_PRETTY"`
}

func defaultConfig() Config {
	return Config{
		LogLevel:  "error",
		LogPretty: false,
	}
}

// LoadConfig loads the test configuration from the environment, falling back to defaults for
// unset variables.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to load config from env")
	}
	return cfg, nil
}
