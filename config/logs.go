package config

type LogsCfg struct {
	// Level is a zerolog level name. Example: "info".
	Level string `yaml:"level"`

	// Console switches from JSON lines to human-readable console output.
	Console bool `yaml:"console"`

	// IsTelemetryLogsEnabled enables one summary log record per controller epoch.
	IsTelemetryLogsEnabled bool `yaml:"stat_logs_enabled"`
}

func (cfg *LogsCfg) adjust() {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
}
