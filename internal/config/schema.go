package config

// AnalysisConfig is the top-level YAML structure.
type AnalysisConfig struct {
	Version  string       `yaml:"version" validate:"required"`
	Input    InputConf    `yaml:"input"`
	Filter   string       `yaml:"filter"` // optional movement filter expression
	Analysis AnalysisConf `yaml:"analysis"`
	Reports  []ReportDef  `yaml:"reports" validate:"dive"`
	Metrics  MetricsConf  `yaml:"metrics"`
	Log      LogConf      `yaml:"log"`
}

// InputConf names the delimited files a run reads.
type InputConf struct {
	Movements string `yaml:"movements" validate:"required"`
	Locations string `yaml:"locations"` // optional; only reports use coordinates
	Comma     string `yaml:"comma" validate:"omitempty,len=1"`
	Header    bool   `yaml:"header"`
}

// AnalysisConf selects which computations run beyond the two distributions.
type AnalysisConf struct {
	Seed     string `yaml:"seed"` // empty = no switch-count analysis
	SeedTime int    `yaml:"seed_time" validate:"gte=0"`
	Degrees  bool   `yaml:"degrees"`
	Windows  bool   `yaml:"windows"`
	Compare  bool   `yaml:"compare"`
}

// ReportDef is one output of a run. An empty Path writes to stdout.
type ReportDef struct {
	Type   string                 `yaml:"type" validate:"required"`
	Path   string                 `yaml:"path"`
	Params map[string]interface{} `yaml:"params"`
}

// MetricsConf controls the Prometheus textfile export.
type MetricsConf struct {
	Textfile string `yaml:"textfile"` // empty = metrics are not written
}

// LogConf configures the process logger.
type LogConf struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}
