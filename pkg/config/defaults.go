package config

// Run defaults. Zero workers means one per CPU.
const (
	DefaultWorkers    = 0
	DefaultDryRun     = false
	DefaultGitTracked = false
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPInsecure = false
	DefaultSampleRatio  = 1.0
)

// DefaultExclude skips build output and generated sources.
var DefaultExclude = []string{"**/build/**", "**/target/**", "**/generated-sources/**"}
