package config

import "flag"

// Global flags come before the subcommand: meshtool -debug simplify in.obj out.obj
var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file")
	flagQuality    = flag.Float64("quality", -1, "Fraction of triangles to keep (0..1)")
	flagIterations = flag.Int("iterations", 0, "Maximum decimation sweeps")
	flagAggressive = flag.Float64("aggressiveness", 0, "Error threshold growth exponent")
	flagWorkers    = flag.Int("workers", 0, "Batch worker count")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagQuality >= 0 {
		cfg.Simplify.Quality = float32(*flagQuality)
	}
	if *flagIterations > 0 {
		cfg.Simplify.MaxIterations = *flagIterations
	}
	if *flagAggressive > 0 {
		cfg.Simplify.Aggressiveness = *flagAggressive
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
}
