package config

import "flag"

var flags = flag.NewFlagSet("radfolder", flag.ExitOnError)

var (
	flagConfig  = flags.String("config", "", "Path to config file")
	flagDebug   = flags.Bool("debug", false, "Enable debug logging")
	flagOutput  = flags.String("o", "", "Output folder for the radiance model")
	flagMinimal = flags.Bool("minimal", false, "Write radiance strings in minimal single-line form")
	flagWorkers = flags.Int("workers", 0, "Number of workers for the static write phases")
)

// ParseFlags parses command-line flags. Call this early in main() with the
// arguments after the subcommand; positional arguments are returned.
func ParseFlags(args []string) []string {
	flags.Parse(args)
	return flags.Args()
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
	if *flagOutput != "" {
		cfg.Output.Folder = *flagOutput
	}
	if *flagMinimal {
		cfg.Output.Minimal = true
	}
	if *flagWorkers > 0 {
		cfg.Output.Workers = *flagWorkers
	}
}
