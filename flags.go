package informe

import (
	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/config"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type AllFlags struct {
	logger.Flags
	// ConfigFile is loaded before flag overrides are applied.
	ConfigFile string
	Config     config.Config
}

var Flags = AllFlags{
	Config: config.Default(),
	Flags: logger.Flags{
		Level:       "info",
		LogToStderr: true,
	},
}

// BindAllFlags adds the logging and rendering flags to a cobra flag set.
func BindAllFlags(flags *pflag.FlagSet) *AllFlags {
	flags.CountVarP(&Flags.Flags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&Flags.Flags.Level, "log-level", "info", "Set the default log level")
	flags.BoolVar(&Flags.Flags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&Flags.Flags.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&Flags.Flags.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")

	flags.StringVarP(&Flags.ConfigFile, "config", "c", "", "YAML configuration file")
	config.BindPFlags(flags, &Flags.Config)
	return &Flags
}

func (a AllFlags) String() string {
	data, _ := yaml.Marshal(struct {
		Logger logger.Flags  `yaml:"logger"`
		Config config.Config `yaml:"config"`
	}{a.Flags, a.Config})
	return string(data)
}

// UseFlags configures logging and resolves the effective configuration: the
// config file first, then any flag explicitly set on the command line.
func (a *AllFlags) UseFlags(flags *pflag.FlagSet) error {
	logger.Configure(a.Flags)
	if a.ConfigFile != "" {
		loaded, err := config.Load(a.ConfigFile)
		if err != nil {
			return err
		}
		a.Config = loaded
		applyChanged(flags, &a.Config)
	}
	logger.Debugf("Using flags: %s", a)
	return nil
}

// applyChanged replays the explicitly set config flags onto cfg.
func applyChanged(flags *pflag.FlagSet, cfg *config.Config) {
	scratch := pflag.NewFlagSet("overrides", pflag.ContinueOnError)
	config.BindPFlags(scratch, cfg)
	flags.Visit(func(f *pflag.Flag) {
		if target := scratch.Lookup(f.Name); target != nil {
			_ = target.Value.Set(f.Value.String())
		}
	})
}
