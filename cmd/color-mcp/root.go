package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/color-tools-mcp/internal/classify"
	"github.com/ironsheep/color-tools-mcp/internal/colorspace"
	"github.com/ironsheep/color-tools-mcp/internal/config"
)

// app is the state shared by every subcommand once the persistent pre-run
// has loaded the configuration.
type app struct {
	v          *viper.Viper
	cfgFile    string
	cfg        *config.Config
	logger     *slog.Logger
	classifier *classify.Classifier
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"reference":  config.KeyReference,
	"threshold":  config.KeyThreshold,
	"bin-size":   config.KeyBinSize,
	"bin-method": config.KeyBinMethod,
	"workers":    config.KeyWorkers,
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "color-mcp",
		Short: "Perceptual color matching tools and MCP server",
		Long: `color-mcp converts sRGB colors to CIE L*a*b*, bins them, and compares them
against a reference color with CIEDE2000.

Run "color-mcp serve" to expose the tools to an MCP client over stdio, or use
the classify, convert, distance and bins commands directly.

Settings come from flags, COLOR_MCP_* environment variables and
~/.config/color-mcp/config.{toml,yaml,json}, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (default ~/.config/color-mcp/config.{toml,yaml,json})")
	f.String("reference", classify.DefaultReference.Hex(), "reference color as #rrggbb, packed decimal or r,g,b")
	f.Float64("threshold", classify.DefaultThreshold, "largest CIEDE2000 distance counted as a match")
	f.Float64("bin-size", classify.DefaultBinSize, "L*a*b* bin size, 0 disables binning")
	f.String("bin-method", colorspace.BinFloor.String(), "bin snapping: floor or round")
	f.Int("workers", 0, "classifier goroutines, 0 for one per CPU")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("log-format", "text", "log format: text or json")

	root.AddCommand(
		newServeCmd(a),
		newClassifyCmd(a),
		newConvertCmd(a),
		newDistanceCmd(a),
		newBinsCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// init binds flags to a fresh viper instance, loads the configuration and
// builds the logger and classifier.
func (a *app) init(cmd *cobra.Command) error {
	a.v = viper.New()
	for name, key := range flagKeys {
		if fl := cmd.Flags().Lookup(name); fl != nil {
			if err := a.v.BindPFlag(key, fl); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts, err := cfg.ClassifierOptions()
	if err != nil {
		return err
	}
	a.classifier, err = classify.New(opts)
	if err != nil {
		return err
	}

	a.logger.Debug("configuration loaded",
		"config", a.v.ConfigFileUsed(),
		"reference", opts.Reference.Hex(),
		"threshold", opts.Threshold,
		"bin_size", opts.BinSize,
		"bin_method", opts.BinMethod.String(),
		"workers", a.classifier.Options().Workers,
	)
	return nil
}
