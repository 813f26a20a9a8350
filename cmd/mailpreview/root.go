package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pthm/mailpreview"
	"github.com/pthm/mailpreview/internal/config"
	"github.com/pthm/mailpreview/internal/ctxlog"
	"github.com/pthm/mailpreview/lib/manifest"
)

// cli holds state shared by the subcommands of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger
	out     io.Writer
	errOut  io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "mailpreview",
		Short:         "Preview generated emails",
		Long:          `Serve, export and check email previews declared in an HCL or YAML manifest.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "", "config file (default: ./"+config.DefaultFile+")")
	flags.StringP("manifest", "m", "", "preview manifest (.hcl, .yaml or .yml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("title", "", "title shown on preview pages")
	_ = c.v.BindPFlag("manifest", flags.Lookup("manifest"))
	_ = c.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("title", flags.Lookup("title"))

	root.AddCommand(
		c.newServeCmd(),
		c.newExportCmd(),
		c.newListCmd(),
		c.newCheckCmd(),
		c.newInitCmd(),
	)
	return root
}

// init loads configuration and installs the logger. init is skipped for
// commands that set the "noconfig" annotation.
func (c *cli) init(cmd *cobra.Command) error {
	if cmd.Annotations["noconfig"] == "true" {
		return nil
	}
	cfg, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), c.logger))
	c.logger.Debug("config loaded", "file", c.v.ConfigFileUsed(), "manifest", cfg.Manifest)
	return nil
}

func (c *cli) registry() (*mailpreview.Registry, error) {
	reg, err := manifest.LoadFile(c.cfg.Manifest)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("manifest loaded", "manifest", c.cfg.Manifest, "previews", reg.Len())
	return reg, nil
}
