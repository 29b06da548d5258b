// Package modlink wires the engine, config store, notifier and API server
// into the modlink command tree.
package modlink

import (
	stderrors "errors"
	"io"
	"time"

	"github.com/arthur-debert/modlink/internal/version"
	"github.com/arthur-debert/modlink/pkg/config"
	"github.com/arthur-debert/modlink/pkg/engine"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/filesystem"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/notify"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/arthur-debert/modlink/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// annotationNoSetup marks commands that run without loading configuration
const annotationNoSetup = "modlink/no-setup"

// app holds what every command needs once flags are parsed
type app struct {
	verbosity  int
	configPath string
	format     string
	noReload   bool

	ready  bool
	out    io.Writer
	fs     types.FS
	store  *config.Store
	cfg    *config.Config
	engine *engine.Manager
	render ui.Renderer
	outFmt ui.Format
	styled bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "modlink",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoSetup] != "" || isCompletionRequest(cmd) {
				logging.SetupLogger(a.verbosity)
				return nil
			}
			if err := a.setup(cmd); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.configPath, "config", "", MsgFlagConfig)
	flags.StringVar(&a.format, "format", "auto", MsgFlagFormat)
	flags.BoolVar(&a.noReload, "no-reload", false, MsgFlagNoReload)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "mods", Title: "MOD COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "SETUP:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))
	rootCmd.AddCommand(newOnCmd(a))
	rootCmd.AddCommand(newOffCmd(a))
	rootCmd.AddCommand(newToggleCmd(a))
	rootCmd.AddCommand(newSetCmd(a))
	rootCmd.AddCommand(newClearCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newReloadCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// isCompletionRequest reports whether cmd is cobra's hidden completion
// command; its flags are only parsed later, inside the completion function
func isCompletionRequest(cmd *cobra.Command) bool {
	return cmd.Name() == cobra.ShellCompRequestCmd || cmd.Name() == cobra.ShellCompNoDescRequestCmd
}

// setup loads configuration and builds the engine and renderer. It runs at
// most once per command tree.
func (a *app) setup(cmd *cobra.Command) error {
	if a.ready {
		return nil
	}
	logging.SetupLogger(a.verbosity)

	format, err := ui.ParseFormat(a.format)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, MsgErrInvalidFormat, a.format)
	}
	a.outFmt = format
	a.out = cmd.OutOrStdout()
	a.styled = ui.IsStyled(format, a.out)
	if a.render, err = ui.NewRenderer(format, a.out); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create renderer")
	}

	a.fs = filesystem.NewOS()
	a.store = config.NewStore(a.configPath, config.WithFS(a.fs))
	if a.cfg, err = a.store.Load(); err != nil {
		return a.fail(err)
	}
	a.engine = engine.NewFromConfig(a.fs, a.cfg.Paths)
	a.ready = true
	return nil
}

// requireConfigured fails with a hint when no paths were ever set
func (a *app) requireConfigured() error {
	if !a.cfg.Configured() {
		return a.fail(errors.New(errors.ErrPathsNotConfigured, MsgFirstRunHint))
	}
	if err := a.engine.ValidatePaths(); err != nil {
		return a.fail(err)
	}
	return nil
}

// notifier returns the reload notifier for mutations, honouring
// reload.enabled and --no-reload
func (a *app) notifier(ttl time.Duration) notify.Notifier {
	if a.noReload || !a.cfg.Reload.Enabled {
		return notify.Noop{}
	}
	return notify.NewSignalNotifier(a.fs, ttl)
}

// signalChange writes the reload markers after a CLI mutation. The trigger
// file is left to `modlink reload` and the server, which outlive its TTL.
func (a *app) signalChange() {
	_, active := a.engine.Paths()
	if err := a.notifier(0).Notify(active); err != nil {
		log.Warn().Err(err).Msg("Reload signal failed")
	}
}

// finish renders an activation result and signals the loader when anything
// changed
func (a *app) finish(result types.ActivationResult) error {
	if result.OK {
		a.signalChange()
	}
	if err := a.render.RenderResult(result); err != nil {
		return err
	}
	if !result.OK {
		return &reportedError{err: errors.New(result.Code, result.Message)}
	}
	return nil
}

// fail renders err for machine formats so scripts get structured output,
// and hands it back for main to print otherwise
func (a *app) fail(err error) error {
	if a.render != nil && ui.IsMachine(a.outFmt) {
		if rerr := a.render.RenderError(err); rerr == nil {
			return &reportedError{err: err}
		}
	}
	return err
}

// reportedError is an error that has already been shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already rendered by the command
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}

// modIDCompletion completes mod ids, optionally filtered by activation state
func (a *app) modIDCompletion(filter func(id string, active bool) bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if err := a.setup(cmd); err != nil || !a.cfg.Configured() {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		taken := make(map[string]bool, len(args))
		for _, arg := range args {
			taken[arg] = true
		}

		var ids []string
		for _, id := range a.engine.ScanMods() {
			if taken[id] {
				continue
			}
			if filter == nil || filter(id, a.engine.IsModActive(id)) {
				ids = append(ids, id)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}
