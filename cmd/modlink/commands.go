package modlink

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	clearcmd "github.com/arthur-debert/modlink/cmd/modlink/commands/clear"
	infocmd "github.com/arthur-debert/modlink/cmd/modlink/commands/info"
	listcmd "github.com/arthur-debert/modlink/cmd/modlink/commands/list"
	offcmd "github.com/arthur-debert/modlink/cmd/modlink/commands/off"
	oncmd "github.com/arthur-debert/modlink/cmd/modlink/commands/on"
	reloadcmd "github.com/arthur-debert/modlink/cmd/modlink/commands/reload"
	servecmd "github.com/arthur-debert/modlink/cmd/modlink/commands/serve"
	setcmd "github.com/arthur-debert/modlink/cmd/modlink/commands/set"
	togglecmd "github.com/arthur-debert/modlink/cmd/modlink/commands/toggle"
	"github.com/arthur-debert/modlink/internal/version"
	"github.com/arthur-debert/modlink/pkg/config"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/notify"
	"github.com/arthur-debert/modlink/pkg/scanner"
	"github.com/arthur-debert/modlink/pkg/server"
	"github.com/arthur-debert/modlink/pkg/ui"
	"github.com/arthur-debert/modlink/pkg/ui/markdown"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   listcmd.MsgShort,
		Long:    listcmd.MsgLong,
		Example: listcmd.MsgExample,
		GroupID: "mods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}
			if activeOnly {
				return a.render.RenderResult(a.engine.GetActiveMods())
			}

			mods := a.engine.ScanModsDetailed()
			log.Info().Int("count", len(mods)).Msg("Listed mods")
			return a.render.RenderResult(mods)
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, listcmd.MsgFlagActive)
	return cmd
}

func newInfoCmd(a *app) *cobra.Command {
	var showReadme bool

	cmd := &cobra.Command{
		Use:               "info <mod>",
		Short:             infocmd.MsgShort,
		Long:              infocmd.MsgLong,
		Example:           infocmd.MsgExample,
		GroupID:           "mods",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.modIDCompletion(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}

			id := args[0]
			stats := a.engine.GetModInfo(id)
			if !stats.Exists {
				code := errors.ErrModNotFound
				if stats.Error != "" {
					code = errors.ErrInternal
				}
				if err := a.render.RenderResult(stats); err != nil {
					return err
				}
				return &reportedError{err: errors.Newf(code, "mod '%s' not found", id)}
			}

			var readmePath, readme string
			if showReadme {
				if path, data, ok := scanner.New(a.fs).Readme(stats.Path); ok {
					readmePath, readme = path, string(data)
				}
			}

			if ui.IsMachine(a.outFmt) {
				if !showReadme {
					return a.render.RenderResult(stats)
				}
				return a.render.RenderResult(map[string]interface{}{
					"mod":    stats,
					"readme": readme,
				})
			}

			if err := a.render.RenderResult(stats); err != nil {
				return err
			}
			if !showReadme {
				return nil
			}
			if readme == "" {
				return a.render.RenderMessage(fmt.Sprintf(infocmd.MsgNoReadme, id))
			}

			r := markdown.NewPlainRenderer()
			if a.styled {
				r = markdown.NewRenderer()
			}
			_, err := fmt.Fprintln(a.out, "\n"+r.Render(readme, readmePath))
			return err
		},
	}
	cmd.Flags().BoolVar(&showReadme, "readme", false, infocmd.MsgFlagReadme)
	return cmd
}

func newOnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "on <mod>",
		Short:   oncmd.MsgShort,
		Long:    oncmd.MsgLong,
		Example: oncmd.MsgExample,
		GroupID: "mods",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: a.modIDCompletion(func(_ string, active bool) bool {
			return !active
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}
			return a.finish(a.engine.ActivateSingle(args[0]))
		},
	}
}

func newOffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "off <mod>",
		Short:   offcmd.MsgShort,
		Long:    offcmd.MsgLong,
		Example: offcmd.MsgExample,
		GroupID: "mods",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: a.modIDCompletion(func(_ string, active bool) bool {
			return active
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}

			id := args[0]
			if err := a.engine.DeactivateSingle(id); err != nil {
				return a.fail(err)
			}
			a.signalChange()
			return a.render.RenderMessage(fmt.Sprintf(offcmd.MsgDone, id))
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "toggle <mod>",
		Short:             togglecmd.MsgShort,
		Long:              togglecmd.MsgLong,
		Example:           togglecmd.MsgExample,
		GroupID:           "mods",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.modIDCompletion(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}
			return a.finish(a.engine.Toggle(args[0]))
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "set <mod>...",
		Short:             setcmd.MsgShort,
		Long:              setcmd.MsgLong,
		Example:           setcmd.MsgExample,
		GroupID:           "mods",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: a.modIDCompletion(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}
			return a.finish(a.engine.ActivateSet(args))
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   clearcmd.MsgShort,
		Long:    clearcmd.MsgLong,
		GroupID: "mods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}

			before := len(a.engine.GetActiveMods())
			if err := a.engine.DeactivateAll(); err != nil {
				return a.fail(err)
			}
			a.signalChange()
			return a.render.RenderMessage(fmt.Sprintf(clearcmd.MsgDone, before))
		},
	}
}

func newReloadCmd(a *app) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:     "reload",
		Short:   reloadcmd.MsgShort,
		Long:    reloadcmd.MsgLong,
		GroupID: "setup",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireConfigured(); err != nil {
				return err
			}

			n := notify.NewSignalNotifier(a.fs, a.cfg.Reload.TriggerTTL)
			_, active := a.engine.Paths()
			if err := n.Notify(active); err != nil {
				return a.fail(err)
			}
			if err := a.render.RenderMessage(reloadcmd.MsgSent); err != nil {
				return err
			}
			if !noWait {
				n.Wait()
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWait, "no-wait", false, reloadcmd.MsgFlagNoWait)
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   servecmd.MsgShort,
		Long:    servecmd.MsgLong,
		Example: servecmd.MsgExample,
		GroupID: "setup",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.serve")

			addr := a.cfg.Server.Listen
			if listen != "" {
				addr = listen
			}

			notifier := a.notifier(a.cfg.Reload.TriggerTTL)
			srv, err := server.NewServer(&server.Options{
				Engine:   a.engine,
				Store:    a.store,
				Notifier: notifier,
				Reload:   a.cfg.Reload.Enabled && !a.noReload,
				Version:  version.Version,
			})
			if err != nil {
				return a.fail(err)
			}

			if err := a.engine.ValidatePaths(); err != nil {
				logger.Warn().Err(err).Msg("Serving with unusable paths; configure them through the API")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = a.store.Watch(ctx, func(cfg *config.Config) {
				a.engine.SetPaths(cfg.ModsPath, cfg.SaveModsPath)
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Config file edits will not be picked up")
			}

			err = srv.Run(ctx, addr)
			if sn, ok := notifier.(*notify.SignalNotifier); ok {
				sn.Flush()
			}
			if err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", servecmd.MsgFlagListen)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       MsgVersionShort,
		GroupID:     "misc",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Annotations:           map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
