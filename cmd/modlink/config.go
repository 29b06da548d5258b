package modlink

import (
	"fmt"

	configcmd "github.com/arthur-debert/modlink/cmd/modlink/commands/config"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/ui"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   configcmd.MsgShort,
		Long:    configcmd.MsgLong,
		GroupID: "setup",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: configcmd.MsgShowShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !ui.IsMachine(a.outFmt) {
				if err := a.render.RenderMessage(fmt.Sprintf(configcmd.MsgPathFile, a.store.Path())); err != nil {
					return err
				}
			}
			return a.render.RenderResult(a.cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set-paths <mods-folder> <active-folder>",
		Short:   configcmd.MsgSetPathsShort,
		Long:    configcmd.MsgSetPathsLong,
		Example: configcmd.MsgSetPathsExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			modsPath, activePath := args[0], args[1]
			if modsPath == "" || activePath == "" {
				return a.fail(errors.New(errors.ErrInvalidInput, "both folders are required"))
			}

			cfg, err := a.store.SetPaths(modsPath, activePath)
			if err != nil {
				return a.fail(err)
			}
			a.cfg = cfg
			a.engine.SetPaths(cfg.ModsPath, cfg.SaveModsPath)

			if err := a.render.RenderMessage(configcmd.MsgPathsSaved); err != nil {
				return err
			}
			if err := a.engine.ValidatePaths(); err != nil {
				return a.render.RenderMessage(fmt.Sprintf(configcmd.MsgPathsWarn, errors.Message(err)))
			}
			return nil
		},
	})

	return cmd
}
