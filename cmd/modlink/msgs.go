package modlink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Toggle game mods by linking them into the loader's folder"
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig   = "Config file (default $XDG_CONFIG_HOME/modlink/config.toml)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagNoReload = "Do not signal the mod loader after changes"

	// Status messages
	MsgVersionFormat = "modlink version %s\n  commit: %s\n  built:  %s\n"
	MsgFirstRunHint  = "modlink is not configured yet. Run 'modlink config set-paths <mods> <active>' first."

	// Error messages
	MsgErrNoCommand     = "no command specified"
	MsgErrInvalidFormat = "invalid --format value %q"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
