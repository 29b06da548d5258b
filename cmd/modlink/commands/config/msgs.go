package config

// Message constants
const (
	MsgShort = "Show or change modlink's configuration"
	MsgLong  = `Config reads and writes the configuration file. Values from MODLINK_*
environment variables and a .env file override the file but are never
written back to it.`

	MsgShowShort     = "Print the effective configuration"
	MsgSetPathsShort = "Set the mods folder and the active folder"
	MsgSetPathsLong  = `Set-paths stores the folder holding your mods and the folder the mod loader
reads active mods from. Neither folder has to exist yet; modlink warns when
they are not usable.`

	MsgSetPathsExample = `  modlink config set-paths ~/Games/Mods ~/Games/Loader/Mods`

	MsgPathFile   = "Config file: %s"
	MsgPathsSaved = "Configuration saved"
	MsgPathsWarn  = "Warning: %s"
)
