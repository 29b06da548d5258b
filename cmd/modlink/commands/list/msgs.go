package list

// Message constants
const (
	MsgShort = "List mods in the repository"
	MsgLong  = `List scans the mods folder and shows every mod with its display name,
whether it is currently active and how many keybinds it declares.

Display names come from a "; Name" comment in the first lines of a mod's
.ini files; mods without one are listed under their folder name.`

	MsgExample = `  # Show all mods
  modlink list

  # Only the ids of active mods
  modlink list --active

  # Machine readable output
  modlink list --format json`

	MsgFlagActive = "Only list active mod ids"
)
