package set

// Message constants
const (
	MsgShort = "Make exactly the given mods active"
	MsgLong  = `Set deactivates every active mod and then activates the given ones.

Mods that cannot be linked are reported, and the others stay active. The
command fails only when none of the requested mods could be activated.`

	MsgExample = `  # Replace the active set
  modlink set BetterWater HDTextures`
)
