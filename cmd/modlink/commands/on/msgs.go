package on

// Message constants
const (
	MsgShort = "Activate a mod"
	MsgLong  = `On links a mod folder into the active folder. Other active mods are left
alone, and activating a mod that is already active does nothing.`

	MsgExample = `  modlink on BetterWater`
)
