package off

// Message constants
const (
	MsgShort = "Deactivate a mod"
	MsgLong  = `Off removes a mod's link from the active folder. The mod folder itself is
never touched, and deactivating an inactive mod does nothing.`

	MsgExample = `  modlink off BetterWater`

	MsgDone = "Mod '%s' deactivated"
)
