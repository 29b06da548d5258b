package toggle

// Message constants
const (
	MsgShort = "Flip a mod between active and inactive"
	MsgLong  = `Toggle activates the mod if it is inactive and deactivates it otherwise.
The reported state is read back from the active folder after the change.`

	MsgExample = `  modlink toggle BetterWater`
)
