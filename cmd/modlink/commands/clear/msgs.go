package clear

// Message constants
const (
	MsgShort = "Deactivate all mods"
	MsgLong  = `Clear removes every mod link from the active folder. Files and folders in
the active folder that are not links are left in place.`

	MsgDone = "Deactivated %d mod(s)"
)
