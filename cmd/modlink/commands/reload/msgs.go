package reload

// Message constants
const (
	MsgShort = "Ask the mod loader to reload"
	MsgLong  = `Reload writes the reload signal files into the active folder and drops a
temporary trigger that forces the loader to re-read its configuration.

The command waits until the trigger has been removed again, which takes
reload.trigger_ttl (10s by default).`

	MsgFlagNoWait = "Return immediately and leave the trigger file in place"
	MsgSent       = "Reload signal sent"
)
