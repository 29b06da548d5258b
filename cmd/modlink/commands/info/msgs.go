package info

// Message constants
const (
	MsgShort = "Show details for a mod"
	MsgLong  = `Info shows the size, file count and activation state of a single mod.
With --readme the mod's README is rendered below the summary.`

	MsgExample = `  modlink info BetterWater
  modlink info BetterWater --readme`

	MsgFlagReadme = "Render the mod's README"
	MsgNoReadme   = "No README found for mod '%s'"
)
