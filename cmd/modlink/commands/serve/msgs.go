package serve

// Message constants
const (
	MsgShort = "Serve the mod API over HTTP"
	MsgLong  = `Serve starts a JSON API for front ends. It listens on server.listen
(127.0.0.1:8000 by default) until interrupted.`

	MsgExample = `  modlink serve
  modlink serve --listen 0.0.0.0:9000`

	MsgFlagListen = "Address to listen on (overrides server.listen)"
)
