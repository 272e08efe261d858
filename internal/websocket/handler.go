package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"
)

// Handler upgrades the request and attaches the connection to hub.
// originPatterns limits cross-origin screens; empty allows same-origin only.
func Handler(hub *Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{OriginPatterns: originPatterns})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err)
			return
		}
		defer conn.CloseNow()

		newClient(hub, conn).serve(r.Context())
	}
}
