package controllers

import (
	"net/http"

	"github.com/devleo10/dishly/kds"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// KDSController streams order events to kitchen and admin displays.
type KDSController struct {
	hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts handshakes from the given origins; an empty list
// or "*" accepts any origin.
func NewKDSController(hub *kds.Hub, origins []string) *KDSController {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &KDSController{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Stream must run behind WebSocketAuthMiddleware and a role guard.
func (kc *KDSController) Stream(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("kds upgrade failed")
		return
	}

	kc.hub.Register(ws, actor.Role)
	defer kc.hub.Unregister(ws)

	// displays only listen; reading detects the close
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
