package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/steakz-restaurant/kds"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

type KDSController struct {
	Hub      *kds.Hub
	upgrader websocket.Upgrader
}

// NewKDSController accepts upgrades from the given origins; an empty list or
// "*" accepts any origin.
func NewKDSController(hub *kds.Hub, allowedOrigins []string) *KDSController {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	_, allowAll := origins["*"]

	return &KDSController{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowAll || len(origins) == 0 {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// OrdersSocket streams order events the caller is allowed to see.
func (kc *KDSController) OrdersSocket(c *gin.Context) {
	viewer := middlewares.Viewer(c)
	ws, err := kc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	kc.Hub.Register(ws, viewer).Serve()
}
