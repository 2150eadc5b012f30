package server

import (
	"net/http"
	"time"

	"soundcatalog/core/catalog"
	"soundcatalog/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ReadyMessage 推送给客户端的就绪通知
type ReadyMessage struct {
	Type    string         `json:"type"` // "status" 或 "ready"
	Success bool           `json:"success"`
	Status  catalog.Status `json:"status"`
}

// HandleReadyWS 先推送当前状态，再等待目录就绪（或加载失败）后推送结果并关闭连接
func (h *CatalogHandler) HandleReadyWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("[Server] websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(ReadyMessage{Type: "status", Success: h.provider.IsInitialized(), Status: h.provider.Status()}); err != nil {
		return
	}

	done := make(chan bool, 1)
	h.provider.EnsureReady(h.query(r), func(success bool) { done <- success })

	var success bool
	select {
	case success = <-done:
	case <-r.Context().Done():
		return
	}

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(ReadyMessage{Type: "ready", Success: success, Status: h.provider.Status()}); err != nil {
		logger.Warn("[Server] 推送就绪消息失败", logger.ErrorField(err))
		return
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
