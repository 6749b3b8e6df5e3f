package rest

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"device-inspector/internal/domain/port"
)

// frames поток кадров с камеры: на каждый кадр один JSON с результатом.
// Бинарное сообщение - изображение, текстовое - base64 (можно data URL).
func (s *Server) frames(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader уже ответил клиенту
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.maxBody)

	ctx := c.Request.Context()
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("frames connection closed", zap.Error(err))
			}
			return
		}

		var data []byte
		switch mt {
		case websocket.BinaryMessage:
			data = msg
		case websocket.TextMessage:
			if data, err = decodeBase64Image(string(msg)); err != nil {
				_ = conn.WriteJSON(errorResponse{Error: err.Error()})
				continue
			}
		default:
			continue
		}

		out, err := s.svc.AnalyzeFrame(ctx, data)
		if err != nil {
			_ = conn.WriteJSON(errorResponse{Error: err.Error()})
			if errors.Is(err, port.ErrModelUnavailable) {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "model unavailable"))
				return
			}
			continue
		}
		if err := conn.WriteJSON(frameResponse{AnalysisRecord: out.Record, ProcessedImage: encodeBase64Image(out.Annotated)}); err != nil {
			return
		}
	}
}
