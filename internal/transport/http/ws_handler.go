package http

import (
	"encoding/json"
	"log"
	"net/http"

	"scholarship-exam-service/internal/app"
	"scholarship-exam-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler drives one exam session per websocket connection. All messages
// are client-initiated and answered in order, so a single goroutine owns the
// connection and no write synchronization is needed.
type WSHandler struct {
	service  *app.ExamService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ExamService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Chapters []int  `json:"chapters"`
	Subject  string `json:"subject"`
	Review   bool   `json:"review"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type languagePayload struct {
	Language string `json:"language"`
}

type revealedPayload struct {
	CorrectText string `json:"correctText"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the session message loop until the
// client disconnects. Disconnecting mid-exam abandons the session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sessionID := ""
	defer func() {
		if sessionID != "" {
			h.service.Abandon(ctx, sessionID)
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "start":
			var payload startPayload
			if len(inbound.Payload) > 0 {
				if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
					h.writeError(conn, "invalid start payload")
					continue
				}
			}
			if sessionID != "" {
				h.service.Abandon(ctx, sessionID)
				sessionID = ""
			}
			newID, view, err := h.service.Start(ctx, app.StartOptions{
				Chapters: payload.Chapters,
				Subject:  payload.Subject,
				Review:   payload.Review,
			})
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			sessionID = newID
			h.write(conn, "question", view)

		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid answer payload")
				continue
			}
			outcome, err := h.service.Answer(ctx, sessionID, payload.Option)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "answerResult", outcome)

		case "advance":
			view, summary, err := h.service.Advance(ctx, sessionID)
			if summary != nil {
				sessionID = ""
				if err == domain.ErrTimeExpired {
					h.writeError(conn, err.Error())
				}
				h.write(conn, "summary", *summary)
				continue
			}
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "question", view)

		case "reveal":
			correct, err := h.service.Reveal(ctx, sessionID)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "revealed", revealedPayload{CorrectText: correct})

		case "language":
			var payload languagePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.writeError(conn, "invalid language payload")
				continue
			}
			if err := h.service.SetLanguage(ctx, sessionID, domain.Language(payload.Language)); err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			view, err := h.service.View(ctx, sessionID)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "question", view)

		case "history":
			records, err := h.service.History(ctx)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "history", records)

		case "clearHistory":
			if err := h.service.ClearHistory(ctx); err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "history", []domain.HistoryRecord{})

		case "analytics":
			analytics, err := h.service.Analytics(ctx)
			if err != nil {
				h.writeError(conn, err.Error())
				continue
			}
			h.write(conn, "analytics", analytics)

		default:
			h.writeError(conn, "unsupported message type")
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, msgType string, payload any) {
	if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, message string) {
	h.write(conn, "error", errorPayload{Message: message})
}
