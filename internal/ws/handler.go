package ws

import (
	"net/http"
	"sync"
	"time"

	"kamgar-sahayak/backend/internal/models"
	"kamgar-sahayak/backend/internal/service"
	apperrors "kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024 // 64KB
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// errorFrame is sent to the peer when a query cannot be relayed
type errorFrame struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// peer serializes all writes to one connection. gorilla/websocket allows
// only one concurrent writer; replies from the session loop and pings from
// the keepalive goroutine must not interleave.
type peer struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (p *peer) writeJSON(v interface{}) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(v)
}

func (p *peer) ping() error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteMessage(websocket.PingMessage, nil)
}

// Handler relays chat queries arriving over a WebSocket connection through
// the same pipeline as the HTTP chat endpoint. Each inbound frame is one
// ChatRequest; each outbound frame is the matching ChatResponse or an error.
type Handler struct {
	chatService *service.ChatService
	logger      *logger.Logger
	pingPeriod  time.Duration
}

// NewHandler creates a WebSocket chat handler
func NewHandler(chatService *service.ChatService, logger *logger.Logger) *Handler {
	return &Handler{
		chatService: chatService,
		logger:      logger,
		pingPeriod:  pingPeriod,
	}
}

// ServeWS upgrades the request and runs the session loop until the peer
// disconnects
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err.Error())
		return
	}

	h.logger.Info("WebSocket session started", "remote", conn.RemoteAddr().String())
	h.session(c, &peer{conn: conn}, c.Query("user_id"))
}

func (h *Handler) session(c *gin.Context, p *peer, defaultUserID string) {
	defer p.conn.Close()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(p, done)

	for {
		var req models.ChatRequest
		if err := p.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err.Error())
			}
			return
		}

		if req.UserID == "" {
			req.UserID = defaultUserID
		}

		resp, err := h.chatService.HandleMessage(c.Request.Context(), req.UserID, req.QueryText, req.Language)
		if err != nil {
			if writeErr := h.writeError(p, err); writeErr != nil {
				return
			}
			continue
		}

		if err := p.writeJSON(resp); err != nil {
			h.logger.Warn("WebSocket write error", "error", err.Error())
			return
		}
	}
}

func (h *Handler) writeError(p *peer, err error) error {
	appErr := apperrors.FromError(err)

	var frame errorFrame
	frame.Error.Code = appErr.Code
	frame.Error.Message = appErr.Message

	return p.writeJSON(frame)
}

func (h *Handler) pingLoop(p *peer, done <-chan struct{}) {
	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
