package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/pkg/core/logging"
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const readTimeout = 120 * time.Second

// WSMessage represents an incoming WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "run", "ping"
	Payload json.RawMessage `json:"payload"` // RunRequest for "run"
}

// WSResponse represents an outgoing WebSocket message
type WSResponse struct {
	Type    string      `json:"type"` // "output", "diagnostic", "done", "error", "pong"
	Payload interface{} `json:"payload,omitempty"`
}

// WSOutputPayload carries one printed line
type WSOutputPayload struct {
	Line string `json:"line"`
}

// WSDiagnosticPayload carries the first error of a run
type WSDiagnosticPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler runs programs over a WebSocket, streaming each
// printed line as it is produced
type WebSocketHandler struct {
	engine          *engine.Engine
	maxProgramBytes int64
	logger          *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(eng *engine.Engine, maxProgramBytes int64, logger *logging.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		engine:          eng,
		maxProgramBytes: maxProgramBytes,
		logger:          logger,
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), &wsConn{conn: conn})
}

// wsConn serializes writes to a connection
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(resp WSResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(resp)
}

func (h *WebSocketHandler) handleConnection(ctx context.Context, c *wsConn) {
	defer c.conn.Close()

	h.logger.Info("WebSocket connection established", "remote", c.conn.RemoteAddr().String())

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	c.conn.SetReadLimit(2*h.maxProgramBytes + 4096)
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "ping":
			h.sendResponse(c, WSResponse{Type: "pong"})

		case "run":
			var req RunRequest
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				h.sendError(c, mdwerror.Wrap(err, "invalid run payload").WithCode(mdwerror.CodeInvalidInput))
				continue
			}
			h.handleRun(ctx, c, req)

		default:
			h.sendError(c, mdwerror.Newf("unknown message type %q", msg.Type).WithCode(mdwerror.CodeInvalidInput))
		}
	}
}

// handleRun runs one program. Messages of a run are sent in order:
// output lines, an optional diagnostic, then done.
func (h *WebSocketHandler) handleRun(ctx context.Context, c *wsConn, req RunRequest) {
	out := &lineWriter{emit: func(line string) {
		h.sendResponse(c, WSResponse{Type: "output", Payload: WSOutputPayload{Line: line}})
	}}

	report, err := runRequest(ctx, h.engine, req, h.maxProgramBytes, out)
	if err != nil {
		h.sendError(c, err)
		return
	}
	out.flush()

	if report.Err != nil {
		h.sendResponse(c, WSResponse{Type: "diagnostic", Payload: WSDiagnosticPayload{
			Message: report.Diagnostic,
			Code:    report.Code.String(),
			Line:    report.Line,
		}})
	}
	h.sendResponse(c, WSResponse{Type: "done", Payload: report})
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(c *wsConn, resp WSResponse) {
	if err := c.send(resp); err != nil {
		h.logger.Warn("WebSocket send error", "error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(c *wsConn, err error) {
	msg := err.Error()
	if e, ok := err.(*mdwerror.Error); ok {
		msg = e.Message()
	}
	h.sendResponse(c, WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Code:    mdwerror.GetCode(err).String(),
			Message: msg,
		},
	})
}

// lineWriter calls emit once per complete line written to it
type lineWriter struct {
	buf  bytes.Buffer
	emit func(string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// flush emits a trailing partial line
func (w *lineWriter) flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}
