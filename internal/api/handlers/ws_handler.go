package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/recrutai/platform/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WSHandler streams a company's external connection status while the hosted
// auth page is open in another tab.
type WSHandler struct {
	links    services.CompanyLinkService
	redis    *redis.Client
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(links services.CompanyLinkService, rdb *redis.Client, allowedOrigins []string, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		links: links,
		redis: rdb,
		log:   log,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

// originChecker allows requests without an Origin header (non-browser
// clients) and browser requests from one of allowed. An empty list allows all.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			set[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}

type wsClientMsg struct {
	Type string `json:"type"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (w *wsConn) writeJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.writeText(b)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (h *WSHandler) sendStatus(ctx context.Context, wc *wsConn, companyID string) error {
	st, err := h.links.Status(ctx, companyID)
	if err != nil {
		return wc.writeText([]byte(`{"type":"error","code":"INTERNAL","message":"failed to load status"}`))
	}
	return wc.writeJSON(services.LinkStatusMessage{Type: "status", ExternalLinkStatus: *st})
}

// CompanyStatusWS relays status changes published for the signed-in company.
// Clients may send {"type":"refresh"} to receive the current status again.
func (h *WSHandler) CompanyStatusWS(c *gin.Context) {
	companyID, ok := requireUserID(c)
	if !ok {
		return
	}

	// resolve before upgrading so a missing company is a plain HTTP error
	if _, err := h.links.Status(c.Request.Context(), companyID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.LinkStatusChannel(companyID))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.WithError(err).WithField("company_id", companyID).Warn("status subscribe failed")
		_ = wc.writeText([]byte(`{"type":"error","code":"UNAVAILABLE","message":"status stream unavailable"}`))
		return
	}

	if err := h.sendStatus(ctx, wc, companyID); err != nil {
		return
	}

	// reader: keeps the connection alive and answers refresh requests
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var msg wsClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			switch msg.Type {
			case "refresh":
				if err := h.sendStatus(ctx, wc, companyID); err != nil {
					return
				}
			case "ping":
				_ = wc.writeText([]byte(`{"type":"pong"}`))
			default:
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"unknown message type"}`))
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	// writer: Redis Pub/Sub -> WS
	msgs := pubsub.Channel()
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.ping(); err != nil {
				return
			}
		case m, ok := <-msgs:
			if !ok {
				return
			}
			// forwarded as-is, publishers send LinkStatusMessage JSON
			if err := wc.writeText([]byte(m.Payload)); err != nil {
				return
			}
		}
	}
}
