// Package signal is the websocket transport adapter: it owns connections,
// their read/write pumps, and the decoding of inbound wire events into
// coordinator calls.
package signal

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"huddle/internal/app"
	"huddle/internal/config"
	"huddle/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Coord    *app.Coordinator
	Limiter  *ChatLimiter
	upgrader websocket.Upgrader
	cfg      *config.Config
}

func NewController(cfg *config.Config, coord *app.Coordinator) *Controller {
	return &Controller{
		Coord:   coord,
		Limiter: NewChatLimiter(cfg.ChatBurst, cfg.ChatInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(cfg.AllowedOrigins),
		},
		cfg: cfg,
	}
}

// wsConn wraps a websocket connection with a bounded send buffer.
// TrySend never blocks; a full buffer surfaces as backpressure.
type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and registers a fresh connection id.
// The id is unique per live connection; reconnects get a new one.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("new WS connection")

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Coord.Registry.Bind(cid, conn, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
