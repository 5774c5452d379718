package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/TorikulIslamHira/geofranzy-sub002/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var errChannelFull = errors.New("channel send buffer full")

// WSChannel adapts a gorilla websocket connection to the Channel contract.
// Writes go through a buffered queue drained by a single writer goroutine;
// Send never blocks the broadcaster.
type WSChannel struct {
	conn     *websocket.Conn
	logger   *slog.Logger
	sendCh   chan domain.Event
	done     chan struct{}
	doneOnce sync.Once
}

func NewWSChannel(conn *websocket.Conn, logger *slog.Logger) *WSChannel {
	c := &WSChannel{
		conn:   conn,
		logger: logger,
		sendCh: make(chan domain.Event, sendBuffer),
		done:   make(chan struct{}),
	}
	go c.writePump()
	return c
}

func (c *WSChannel) Send(event domain.Event) error {
	select {
	case <-c.done:
		return errors.New("channel closed")
	default:
	}

	select {
	case c.sendCh <- event:
		return nil
	default:
		return errChannelFull
	}
}

func (c *WSChannel) Close() error {
	c.shutdown()
	return c.conn.Close()
}

// Done is closed once the channel stops delivering, letting the HTTP
// handler unwind its read loop.
func (c *WSChannel) Done() <-chan struct{} {
	return c.done
}

func (c *WSChannel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event := <-c.sendCh:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Debug("websocket write failed", slog.Any("error", err))
				c.shutdown()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *WSChannel) shutdown() {
	c.doneOnce.Do(func() { close(c.done) })
}
