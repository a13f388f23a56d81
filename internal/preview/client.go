package preview

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type client struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	// one slot; only the newest message waits
	out chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, writeTimeout time.Duration) *client {
	return &client{
		conn:         conn,
		writeTimeout: writeTimeout,
		out:          make(chan []byte, 1),
		done:         make(chan struct{}),
	}
}

// offer queues msg, replacing any message the client has not picked up yet.
// It reports false when a stale message was dropped.
func (c *client) offer(msg []byte) bool {
	select {
	case c.out <- msg:
		return true
	default:
	}
	select {
	case <-c.out:
	default:
	}
	select {
	case c.out <- msg:
	default:
	}
	return false
}

func (c *client) writeLoop(log *zap.Logger) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.out:
			if c.writeTimeout > 0 {
				c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug("websocket write", zap.Error(err))
				c.close()
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
