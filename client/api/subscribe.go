package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/steakz-restaurant/models"
)

// ErrNoToken is returned when subscribing without a session.
var ErrNoToken = errors.New("api: no session token")

type pushMessage struct {
	Event string            `json:"event"`
	Data  models.OrderEvent `json:"data"`
}

// EventStream is an open order event subscription.
type EventStream struct {
	ctx       context.Context
	conn      *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) socketURL() (string, error) {
	u, err := url.Parse(c.baseURL + "/ws/orders")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	q := u.Query()
	q.Set("token", c.token())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// DialOrderEvents opens the order event stream. The stream closes when ctx
// ends or Close is called.
func (c *Client) DialOrderEvents(ctx context.Context) (*EventStream, error) {
	if strings.TrimSpace(c.token()) == "" {
		return nil, ErrNoToken
	}
	target, err := c.socketURL()
	if err != nil {
		return nil, err
	}
	conn, resp, err := c.dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil {
			return nil, &Error{StatusCode: resp.StatusCode, Message: "websocket handshake rejected"}
		}
		return nil, fmt.Errorf("dial order events: %w", err)
	}

	s := &EventStream{ctx: ctx, conn: conn, done: make(chan struct{})}
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
	c.log.Debug("subscribed to order events")
	return s, nil
}

// Next blocks for the next event. After the stream's context ends it returns
// the context's error.
func (s *EventStream) Next() (models.OrderEvent, error) {
	var msg pushMessage
	if err := s.conn.ReadJSON(&msg); err != nil {
		if s.ctx.Err() != nil {
			return models.OrderEvent{}, s.ctx.Err()
		}
		return models.OrderEvent{}, fmt.Errorf("read order event: %w", err)
	}
	return msg.Data, nil
}

func (s *EventStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = s.conn.Close()
	})
	return err
}

// SubscribeOrderEvents streams order events to handler until ctx ends or the
// connection drops. It returns nil only when ctx was cancelled.
func (c *Client) SubscribeOrderEvents(ctx context.Context, handler func(models.OrderEvent)) error {
	stream, err := c.DialOrderEvents(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	for {
		ev, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		handler(ev)
	}
}
