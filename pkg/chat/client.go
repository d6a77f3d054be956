// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package chat implements the group messaging collaborator over a
// OneBot-v11 compatible websocket endpoint (go-cqhttp and friends).
//
// Outbound API calls are correlated with responses through the protocol's
// echo field. Sends are never retried; a failed call surfaces as an error to
// the caller, which treats messaging as best-effort.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-party-duel/pkg/game"
)

const defaultCallTimeout = 10 * time.Second

// EventHandler receives decoded group message events from the read loop.
type EventHandler interface {
	HandleGroupMessage(ctx context.Context, evt GroupMessageEvent)
}

// Client is a OneBot websocket client implementing game.Messenger.
type Client struct {
	url         string
	accessToken string
	callTimeout time.Duration
	handler     EventHandler

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan apiResponse
}

// Config holds client settings.
type Config struct {
	// URL is the websocket endpoint, e.g. ws://localhost:6700.
	URL string
	// AccessToken is sent as a bearer token when non-empty.
	AccessToken string
	// CallTimeout bounds one API round trip. Zero means 10s.
	CallTimeout time.Duration
}

// NewClient creates a client. Run must be called before any API call
// succeeds.
func NewClient(cfg Config, handler EventHandler) *Client {
	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = defaultCallTimeout
	}
	return &Client{
		url:         cfg.URL,
		accessToken: cfg.AccessToken,
		callTimeout: timeout,
		handler:     handler,
		pending:     make(map[string]chan apiResponse),
	}
}

// Run connects to the endpoint and pumps events until ctx is canceled.
// Lost connections are re-established with exponential backoff; calls made
// while disconnected fail immediately.
func (c *Client) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0 // keep reconnecting for the process lifetime

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, err := c.dial(ctx)
		if err != nil {
			wait := b.NextBackOff()
			logrus.Warnf("chat endpoint connection failed: %v, retrying in %v...", err, wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		logrus.Infof("connected to chat endpoint %s", c.url)
		b.Reset()

		c.setConn(conn)
		err = c.readLoop(ctx, conn)
		c.setConn(nil)
		c.failPending()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.Warnf("chat endpoint read loop ended: %v, reconnecting...", err)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	opts := &websocket.DialOptions{}
	if c.accessToken != "" {
		opts.HTTPHeader = http.Header{"Authorization": []string{"Bearer " + c.accessToken}}
	}
	conn, _, err := websocket.Dial(ctx, c.url, opts)
	if err != nil {
		return nil, err
	}
	// Frames carry whole JSON payloads; the default 32 KiB cap is too small
	// for member lists.
	conn.SetReadLimit(1 << 20)
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// readLoop decodes frames: API responses are routed to their waiting caller
// by echo; events are handed to the event handler.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var frame struct {
			Echo     string `json:"echo"`
			PostType string `json:"post_type"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			logrus.Debugf("ignoring malformed frame: %v", err)
			continue
		}

		switch {
		case frame.Echo != "":
			var resp apiResponse
			if err := json.Unmarshal(data, &resp); err != nil {
				logrus.Debugf("ignoring malformed response frame: %v", err)
				continue
			}
			c.resolvePending(resp)
		case frame.PostType == "message":
			evt, ok := decodeGroupMessage(data)
			if !ok {
				continue
			}
			// Handled off the read loop; the dispatcher serializes per
			// group.
			go c.handler.HandleGroupMessage(ctx, evt)
		}
	}
}

type apiRequest struct {
	Action string      `json:"action"`
	Params interface{} `json:"params,omitempty"`
	Echo   string      `json:"echo"`
}

type apiResponse struct {
	Status  string          `json:"status"`
	Retcode int             `json:"retcode"`
	Data    json.RawMessage `json:"data"`
	Echo    string          `json:"echo"`
}

func (c *Client) resolvePending(resp apiResponse) {
	c.mu.Lock()
	ch, ok := c.pending[resp.Echo]
	if ok {
		delete(c.pending, resp.Echo)
	}
	c.mu.Unlock()
	if ok {
		ch <- resp
	}
}

// failPending drops all in-flight call registrations. Abandoned waiters time
// out on their own; dropping the map guarantees no stale echo routes into a
// new connection's call.
func (c *Client) failPending() {
	c.mu.Lock()
	c.pending = make(map[string]chan apiResponse)
	c.mu.Unlock()
}

// call performs one API round trip. out, when non-nil, receives the decoded
// data payload.
func (c *Client) call(ctx context.Context, action string, params interface{}, out interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("chat endpoint not connected")
	}

	echo := uuid.NewString()
	ch := make(chan apiResponse, 1)
	c.mu.Lock()
	c.pending[echo] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, echo)
		c.mu.Unlock()
	}()

	payload, err := json.Marshal(apiRequest{Action: action, Params: params, Echo: echo})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("failed to send %s request: %w", action, err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s call timed out: %w", action, ctx.Err())
	case resp := <-ch:
		if resp.Retcode != 0 {
			return fmt.Errorf("%s call failed: status=%s retcode=%d", action, resp.Status, resp.Retcode)
		}
		if out != nil && len(resp.Data) > 0 {
			if err := json.Unmarshal(resp.Data, out); err != nil {
				return fmt.Errorf("failed to decode %s response: %w", action, err)
			}
		}
		return nil
	}
}

// SendGroupMessage delivers text to a group and returns the message handle.
func (c *Client) SendGroupMessage(ctx context.Context, groupID int64, text string) (game.MessageRef, error) {
	var data struct {
		MessageID int64 `json:"message_id"`
	}
	err := c.call(ctx, "send_group_msg", map[string]interface{}{
		"group_id": groupID,
		"message":  text,
	}, &data)
	if err != nil {
		return 0, err
	}
	return game.MessageRef(data.MessageID), nil
}

// DeleteMessage retracts a previously sent message.
func (c *Client) DeleteMessage(ctx context.Context, ref game.MessageRef) error {
	return c.call(ctx, "delete_msg", map[string]interface{}{
		"message_id": int64(ref),
	}, nil)
}

// MemberDisplayName resolves "card(nickname)" for a group member, falling
// back to the numeric ID when the lookup fails.
func (c *Client) MemberDisplayName(ctx context.Context, groupID, playerID int64) string {
	var data struct {
		Card     string `json:"card"`
		Nickname string `json:"nickname"`
	}
	err := c.call(ctx, "get_group_member_info", map[string]interface{}{
		"group_id": groupID,
		"user_id":  playerID,
	}, &data)
	if err != nil {
		logrus.Debugf("failed to resolve display name for %d in group %d: %v", playerID, groupID, err)
		return strconv.FormatInt(playerID, 10)
	}
	if data.Card == "" {
		return data.Nickname
	}
	return fmt.Sprintf("%s(%s)", data.Card, data.Nickname)
}

// Mention renders an at-reference in the endpoint's message syntax.
func (c *Client) Mention(playerID int64) string {
	return fmt.Sprintf("[CQ:at,qq=%d]", playerID)
}
