package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"collabBoard/internal/enums"
	"collabBoard/internal/errs"
	"collabBoard/internal/hub"
	"collabBoard/internal/logging"
	"collabBoard/internal/models"
	"collabBoard/internal/models/socket"
	"collabBoard/internal/msgs"
	"collabBoard/internal/services"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type SocketOptions struct {
	// CheckPermission requires view permission on the whiteboard before joining.
	CheckPermission bool
	WriteTimeout    time.Duration
	PongWait        time.Duration
	SendBuffer      int
	MaxMessageSize  int64
}

func (o SocketOptions) withDefaults() SocketOptions {
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 256
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 512 * 1024
	}
	return o
}

// SocketWhiteboardHandler is the websocket gateway for whiteboard rooms.
type SocketWhiteboardHandler struct {
	ctx         context.Context
	upgrader    websocket.Upgrader
	registry    hub.Registry
	broadcaster hub.Broadcaster
	permissions *services.PermissionService
	secret      []byte
	options     SocketOptions

	mu      sync.Mutex
	closing bool
	clients map[*socketClient]struct{}
	wg      sync.WaitGroup
}

// NewSocketWhiteboardHandler may receive a nil permissions service when
// options.CheckPermission is false.
func NewSocketWhiteboardHandler(
	ctx context.Context,
	registry hub.Registry,
	broadcaster hub.Broadcaster,
	permissions *services.PermissionService,
	secret []byte,
	options SocketOptions,
) *SocketWhiteboardHandler {
	return &SocketWhiteboardHandler{
		ctx: ctx,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		registry:    registry,
		broadcaster: broadcaster,
		permissions: permissions,
		secret:      secret,
		options:     options.withDefaults(),
		clients:     make(map[*socketClient]struct{}),
	}
}

// HandleSocketWhiteboardRoute godoc
// @Summary      Join a whiteboard room
// @Description  Upgrades to a websocket. The token travels in the query string; failures close with 1008 and a reason.
// @Tags         realtime
// @Param        whiteboardId  path   int     true  "Whiteboard ID"
// @Param        token         query  string  true  "JWT"
// @Success      101
// @Failure      400  {object}  models.Response
// @Router       /ws/{whiteboardId} [get]
func (swh *SocketWhiteboardHandler) HandleSocketWhiteboardRoute(ctx *gin.Context) {
	whiteboardID, err := utils.ParseID(ctx.Param("whiteboardId"))
	if err != nil {
		abortWithError(ctx, errs.ErrInvalidWhiteboardId)
		return
	}

	conn, err := swh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logging.Warn().Err(err).Uint("whiteboard_id", whiteboardID).Msg("websocket upgrade failed")
		return
	}

	identity, ok := swh.authenticate(ctx.Request.Context(), conn, ctx.Query("token"), whiteboardID)
	if !ok {
		return
	}

	client, ok := swh.join(conn, whiteboardID, identity.UserID)
	if !ok {
		swh.reject(conn, websocket.CloseGoingAway, msgs.CloseReasonShuttingDown)
		return
	}
	client.readPump()
	client.close(websocket.CloseNormalClosure, "")
}

// authenticate closes conn with a policy violation and returns false when
// the caller may not join.
func (swh *SocketWhiteboardHandler) authenticate(
	ctx context.Context,
	conn *websocket.Conn,
	token string,
	whiteboardID uint,
) (models.Identity, bool) {
	if token == "" {
		swh.reject(conn, websocket.ClosePolicyViolation, msgs.CloseReasonMissingToken)
		return models.Identity{}, false
	}

	claims, err := utils.VerifyToken(token, swh.secret)
	if err != nil {
		logging.Debug().Err(err).Uint("whiteboard_id", whiteboardID).Msg("websocket token rejected")
		swh.reject(conn, websocket.ClosePolicyViolation, msgs.CloseReasonInvalidToken)
		return models.Identity{}, false
	}
	identity := claims.ToIdentity()

	if !swh.options.CheckPermission {
		return identity, true
	}

	_, err = swh.permissions.Require(ctx, identity, whiteboardID, enums.PERMISSION_VIEW)
	switch {
	case err == nil:
		return identity, true
	case errors.Is(err, errs.ErrWhiteboardNotFound):
		swh.reject(conn, websocket.ClosePolicyViolation, msgs.CloseReasonWhiteboardNotFound)
	case errors.Is(err, errs.ErrPermissionDenied):
		swh.reject(conn, websocket.ClosePolicyViolation, msgs.CloseReasonPermissionDenied)
	default:
		logging.Error().Err(err).Uint("whiteboard_id", whiteboardID).Msg("websocket admission check failed")
		swh.reject(conn, websocket.CloseInternalServerErr, errs.ErrInternal.Error())
	}
	return models.Identity{}, false
}

func (swh *SocketWhiteboardHandler) reject(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(swh.options.WriteTimeout)
	if err := conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline); err != nil {
		logging.Debug().Err(err).Msg("websocket close frame not sent")
	}
	_ = conn.Close()
}

// join returns false once Shutdown has started.
func (swh *SocketWhiteboardHandler) join(conn *websocket.Conn, whiteboardID, userID uint) (*socketClient, bool) {
	swh.mu.Lock()
	if swh.closing {
		swh.mu.Unlock()
		return nil, false
	}

	client := &socketClient{
		handler:      swh,
		conn:         conn,
		whiteboardID: whiteboardID,
		userID:       userID,
		send:         make(chan []byte, swh.options.SendBuffer),
		done:         make(chan struct{}),
		closeCode:    websocket.CloseNormalClosure,
	}
	client.member = swh.registry.Register(whiteboardID, userID, client)
	swh.clients[client] = struct{}{}
	swh.wg.Add(1)
	swh.mu.Unlock()

	go client.writePump()

	logging.Info().
		Uint("whiteboard_id", whiteboardID).
		Uint("user_id", userID).
		Str("conn_id", client.member.ConnectionID).
		Msg("client joined")

	swh.broadcast(whiteboardID, socket.NewUserJoinedEvent(userID), hub.ExcludeConnection(client.member.ConnectionID))
	swh.broadcast(whiteboardID, socket.NewOnlineUsersEvent(swh.registry.OnlineUserIDs(whiteboardID)), hub.Exclude{})
	return client, true
}

func (swh *SocketWhiteboardHandler) leave(client *socketClient) {
	swh.mu.Lock()
	delete(swh.clients, client)
	swh.mu.Unlock()

	if _, ok := swh.registry.Unregister(client.member.ConnectionID); !ok {
		return
	}

	logging.Info().
		Uint("whiteboard_id", client.whiteboardID).
		Uint("user_id", client.userID).
		Str("conn_id", client.member.ConnectionID).
		Msg("client left")

	swh.broadcast(client.whiteboardID, socket.NewUserLeftEvent(client.userID), hub.Exclude{})
}

func (swh *SocketWhiteboardHandler) broadcast(whiteboardID uint, event any, exclude hub.Exclude) {
	if err := swh.broadcaster.Broadcast(swh.ctx, whiteboardID, event, exclude); err != nil {
		logging.Warn().Err(err).Uint("whiteboard_id", whiteboardID).Msg("broadcast failed")
	}
}

// Shutdown closes every live connection with 1001, refuses new joins and waits
// for the writers to finish or ctx to expire.
func (swh *SocketWhiteboardHandler) Shutdown(ctx context.Context) error {
	swh.mu.Lock()
	swh.closing = true
	clients := make([]*socketClient, 0, len(swh.clients))
	for client := range swh.clients {
		clients = append(clients, client)
	}
	swh.mu.Unlock()

	for _, client := range clients {
		client.close(websocket.CloseGoingAway, "")
	}

	finished := make(chan struct{})
	go func() {
		swh.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// socketClient is one joined connection. It satisfies hub.Sender.
type socketClient struct {
	handler      *SocketWhiteboardHandler
	conn         *websocket.Conn
	member       hub.Member
	whiteboardID uint
	userID       uint

	send chan []byte
	done chan struct{}

	closeOnce   sync.Once
	closeCode   int
	closeReason string
}

// Enqueue never blocks; false means the frame was dropped.
func (c *socketClient) Enqueue(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// close runs the leave sequence once: the connection is unregistered before
// user_left goes out, so the departing client never receives its own event.
func (c *socketClient) close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.closeCode = code
		c.closeReason = reason
		close(c.done)
		c.handler.leave(c)
	})
}

func (c *socketClient) readPump() {
	opts := c.handler.options
	c.conn.SetReadLimit(opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(opts.PongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug().Err(err).Str("conn_id", c.member.ConnectionID).Msg("websocket read failed")
			}
			return
		}

		if messageType != websocket.TextMessage {
			logging.Warn().
				Uint("whiteboard_id", c.whiteboardID).
				Uint("user_id", c.userID).
				Msg("closing connection on binary frame")
			c.close(websocket.CloseUnsupportedData, "Text frames only")
			return
		}

		if !json.Valid(data) {
			logging.Warn().
				Uint("whiteboard_id", c.whiteboardID).
				Uint("user_id", c.userID).
				Msg("closing connection on invalid JSON frame")
			c.close(websocket.CloseInvalidFramePayloadData, "Invalid JSON")
			return
		}

		c.handler.broadcast(c.whiteboardID, json.RawMessage(data), hub.ExcludeUser(c.userID))
	}
}

func (c *socketClient) writePump() {
	opts := c.handler.options
	ticker := time.NewTicker(opts.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		c.handler.wg.Done()
	}()

	for {
		select {
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Str("conn_id", c.member.ConnectionID).Msg("websocket write failed")
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close(websocket.CloseAbnormalClosure, "")
				return
			}
		case <-c.done:
			if c.closeCode != websocket.CloseAbnormalClosure {
				deadline := time.Now().Add(opts.WriteTimeout)
				_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(c.closeCode, c.closeReason), deadline)
			}
			return
		}
	}
}
