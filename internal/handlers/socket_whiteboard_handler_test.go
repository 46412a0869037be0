package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collabBoard/internal/hub"
	"collabBoard/internal/models"
	"collabBoard/internal/msgs"
	"collabBoard/internal/repositories"
	"collabBoard/internal/servers/database"
	"collabBoard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatewayFixture struct {
	server   *httptest.Server
	registry *hub.MemoryRegistry
	handler  *SocketWhiteboardHandler
}

func newGatewayFixture(t *testing.T, permissions *services.PermissionService) *gatewayFixture {
	t.Helper()
	registry := hub.NewMemoryRegistry()
	handler := NewSocketWhiteboardHandler(
		context.Background(),
		registry,
		hub.NewRouter(registry),
		permissions,
		testSecret,
		SocketOptions{CheckPermission: permissions != nil},
	)

	router := gin.New()
	handler.RegisterRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &gatewayFixture{server: server, registry: registry, handler: handler}
}

func (f *gatewayFixture) dial(t *testing.T, whiteboardID uint, token string) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws%s/ws/%d", strings.TrimPrefix(f.server.URL, "http"), whiteboardID)
	if token != "" {
		url += "?token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]any
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

// readUntil skips frames until one of the given type arrives and returns its raw bytes.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) []byte {
	t.Helper()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", eventType)
		var event map[string]any
		if json.Unmarshal(data, &event) == nil && event["type"] == eventType {
			return data
		}
	}
}

// typesUntil returns the types of every frame read up to and including eventType.
func typesUntil(t *testing.T, conn *websocket.Conn, eventType string) []string {
	t.Helper()
	var seen []string
	for {
		event := readEvent(t, conn)
		typ, _ := event["type"].(string)
		seen = append(seen, typ)
		if typ == eventType {
			return seen
		}
	}
}

func expectClose(t *testing.T, conn *websocket.Conn, code int, reason string) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.True(t, errors.As(err, &closeErr), "expected close frame, got %v", err)
	assert.Equal(t, code, closeErr.Code)
	assert.Equal(t, reason, closeErr.Text)
}

func TestGateway_JoinRelayLeave(t *testing.T) {
	f := newGatewayFixture(t, nil)

	a := f.dial(t, 7, tokenFor(t, 1))
	roster := readEvent(t, a)
	assert.Equal(t, "online_users", roster["type"])
	assert.Equal(t, []any{float64(1)}, roster["users"])

	b := f.dial(t, 7, tokenFor(t, 2))

	joined := readEvent(t, a)
	assert.Equal(t, "user_joined", joined["type"])
	assert.EqualValues(t, 2, joined["user_id"])

	roster = readEvent(t, a)
	assert.Equal(t, "online_users", roster["type"])
	assert.ElementsMatch(t, []any{float64(1), float64(2)}, roster["users"])

	roster = readEvent(t, b)
	assert.Equal(t, "online_users", roster["type"], "the joiner does not see its own user_joined")

	move := `{"type":"move","id":5,"x":10,"y":20}`
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(move)))
	assert.Equal(t, move, string(readUntil(t, b, "move")))

	require.NoError(t, a.Close())
	left := readUntil(t, b, "user_left")
	assert.JSONEq(t, `{"type":"user_left","user_id":1}`, string(left))

	assert.Eventually(t, func() bool {
		return len(f.registry.Members(7)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGateway_SenderDoesNotReceiveOwnRelay(t *testing.T) {
	f := newGatewayFixture(t, nil)

	a1 := f.dial(t, 3, tokenFor(t, 1))
	readUntil(t, a1, "online_users")
	a2 := f.dial(t, 3, tokenFor(t, 1))
	readUntil(t, a2, "online_users")
	b := f.dial(t, 3, tokenFor(t, 2))
	readUntil(t, b, "online_users")

	require.NoError(t, a1.WriteMessage(websocket.TextMessage, []byte(`{"type":"draw"}`)))
	readUntil(t, b, "draw")
	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte(`{"type":"marker"}`)))

	// a2 shares the sender's user id, so the draw must not precede the marker.
	assert.NotContains(t, typesUntil(t, a2, "marker"), "draw")
	assert.NotContains(t, typesUntil(t, a1, "marker"), "draw")
}

func TestGateway_RoomsAreIsolated(t *testing.T) {
	f := newGatewayFixture(t, nil)

	a := f.dial(t, 1, tokenFor(t, 1))
	readUntil(t, a, "online_users")
	d := f.dial(t, 1, tokenFor(t, 4))
	readUntil(t, d, "online_users")
	b := f.dial(t, 2, tokenFor(t, 2))
	readUntil(t, b, "online_users")
	c := f.dial(t, 2, tokenFor(t, 3))
	readUntil(t, c, "online_users")

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{"type":"room-1"}`)))
	readUntil(t, d, "room-1")
	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte(`{"type":"room-2"}`)))

	assert.NotContains(t, typesUntil(t, b, "room-2"), "room-1")
}

func TestGateway_InvalidJSONClosesConnection(t *testing.T) {
	f := newGatewayFixture(t, nil)

	a := f.dial(t, 9, tokenFor(t, 1))
	readUntil(t, a, "online_users")
	b := f.dial(t, 9, tokenFor(t, 2))
	readUntil(t, b, "online_users")

	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte(`{not json`)))

	left := readUntil(t, b, "user_left")
	assert.JSONEq(t, `{"type":"user_left","user_id":1}`, string(left))
	assert.Eventually(t, func() bool {
		return len(f.registry.Members(9)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGateway_BinaryFrameClosesConnection(t *testing.T) {
	f := newGatewayFixture(t, nil)

	a := f.dial(t, 11, tokenFor(t, 1))
	readUntil(t, a, "online_users")
	b := f.dial(t, 11, tokenFor(t, 2))
	readUntil(t, b, "online_users")
	readUntil(t, a, "online_users")

	require.NoError(t, a.WriteMessage(websocket.BinaryMessage, []byte(`{"type":"move"}`)))

	expectClose(t, a, websocket.CloseUnsupportedData, "Text frames only")
	left := readUntil(t, b, "user_left")
	assert.JSONEq(t, `{"type":"user_left","user_id":1}`, string(left))
	assert.Eventually(t, func() bool {
		return len(f.registry.Members(11)) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGateway_MissingToken(t *testing.T) {
	f := newGatewayFixture(t, nil)

	conn := f.dial(t, 7, "")

	expectClose(t, conn, websocket.ClosePolicyViolation, msgs.CloseReasonMissingToken)
	assert.Zero(t, f.registry.ConnectionCount())
}

func TestGateway_InvalidToken(t *testing.T) {
	f := newGatewayFixture(t, nil)

	conn := f.dial(t, 7, "garbage")

	expectClose(t, conn, websocket.ClosePolicyViolation, msgs.CloseReasonInvalidToken)
	assert.Zero(t, f.registry.ConnectionCount())
}

func TestGateway_TokenWithoutExpiry(t *testing.T) {
	f := newGatewayFixture(t, nil)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1}).SignedString(testSecret)
	require.NoError(t, err)
	conn := f.dial(t, 7, token)

	expectClose(t, conn, websocket.ClosePolicyViolation, msgs.CloseReasonInvalidToken)
	assert.Zero(t, f.registry.ConnectionCount())
}

func TestGateway_AdmissionCheck(t *testing.T) {
	db := database.OpenTestDB(t)
	whiteboardRepo := repositories.NewWhiteboardRepository(db)
	permissions := services.NewPermissionService(whiteboardRepo, repositories.NewPermissionRepository(db))

	whiteboard := &models.Whiteboard{Name: "private", OwnerID: 1}
	require.NoError(t, whiteboardRepo.Create(context.Background(), whiteboard))

	f := newGatewayFixture(t, permissions)

	denied := f.dial(t, whiteboard.ID, tokenFor(t, 2))
	expectClose(t, denied, websocket.ClosePolicyViolation, msgs.CloseReasonPermissionDenied)

	missing := f.dial(t, whiteboard.ID+100, tokenFor(t, 1))
	expectClose(t, missing, websocket.ClosePolicyViolation, msgs.CloseReasonWhiteboardNotFound)

	owner := f.dial(t, whiteboard.ID, tokenFor(t, 1))
	roster := readEvent(t, owner)
	assert.Equal(t, "online_users", roster["type"])
}

func TestGateway_Shutdown(t *testing.T) {
	f := newGatewayFixture(t, nil)

	conn := f.dial(t, 4, tokenFor(t, 1))
	readUntil(t, conn, "online_users")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.handler.Shutdown(ctx))

	expectClose(t, conn, websocket.CloseGoingAway, "")
	assert.Zero(t, f.registry.ConnectionCount())
}

func TestGateway_RefusesJoinAfterShutdown(t *testing.T) {
	f := newGatewayFixture(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.handler.Shutdown(ctx))

	conn := f.dial(t, 4, tokenFor(t, 1))

	expectClose(t, conn, websocket.CloseGoingAway, msgs.CloseReasonShuttingDown)
	assert.Zero(t, f.registry.ConnectionCount())
	require.NoError(t, f.handler.Shutdown(ctx), "a second drain has nothing left to wait for")
}
