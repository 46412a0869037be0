package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"collabBoard/internal/enums"
	"collabBoard/internal/hub"
	"collabBoard/internal/logging"
	"collabBoard/internal/models"
	"collabBoard/internal/repositories"
	"collabBoard/internal/servers/database"
	"collabBoard/internal/services"
	"collabBoard/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handlers-test-secret")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.Init(logging.Config{Output: io.Discard})
	InitPrometheus()
	m.Run()
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	token, err := utils.CreateJwtToken(userID, testSecret, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

type restFixture struct {
	router      *gin.Engine
	whiteboards *repositories.WhiteboardRepository
	objects     *repositories.CanvasObjectRepository
	locks       *services.LockCoordinator
	permissions *services.PermissionService
}

func newRestFixture(t *testing.T) *restFixture {
	t.Helper()
	db := database.OpenTestDB(t)

	whiteboardRepo := repositories.NewWhiteboardRepository(db)
	permissionRepo := repositories.NewPermissionRepository(db)
	objectRepo := repositories.NewCanvasObjectRepository(db)

	broadcaster := hub.NewRouter(hub.NewMemoryRegistry())
	permissions := services.NewPermissionService(whiteboardRepo, permissionRepo)
	locks := services.NewLockCoordinator(objectRepo, permissions, broadcaster)

	rh := NewRestHandler(
		services.NewWhiteboardService(whiteboardRepo, permissionRepo, permissions),
		services.NewCanvasService(objectRepo, permissions, locks),
		locks,
		services.NewFileManagerService(nil, permissions, "canvas-images"),
	)

	router := gin.New()
	router.GET("/health", Health)
	api := router.Group("/api", MustAuthenticateMiddleware(testSecret))
	rh.RegisterRoutes(api)

	return &restFixture{
		router:      router,
		whiteboards: whiteboardRepo,
		objects:     objectRepo,
		locks:       locks,
		permissions: permissions,
	}
}

func (f *restFixture) seedWhiteboard(t *testing.T, ownerID uint) *models.Whiteboard {
	t.Helper()
	whiteboard := &models.Whiteboard{Name: "board", OwnerID: ownerID}
	require.NoError(t, f.whiteboards.Create(context.Background(), whiteboard))
	return whiteboard
}

func (f *restFixture) seedObject(t *testing.T, whiteboardID, createdBy uint) *models.CanvasObject {
	t.Helper()
	object := &models.CanvasObject{
		WhiteboardID: whiteboardID,
		ObjectType:   enums.OBJECT_TYPE_RECTANGLE,
		Color:        "#000000",
		StrokeWidth:  2,
		CreatedBy:    createdBy,
	}
	require.NoError(t, f.objects.Create(context.Background(), object))
	return object
}

// do sends body as JSON with userID's bearer token; userID 0 sends no token.
func (f *restFixture) do(t *testing.T, method, path string, userID uint, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			reader = strings.NewReader(s)
		} else {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, userID))
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []any           `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
