package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssps-place/place-backend/internal/model"
	"github.com/ssps-place/place-backend/internal/service"
	"github.com/ssps-place/place-backend/internal/ws"
)

type discardConn struct{}

func (discardConn) WriteJSON(v interface{}) error { return nil }

func newTestApp(t *testing.T) (*fiber.App, *service.CanvasManager, *service.Store) {
	t.Helper()

	store := service.NewStore(t.TempDir())
	manager := service.NewCanvasManager(store, service.NewHostnameResolver(), model.NewCooldownTracker(10*time.Second, time.Second))
	placeService := service.NewPlaceService(manager, store)
	cc := NewCanvasController(placeService)

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/canvas/view", cc.ViewCanvas)
	api.Get("/canvas", cc.DownloadCanvas)
	api.Get("/timelapse/view", cc.ViewTimelapse)
	api.Get("/timelapse", cc.DownloadTimelapse)

	return app, manager, store
}

func getJSON(t *testing.T, app *fiber.App, path string, out interface{}) int {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(body, out))
	}
	return resp.StatusCode
}

func TestViewCanvas(t *testing.T) {
	app, manager, _ := newTestApp(t)

	var view struct {
		TotalPixels int               `json:"totalPixels"`
		Data        map[string]string `json:"data"`
	}
	assert.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/canvas/view", &view))
	assert.Zero(t, view.TotalPixels)

	manager.HandlePlacement("127.0.0.1", discardConn{}, ws.PixelRequest{X: 5, Y: 5, Color: "#FFFFFF"})

	assert.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/canvas/view", &view))
	assert.Equal(t, 1, view.TotalPixels)
	assert.Equal(t, "#FFFFFF", view.Data["5,5"])
}

func TestViewTimelapse(t *testing.T) {
	app, manager, _ := newTestApp(t)

	manager.HandlePlacement("127.0.0.1", discardConn{}, ws.PixelRequest{X: 5, Y: 5, Color: "#FFFFFF"})

	var view struct {
		TotalEvents int                    `json:"totalEvents"`
		Data        []model.PlacementEvent `json:"data"`
	}
	assert.Equal(t, fiber.StatusOK, getJSON(t, app, "/api/timelapse/view", &view))
	require.Equal(t, 1, view.TotalEvents)
	assert.Equal(t, "#FFFFFF", view.Data[0].Color)
}

func TestDownloadCanvas(t *testing.T) {
	app, _, store := newTestApp(t)

	t.Run("missing file is 404", func(t *testing.T) {
		assert.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/canvas", nil))
	})

	t.Run("saved file downloads as attachment", func(t *testing.T) {
		store.SaveCanvas(model.CanvasSnapshot{"5,5": "#FFFFFF"})

		resp, err := app.Test(httptest.NewRequest("GET", "/api/canvas", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "ssps-place-canvas.json")
	})
}

func TestDownloadTimelapse(t *testing.T) {
	app, _, store := newTestApp(t)

	assert.Equal(t, fiber.StatusNotFound, getJSON(t, app, "/api/timelapse", nil))

	store.SaveTimelapse([]model.PlacementEvent{{ID: "e0"}})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/timelapse", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
