package controller

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/ssps-place/place-backend/internal/service"
)

// CanvasController serves the read-only export surface: live JSON views of
// the canvas and timelapse, and downloads of the durable files.
type CanvasController struct {
	placeService *service.PlaceService
}

func NewCanvasController(placeService *service.PlaceService) *CanvasController {
	return &CanvasController{placeService: placeService}
}

func (cc *CanvasController) ViewCanvas(c *fiber.Ctx) error {
	data := cc.placeService.CanvasSnapshot()
	return c.JSON(fiber.Map{
		"totalPixels": len(data),
		"data":        data,
	})
}

func (cc *CanvasController) DownloadCanvas(c *fiber.Ctx) error {
	path := cc.placeService.CanvasFilePath()
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Canvas file not found",
		})
	}
	return c.Download(path, "ssps-place-canvas.json")
}

func (cc *CanvasController) ViewTimelapse(c *fiber.Ctx) error {
	data := cc.placeService.TimelapseEvents()
	return c.JSON(fiber.Map{
		"totalEvents": len(data),
		"data":        data,
	})
}

func (cc *CanvasController) DownloadTimelapse(c *fiber.Ctx) error {
	path := cc.placeService.TimelapseFilePath()
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Timelapse file not found",
		})
	}
	return c.Download(path, "ssps-place-timelapse.json")
}
