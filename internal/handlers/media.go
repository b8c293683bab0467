package handlers

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/chatgridhq/chatgrid/internal/storage"
)

// MediaHandler serves fetched media blobs back out of blob storage.
type MediaHandler struct {
	blobs  storage.Provider
	logger *slog.Logger
}

func NewMediaHandler(log *slog.Logger, blobs storage.Provider) *MediaHandler {
	return &MediaHandler{
		blobs:  blobs,
		logger: log.With(slog.String("handler", "media")),
	}
}

func (h *MediaHandler) Register(e *echo.Echo) {
	e.GET("/media/:channel_id/:file", h.Serve)
}

func (h *MediaHandler) Serve(c echo.Context) error {
	channelID := c.Param("channel_id")
	file := c.Param("file")
	if channelID == "" || file == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing media key")
	}

	key := path.Join(channelID, file)
	reader, err := h.blobs.Open(c.Request().Context(), key)
	if err != nil {
		h.logger.Debug("media blob not found", slog.String("key", key))
		return echo.NewHTTPError(http.StatusNotFound, "media not found")
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, "application/octet-stream", reader)
}
