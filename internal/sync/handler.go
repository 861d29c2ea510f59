package sync

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

type Handler struct {
	syncer *Syncer
}

func NewHandler(syncer *Syncer) *Handler {
	return &Handler{syncer: syncer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/sync", h.RunSync)
	api.GET("/sync/status", h.SyncStatus)
}

// RunSync triggers a synchronous sync run and returns its report.
func (h *Handler) RunSync(c echo.Context) error {
	report, err := h.syncer.Run(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) SyncStatus(c echo.Context) error {
	status, err := h.syncer.Status(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(apperr.HTTPStatus(err), err.Error())
	}
	return c.JSON(http.StatusOK, status)
}
