package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
	"github.com/fyrsmithlabs/nominationd/internal/store"
)

// handleScan runs a directory scan and reports its summary.
func (s *Server) handleScan(c echo.Context) error {
	result, err := s.scanner.ScanDir(c.Request().Context())
	if err != nil {
		s.logger.Error("scan failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "scan failed")
	}
	return c.JSON(http.StatusOK, result)
}

// handleList returns a filtered, sorted page of nominations.
func (s *Server) handleList(c echo.Context) error {
	filter := store.ListFilter{
		Status:    c.QueryParam("status"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	result, err := s.store.List(c.Request().Context(), filter)
	if errors.Is(err, store.ErrInvalidFilter) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		s.logger.Error("listing nominations failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch nominations")
	}
	return c.JSON(http.StatusOK, result)
}

// handleStats returns nomination counts per status window.
func (s *Server) handleStats(c echo.Context) error {
	stats, err := s.store.StatsSummary(c.Request().Context(), contract.CivilDate{})
	if err != nil {
		s.logger.Error("stats failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch stats")
	}
	return c.JSON(http.StatusOK, stats)
}

// handleCreate persists a manually entered nomination.
func (s *Server) handleCreate(c echo.Context) error {
	var n store.Nomination
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if n.ContractName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contract_name is required")
	}
	if n.Party == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "for_seller_or_buyer is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	if err := s.store.Insert(c.Request().Context(), &n); err != nil {
		s.logger.Error("creating nomination failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create nomination")
	}
	return c.JSON(http.StatusCreated, &n)
}

// handleGet returns one nomination.
func (s *Server) handleGet(c echo.Context) error {
	n, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		s.logger.Error("getting nomination failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, n)
}

// handleUpdate overwrites a nomination's mutable fields.
func (s *Server) handleUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := s.store.Get(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		s.logger.Error("getting nomination failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}

	if err := c.Bind(n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n.ID = c.Param("id")

	if err := s.store.Update(ctx, n); err != nil {
		s.logger.Error("updating nomination failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update nomination")
	}
	return c.JSON(http.StatusOK, n)
}

// handleDelete removes a nomination.
func (s *Server) handleDelete(c echo.Context) error {
	err := s.store.Delete(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		s.logger.Error("deleting nomination failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete nomination")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

// BulkStatusRequest is the request body for PUT /bulk-update-status.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"`
	Action string   `json:"action"`
}

// handleBulkStatus marks a set of nominations as sent or received.
func (s *Server) handleBulkStatus(c echo.Context) error {
	var req BulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Action != "sent" && req.Action != "received" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	affected, err := s.store.BulkSetStatus(c.Request().Context(), req.IDs, req.Action)
	if err != nil {
		s.logger.Error("bulk status update failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "bulk update failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "updated",
		"updated": affected,
	})
}

// SettingsResponse carries the configurable settings.
type SettingsResponse struct {
	CompanyName string `json:"company_name"`
}

// handleGetSettings returns current settings; unset keys read as empty.
func (s *Server) handleGetSettings(c echo.Context) error {
	company, err := s.store.GetSetting(c.Request().Context(), store.SettingCompanyName)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error("getting settings failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "server error")
	}
	return c.JSON(http.StatusOK, SettingsResponse{CompanyName: company})
}

// handlePutSettings updates settings.
func (s *Server) handlePutSettings(c echo.Context) error {
	var req SettingsResponse
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CompanyName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "company_name is required")
	}

	if err := s.store.SetSetting(c.Request().Context(), store.SettingCompanyName, req.CompanyName); err != nil {
		s.logger.Error("saving settings failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save settings")
	}
	return c.JSON(http.StatusOK, req)
}
