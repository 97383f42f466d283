// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/paper-search/internal/index"
	"github.com/pdiddy/paper-search/pkg/types"
)

// DefaultK is the result count used when a request omits k.
const DefaultK = 5

// SearchRequest is the POST /search body.
type SearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

// SearchResponse is the POST /search reply.
type SearchResponse struct {
	Results []types.SearchResult `json:"results"`
}

// NewRouter assembles the HTTP surface in front of an engine. CORS is wide
// open: the service fronts a public corpus and the browser frontend is
// served from elsewhere. defaultK below 1 falls back to DefaultK.
func NewRouter(engine *Engine, defaultK int) *echo.Echo {
	if defaultK < 1 {
		defaultK = DefaultK
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.POST("/search", func(c echo.Context) error {
		var req SearchRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
		}
		if req.K == 0 {
			req.K = defaultK
		}

		results, err := engine.Search(c.Request().Context(), req.Query, req.K)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotReady):
				return echo.NewHTTPError(http.StatusServiceUnavailable, "index or model not loaded")
			case errors.Is(err, index.ErrInvalidK):
				return echo.NewHTTPError(http.StatusBadRequest, "k must be at least 1")
			default:
				slog.Error("search failed", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "search failed").SetInternal(err)
			}
		}

		slog.Debug("search served", "k", req.K, "results", len(results))
		return c.JSON(http.StatusOK, SearchResponse{Results: results})
	})

	e.GET("/healthz", func(c echo.Context) error {
		if !engine.Ready() {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}
