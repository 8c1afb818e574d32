package api

import (
	"fmt"
	"net/http"
	"strconv"

	"trading-journal/internal/analytics"

	"github.com/gin-gonic/gin"
)

func filterFromQuery(c *gin.Context) (analytics.Filter, error) {
	return analytics.ParseFilter(c.Query("member_id"), c.Query("start_date"), c.Query("end_date"))
}

func (s *Server) monthlyPerformance(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	buckets, err := s.engine.MonthlyPerformance(c.Request.Context(), f)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewMonthlyPerformance(buckets))
}

func (s *Server) capitalGrowth(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	points, err := s.engine.CapitalGrowth(c.Request.Context(), f)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewGrowthPoints(points))
}

// topSymbols returns the all-time ranking. limit defaults to the configured
// dashboard size; limit=0 returns every symbol.
func (s *Server) topSymbols(c *gin.Context) {
	memberID, err := analytics.ParseMemberID(c.Query("member_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	limit, err := s.limit(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	ranks, err := s.engine.TopSymbols(c.Request.Context(), memberID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSymbolRanks(analytics.Top(ranks, limit)))
}

// dashboard takes either a range preset or explicit dates; explicit dates win.
func (s *Server) dashboard(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err == nil {
		f, err = f.WithRange(c.Query("range"), s.now(), s.loc)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	limit, err := s.limit(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	d, err := s.engine.Dashboard(c.Request.Context(), f, limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewDashboard(d))
}

func (s *Server) limit(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("limit")
	if !ok || raw == "" {
		return s.cfg.Analytics.TopSymbols, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer, got %q", analytics.ErrInvalidArgument, raw)
	}
	return n, nil
}
