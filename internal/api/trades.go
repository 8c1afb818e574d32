package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"trading-journal/internal/analytics"
	"trading-journal/internal/csvio"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func tradeID(c *gin.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: malformed trade id %q", errBadRequest, c.Param("id"))
	}
	return uint(n), nil
}

func (s *Server) listTrades(c *gin.Context) {
	memberID, err := analytics.ParseMemberID(c.Query("member_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	trades, err := s.ledger.ListTrades(c.Request.Context(), memberID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTrades(trades))
}

func (s *Server) createTrade(c *gin.Context) {
	var req CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	trade, err := req.toModel()
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.ledger.CreateTrade(c.Request.Context(), trade); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTrade(trade))
}

func (s *Server) getTrade(c *gin.Context) {
	id, err := tradeID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	trade, err := s.ledger.GetTrade(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTrade(trade))
}

func (s *Server) deleteTrade(c *gin.Context) {
	id, err := tradeID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.ledger.DeleteTrade(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) closeTrade(c *gin.Context) {
	id, err := tradeID(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var req CloseTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	sellDate, err := analytics.ParseDate(req.SellDate)
	switch {
	case err != nil:
	case sellDate == nil:
		err = fmt.Errorf("%w: sell_date is required", errBadRequest)
	case req.SellPrice == nil:
		err = fmt.Errorf("%w: sell_price is required", errBadRequest)
	}
	if err != nil {
		s.respondError(c, err)
		return
	}

	trade, err := s.ledger.CloseTrade(c.Request.Context(), id, *sellDate, *req.SellPrice)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTrade(trade))
}

func (s *Server) exportTrades(c *gin.Context) {
	memberID, err := analytics.ParseMemberID(c.Query("member_id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := csvio.Export(c.Request.Context(), s.ledger, &buf, memberID); err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trades.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// importTrades reads a multipart "file" field. Row-level failures are part
// of the 200 response; only an unreadable upload fails the request.
func (s *Server) importTrades(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: no file uploaded", errBadRequest))
		return
	}
	f, err := header.Open()
	if err != nil {
		s.respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	res, err := csvio.Import(c.Request.Context(), s.ledger, f)
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	s.logger.Info("Trades imported",
		zap.String("file", header.Filename),
		zap.Int("imported", res.Imported),
		zap.Int("failed", res.Failed))
	c.JSON(http.StatusOK, res)
}
