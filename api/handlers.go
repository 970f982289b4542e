package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/fxjournal/calendar"
	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/sheet"
	"github.com/rustyeddy/fxjournal/stats"
)

// GET /api/trades, newest first
func (s *Server) listTrades(c *gin.Context) {
	c.JSON(http.StatusOK, journal.SortByDateDesc(s.store.List()))
}

func (s *Server) getTrade(c *gin.Context) {
	t, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// POST /api/trades. Profit in the body is ignored and recomputed.
func (s *Server) createTrade(c *gin.Context) {
	t, ok := s.bindTrade(c)
	if !ok {
		return
	}
	t.ID = ""

	added, err := s.store.Add(t)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondPersisted(c, http.StatusCreated, gin.H{"trade": added})
}

func (s *Server) updateTrade(c *gin.Context) {
	t, ok := s.bindTrade(c)
	if !ok {
		return
	}

	tradeID := c.Param("id")
	if err := s.store.Update(tradeID, t); err != nil {
		s.fail(c, err)
		return
	}
	updated, err := s.store.Get(tradeID)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respondPersisted(c, http.StatusOK, gin.H{"trade": updated})
}

func (s *Server) deleteTrade(c *gin.Context) {
	tradeID := c.Param("id")
	if err := s.store.Remove(tradeID); err != nil {
		s.fail(c, err)
		return
	}
	s.respondPersisted(c, http.StatusOK, gin.H{"deleted": tradeID})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Compute(s.store.List()))
}

// GET /api/calendar/:month with month as YYYY-MM
func (s *Server) calendar(c *gin.Context) {
	m, err := calendar.ParseMonth(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cal := calendar.Build(s.store.List(), m)
	c.JSON(http.StatusOK, gin.H{
		"month":  m.Key(),
		"title":  m.String(),
		"net_pl": cal.NetPL(),
		"prev":   m.Prev().Key(),
		"next":   m.Next().Key(),
		"days":   cal.Days,
	})
}

func (s *Server) export(format sheet.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		trades := s.store.List()
		if len(trades) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": sheet.ErrNoTrades.Error()})
			return
		}

		name := strings.TrimSuffix(sheet.DefaultExportName(time.Now()), ".xlsx") + "." + string(format)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		if format == sheet.FormatCSV {
			c.Header("Content-Type", "text/csv")
		} else {
			c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		}
		c.Status(http.StatusOK)

		if err := sheet.Export(c.Writer, trades, format); err != nil {
			s.log.Error("export failed", "format", format, "err", err)
		}
	}
}

// POST /api/import replaces the journal with the uploaded sheet. Nothing
// changes unless every row parses.
func (s *Server) importSheet(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	format, err := sheet.FormatOf(fh.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	trades, err := sheet.Import(f, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.store.ReplaceAll(trades)
	s.log.Info("imported trades", "file", fh.Filename, "count", len(trades))
	s.respondPersisted(c, http.StatusOK, gin.H{"imported": len(trades)})
}

// bindTrade decodes, defaults, prices and validates a trade body.
func (s *Server) bindTrade(c *gin.Context) (journal.Trade, bool) {
	var t journal.Trade
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return t, false
	}
	t.ApplyDefaults()
	t.Recompute()
	if err := t.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return t, false
	}
	return t, true
}

// respondPersisted saves the store. A failed save still answers with
// status, adding a warning; the change stays in memory.
func (s *Server) respondPersisted(c *gin.Context, status int, body gin.H) {
	if err := s.store.Persist(); err != nil {
		s.log.Warn("persist failed", "err", err)
		body["warning"] = err.Error()
	}
	c.JSON(status, body)
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, journal.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", "path", c.Request.URL.Path, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
