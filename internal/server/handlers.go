package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/internal/store"
	"github.com/ukaji3/compliance-go/pkg/compliance"
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/output"
	"github.com/ukaji3/compliance-go/pkg/compliance/stats"
)

// Response wraps every JSON reply.
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Data: data})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Error: message})
}

// StatusInfo describes the current dataset.
type StatusInfo struct {
	Loaded    bool       `json:"loaded"`
	ID        string     `json:"id,omitempty"`
	Source    string     `json:"source,omitempty"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	Districts int        `json:"districts"`
	Villages  int        `json:"villages"`
}

func statusOf(snap *store.Snapshot) StatusInfo {
	if snap == nil {
		return StatusInfo{}
	}
	loadedAt := snap.LoadedAt
	return StatusInfo{
		Loaded:    true,
		ID:        snap.ID,
		Source:    snap.Source,
		LoadedAt:  &loadedAt,
		Districts: len(snap.Districts),
		Villages:  snap.Districts.VillageCount(),
	}
}

// DistrictSummary is one row of the district list.
type DistrictSummary struct {
	Name          string  `json:"name"`
	TotalVillages int     `json:"total_villages"`
	Avg92Percent  float64 `json:"avg_92_percent"`
	Avg13Percent  float64 `json:"avg_13_percent"`
}

// snapshot returns the current dataset or writes a 404.
func (s *Server) snapshot(c *gin.Context) (*store.Snapshot, bool) {
	snap, err := s.store.Current()
	if err != nil {
		errorResponse(c, http.StatusNotFound, err.Error())
		return nil, false
	}
	return snap, true
}

// ==================== Dataset ====================

// handleStatus reports whether a workbook is loaded.
func (s *Server) handleStatus(c *gin.Context) {
	snap, _ := s.store.Current()
	success(c, statusOf(snap))
}

// handleUpload parses an uploaded workbook and replaces the dataset.
func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "missing multipart field \"file\"")
		return
	}
	defer file.Close()

	limit := s.cfg.MaxUploadBytes()
	if header.Size > limit {
		errorResponse(c, http.StatusRequestEntityTooLarge, source.ErrTooLarge.Error())
		return
	}
	buf, err := source.ReadCapped(file, limit)
	if err != nil {
		s.loadError(c, err)
		return
	}

	snap, err := s.store.Load(buf, "upload:"+header.Filename)
	if err != nil {
		s.loadError(c, err)
		return
	}
	success(c, statusOf(snap))
}

type refreshRequest struct {
	URL string `json:"url"`
}

// handleRefresh downloads a Google Sheet and replaces the dataset.
func (s *Server) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		url = s.cfg.Source.SheetURL
	}
	if url == "" {
		errorResponse(c, http.StatusBadRequest, "no sheet URL given or configured")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.GetFetchTimeout())
	defer cancel()

	buf, err := s.fetcher.FetchSheet(ctx, url)
	if err != nil {
		s.loadError(c, err)
		return
	}

	snap, err := s.store.Load(buf, "sheet:"+url)
	if err != nil {
		s.loadError(c, err)
		return
	}
	success(c, statusOf(snap))
}

// loadError maps a failed upload or refresh to a status code. The current
// dataset is never touched on this path.
func (s *Server) loadError(c *gin.Context, err error) {
	var (
		parseErr  *compliance.ParseError
		statusErr *source.StatusError
	)
	switch {
	case errors.As(err, &parseErr):
		errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, source.ErrTooLarge):
		errorResponse(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, source.ErrInvalidSheetURL):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &statusErr), errors.Is(err, context.DeadlineExceeded):
		errorResponse(c, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("load failed", zap.Error(err))
		errorResponse(c, http.StatusBadGateway, err.Error())
	}
}

// ==================== Districts & Villages ====================

// handleDistricts lists districts with their averages.
func (s *Server) handleDistricts(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	out := make([]DistrictSummary, 0, len(snap.Districts))
	for _, d := range snap.Districts {
		out = append(out, DistrictSummary{
			Name:          d.Name,
			TotalVillages: d.TotalVillages,
			Avg92Percent:  d.Avg92Percent,
			Avg13Percent:  d.Avg13Percent,
		})
	}
	success(c, out)
}

// handleDistrict returns one district with all villages.
func (s *Server) handleDistrict(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	d, found := snap.Districts.Find(c.Param("name"))
	if !found {
		errorResponse(c, http.StatusNotFound, fmt.Sprintf("district %q not found", c.Param("name")))
		return
	}
	success(c, d)
}

// handleVillages returns one page of filtered villages.
func (s *Server) handleVillages(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	f, err := s.filterFromQuery(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, stats.Query(snap.Districts, f))
}

// handleCritical lists critical villages, most overdue first.
func (s *Server) handleCritical(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	success(c, stats.CriticalVillages(snap.Districts))
}

// handleSummary returns the KPI totals.
func (s *Server) handleSummary(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	section, err := models.ParseSectionKey(c.Query("section"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, stats.Summarize(snap.Districts, stats.Selection{
		District: c.Query("district"),
		Section:  section,
	}))
}

// ==================== Export ====================

// handleExport downloads the filtered villages of one section.
func (s *Server) handleExport(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	f, err := s.filterFromQuery(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	villages := stats.Select(snap.Districts, f)

	format := c.DefaultQuery("format", "csv")
	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "csv":
		err = output.WriteCSV(&buf, villages, f.Section)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		err = output.WriteXLSX(&buf, villages, f.Section)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		errorResponse(c, http.StatusBadRequest, fmt.Sprintf("unknown format %q (must be csv or xlsx)", format))
		return
	}
	if err != nil {
		s.logger.Error("export failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "export failed")
		return
	}

	name := output.ExportFileName(f.Section, format, s.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleExportSummary downloads the per-district summary workbook.
func (s *Server) handleExportSummary(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := output.WriteSummaryXLSX(&buf, snap.Districts); err != nil {
		s.logger.Error("summary export failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+output.SummaryFileName)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// filterFromQuery reads district, section, status, stage, search, sort,
// order, page and page_size.
func (s *Server) filterFromQuery(c *gin.Context) (stats.Filter, error) {
	f := stats.Filter{
		District: c.Query("district"),
		Search:   c.Query("search"),
		Stages:   s.cfg.Parse.Rules.Stages,
	}

	var err error
	if f.Section, err = models.ParseSectionKey(c.Query("section")); err != nil {
		return f, err
	}
	if f.Status, err = stats.ParseStatus(c.Query("status")); err != nil {
		return f, err
	}
	if f.Stage, err = stats.ParseStageCategory(c.Query("stage")); err != nil {
		return f, err
	}
	if f.SortBy, err = stats.ParseSortField(c.Query("sort")); err != nil {
		return f, err
	}
	switch order := c.DefaultQuery("order", "asc"); order {
	case "asc":
	case "desc":
		f.Desc = true
	default:
		return f, fmt.Errorf("unknown order %q (must be asc or desc)", order)
	}
	if f.Page, err = intQuery(c, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = intQuery(c, "page_size"); err != nil {
		return f, err
	}
	return f, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
