package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"mttr-dashboard/connectors/session"
	"mttr-dashboard/connectors/upload"
	"mttr-dashboard/connectors/xlsx"
	"mttr-dashboard/domain/report"
	"mttr-dashboard/domain/ticket"
)

// Query parameters carrying the filter selection.
const (
	paramMonth    = "month"
	paramPriority = "priority"
)

var (
	errInvalidQuery = errors.New("invalid query")
	errTooLarge     = errors.New("upload too large")
)

func (s *Server) index(c echo.Context) error {
	tb, up, err := s.table(c)
	if errors.Is(err, session.ErrNotFound) {
		return c.Render(http.StatusOK, tmplUpload, uploadPage{MaxMB: s.cfg.HTTP.MaxUploadMB})
	}
	if err != nil {
		return s.renderUploadError(c, err)
	}

	opts := report.Options(tb)
	sel, err := selectionFromQuery(c.QueryParams(), opts)
	if err != nil {
		return s.renderUploadError(c, err)
	}
	return c.Render(http.StatusOK, tmplDashboard, newDashboardPage(up.Name, report.Build(tb, &sel), c.QueryParams()))
}

func (s *Server) upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return s.uploadFailed(c, http.StatusBadRequest, fmt.Errorf("%w: no file in field \"file\"", errInvalidQuery))
	}
	if fh.Size > s.cfg.MaxUploadBytes() {
		return s.uploadFailed(c, http.StatusRequestEntityTooLarge, errTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return s.uploadFailed(c, http.StatusInternalServerError, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes()+1))
	if err != nil {
		return s.uploadFailed(c, http.StatusInternalServerError, err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes() {
		return s.uploadFailed(c, http.StatusRequestEntityTooLarge, errTooLarge)
	}

	// Reject unusable files now rather than on every render.
	tb, err := upload.Parse(fh.Filename, data, s.parseOptions()...)
	if err != nil {
		return s.uploadFailed(c, statusOf(err), err)
	}

	id, ok := s.sessionID(c)
	if !ok {
		id = session.NewID()
	}
	up := session.Upload{Name: fh.Filename, Data: data, UploadedAt: time.Now().UTC()}
	if err := s.store.Save(c.Request().Context(), id, up); err != nil {
		return s.uploadFailed(c, http.StatusInternalServerError, err)
	}
	c.SetCookie(s.cookie(id, int(s.cfg.Session.TTL.Seconds())))

	s.logger.Info("web.upload.stored",
		zap.String("file", fh.Filename),
		zap.Int("bytes", len(data)),
		zap.Int("tickets", len(tb.Tickets)))

	if wantsJSON(c) {
		return c.JSON(http.StatusCreated, map[string]any{
			"file":    fh.Filename,
			"tickets": len(tb.Tickets),
			"options": report.Options(tb),
		})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reset(c echo.Context) error {
	if id, ok := s.sessionID(c); ok {
		if err := s.store.Delete(c.Request().Context(), id); err != nil {
			return apiError(c, err)
		}
	}
	c.SetCookie(s.cookie("", -1))
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) apiOptions(c echo.Context) error {
	tb, _, err := s.table(c)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, report.Options(tb))
}

type reportResponse struct {
	*report.Report
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (s *Server) apiReport(c echo.Context) error {
	r, err := s.build(c)
	if err != nil {
		return apiError(c, err)
	}
	res := reportResponse{Report: r, Columns: r.Filtered.Columns(), Rows: make([][]any, 0, len(r.Filtered.Tickets))}
	for _, t := range r.Filtered.Tickets {
		res.Rows = append(res.Rows, r.Filtered.Record(t))
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) apiSummary(c echo.Context) error {
	metric, err := ticket.ParseMetric(c.Param("metric"))
	if err != nil {
		return apiError(c, fmt.Errorf("%w: %v", errInvalidQuery, err))
	}
	r, err := s.build(c)
	if err != nil {
		return apiError(c, err)
	}
	sum := r.View(metric).Summary
	return c.JSON(http.StatusOK, map[string]any{
		"metric":  metric,
		"header":  sum.Header(),
		"records": sum.Records(),
	})
}

func (s *Server) download(c echo.Context) error {
	r, err := s.build(c)
	if err != nil {
		return apiError(c, err)
	}
	data, err := xlsx.ExportBytes(r)
	if err != nil {
		return apiError(c, err)
	}
	s.logger.Info("web.download", zap.Int("tickets", len(r.Filtered.Tickets)), zap.Int("bytes", len(data)))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", xlsx.FileName))
	return c.Blob(http.StatusOK, xlsx.ContentType, data)
}

// build loads the session's table and runs the pipeline for the query's selection.
func (s *Server) build(c echo.Context) (*report.Report, error) {
	tb, _, err := s.table(c)
	if err != nil {
		return nil, err
	}
	sel, err := selectionFromQuery(c.QueryParams(), report.Options(tb))
	if err != nil {
		return nil, err
	}
	return report.Build(tb, &sel), nil
}

// table returns the parsed upload of the requesting session. Concurrent
// requests for the same upload share one parse.
func (s *Server) table(c echo.Context) (*ticket.Table, session.Upload, error) {
	id, ok := s.sessionID(c)
	if !ok {
		return nil, session.Upload{}, session.ErrNotFound
	}
	up, err := s.store.Load(c.Request().Context(), id)
	if err != nil {
		return nil, session.Upload{}, err
	}
	v, err, _ := s.parses.Do(up.Key(id), func() (any, error) {
		return upload.Parse(up.Name, up.Data, s.parseOptions()...)
	})
	if err != nil {
		return nil, up, err
	}
	return v.(*ticket.Table), up, nil
}

func (s *Server) parseOptions() []ticket.Option {
	if len(s.cfg.Report.InternalOrigins) == 0 {
		return nil
	}
	return []ticket.Option{ticket.WithInternalOrigins(s.cfg.Report.InternalOrigins...)}
}

func (s *Server) sessionID(c echo.Context) (string, bool) {
	ck, err := c.Cookie(s.cfg.Session.CookieName)
	if err != nil || !session.ValidID(ck.Value) {
		return "", false
	}
	return ck.Value, true
}

func (s *Server) cookie(id string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) uploadFailed(c echo.Context, status int, err error) error {
	s.logger.Warn("web.upload.rejected", zap.Int("status", status), zap.Error(err))
	if wantsJSON(c) {
		return c.JSON(status, errorBody(err))
	}
	return c.Render(status, tmplUpload, uploadPage{MaxMB: s.cfg.HTTP.MaxUploadMB, Error: err.Error()})
}

func (s *Server) renderUploadError(c echo.Context, err error) error {
	return c.Render(statusOf(err), tmplUpload, uploadPage{MaxMB: s.cfg.HTTP.MaxUploadMB, Error: err.Error()})
}

// selectionFromQuery reads repeated month and priority parameters. An absent
// parameter selects every option; a present one selects exactly the
// non-empty values given, so "?month=" selects no month.
func selectionFromQuery(q url.Values, opts report.Selection) (report.Selection, error) {
	sel := opts
	if raw, ok := q[paramMonth]; ok {
		months, err := report.ParseMonths(splitValues(raw))
		if err != nil {
			return report.Selection{}, fmt.Errorf("%w: %v", errInvalidQuery, err)
		}
		sel.Months = months
	}
	if raw, ok := q[paramPriority]; ok {
		priorities, err := report.ParsePriorities(splitValues(raw))
		if err != nil {
			return report.Selection{}, fmt.Errorf("%w: %v", errInvalidQuery, err)
		}
		sel.Priorities = priorities
	}
	return sel, nil
}

// splitValues flattens repeated and comma-separated values, dropping blanks.
func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func statusOf(err error) int {
	var missing *ticket.MissingColumnError
	switch {
	case errors.As(err, &missing), errors.Is(err, upload.ErrUnreadable), errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}
	var missing *ticket.MissingColumnError
	switch {
	case errors.As(err, &missing):
		body["message"] = "uploaded file is missing required columns"
		body["columns"] = missing.Columns
	case errors.Is(err, upload.ErrUnreadable):
		body["message"] = "uploaded file could not be read"
	case errors.Is(err, errInvalidQuery):
		body["message"] = "invalid request parameters"
	case errors.Is(err, errTooLarge):
		body["message"] = "uploaded file exceeds the size limit"
	case errors.Is(err, session.ErrNotFound):
		body["message"] = "no ticket export uploaded for this session"
	default:
		body["message"] = "internal error"
	}
	return body
}

func apiError(c echo.Context, err error) error {
	return c.JSON(statusOf(err), errorBody(err))
}
