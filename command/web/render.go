package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"mttr-dashboard/domain/report"
	"mttr-dashboard/domain/ticket"
)

const (
	tmplUpload    = "upload.html"
	tmplDashboard = "dashboard.html"
)

//go:embed templates/*.html
var templateFS embed.FS

type renderer struct {
	tmpl *template.Template
}

func newRenderer() *renderer {
	funcs := template.FuncMap{
		"num":  formatMean,
		"cell": formatCell,
	}
	return &renderer{tmpl: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))}
}

func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

type uploadPage struct {
	MaxMB int
	Error string
}

type checkOption struct {
	Value   string
	Checked bool
}

type dashboardPage struct {
	FileName    string
	Months      []checkOption
	Priorities  []checkOption
	Views       []report.View
	Charts      map[ticket.Metric]report.Chart
	Columns     []string
	Rows        [][]any
	DownloadURL string
}

func newDashboardPage(name string, r *report.Report, q url.Values) dashboardPage {
	page := dashboardPage{
		FileName: name,
		Months: lo.Map(r.Options.Months, func(m ticket.Month, _ int) checkOption {
			return checkOption{Value: m.String(), Checked: lo.Contains(r.Selection.Months, m)}
		}),
		Priorities: lo.Map(r.Options.Priorities, func(p ticket.Priority, _ int) checkOption {
			return checkOption{Value: p.String(), Checked: lo.Contains(r.Selection.Priorities, p)}
		}),
		Views:       []report.View{r.MTTD, r.MTTR},
		Charts:      map[ticket.Metric]report.Chart{ticket.MetricMTTD: r.MTTD.Chart, ticket.MetricMTTR: r.MTTR.Chart},
		Columns:     r.Filtered.Columns(),
		DownloadURL: "/download",
	}
	for _, t := range r.Filtered.Tickets {
		page.Rows = append(page.Rows, r.Filtered.Record(t))
	}
	if len(q) > 0 {
		page.DownloadURL += "?" + q.Encode()
	}
	return page
}

// formatMean prints a mean with two decimals, blank when unknown.
func formatMean(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
