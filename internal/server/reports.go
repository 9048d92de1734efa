package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/datsun80zx/repairtrack/internal/export"
	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
	"github.com/datsun80zx/repairtrack/internal/parser"
	"github.com/datsun80zx/repairtrack/internal/report"
)

const defaultDailyWindow = 30

// withJobs loads the job list and hands it to fn, reporting load errors
func (s *Server) withJobs(c *gin.Context, fn func([]jobs.Job)) {
	list, err := s.Store.ListJobs(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	fn(list)
}

// dateParam reads an optional day query parameter in any accepted form
func dateParam(c *gin.Context, name string) (string, error) {
	raw := c.Query(name)
	if raw == "" {
		return "", nil
	}
	day, err := parser.ParseDay(raw)
	if err != nil {
		return "", invalid(fmt.Errorf("%s: %w", name, err))
	}
	return day.Format("2006-01-02"), nil
}

func rangeParams(c *gin.Context) (from, to string, err error) {
	if from, err = dateParam(c, "from"); err != nil {
		return "", "", err
	}
	if to, err = dateParam(c, "to"); err != nil {
		return "", "", err
	}
	return from, to, nil
}

func (s *Server) reportToday(c *gin.Context) {
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, s.Engine.TodayStats(list))
	})
}

func (s *Server) reportDaily(c *gin.Context) {
	days := defaultDailyWindow
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > metrics.MaxDailyWindow {
			fail(c, http.StatusBadRequest, fmt.Errorf("days must be a number from 0 to %d, got %q", metrics.MaxDailyWindow, raw))
			return
		}
		days = n
	}
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, s.Engine.DailyStats(list, days))
	})
}

func (s *Server) reportWeekly(c *gin.Context) {
	month := c.DefaultQuery("month", s.Engine.CurrentMonthKey())
	if !metrics.IsMonthKey(month) {
		fail(c, http.StatusBadRequest, fmt.Errorf("month must be YYYY-MM, got %q", month))
		return
	}
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, metrics.WeeklyStats(list, month))
	})
}

func (s *Server) reportMonthly(c *gin.Context) {
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, metrics.MonthlyStats(list))
	})
}

func (s *Server) reportYearly(c *gin.Context) {
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, metrics.YearlyStats(list))
	})
}

func (s *Server) reportCategories(c *gin.Context) {
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, metrics.CategoryStats(list))
	})
}

func (s *Server) reportRedFlags(c *gin.Context) {
	s.withJobs(c, func(list []jobs.Job) {
		ok(c, report.FindRedFlags(list))
	})
}

// GET /api/reports/summary?from=&to=&format=html
func (s *Server) reportSummary(c *gin.Context) {
	from, to, err := rangeParams(c)
	if err != nil {
		failErr(c, err)
		return
	}
	s.withJobs(c, func(list []jobs.Job) {
		summary := report.GenerateSummary(s.Engine, list, from, to)
		if c.Query("format") != "html" {
			ok(c, summary)
			return
		}
		var buf bytes.Buffer
		if err := s.Renderer.RenderSummary(&buf, summary); err != nil {
			failErr(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	})
}

// GET /api/export?format=&from=&to=&columns=&preset=
func (s *Server) exportJobs(c *gin.Context) {
	opts, err := s.exportOptions(c)
	if err != nil {
		failErr(c, err)
		return
	}
	s.withJobs(c, func(list []jobs.Job) {
		var buf bytes.Buffer
		if err := export.Write(&buf, list, opts); err != nil {
			failErr(c, err)
			return
		}
		attachment(c, export.FileName(opts.Format, s.Engine.Today()), opts.Format, buf.Bytes())
	})
}

// GET /api/export/summary?format=
func (s *Server) exportSummary(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	s.withJobs(c, func(list []jobs.Job) {
		var buf bytes.Buffer
		if err := export.WriteSummary(&buf, format, metrics.MonthlyStats(list)); err != nil {
			failErr(c, err)
			return
		}
		attachment(c, export.SummaryFileName(format, s.Engine.CurrentMonthKey()), format, buf.Bytes())
	})
}

func (s *Server) exportOptions(c *gin.Context) (export.Options, error) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return export.Options{}, invalid(err)
	}
	columns, err := export.ParseColumns(c.Query("columns"))
	if err != nil {
		return export.Options{}, invalid(err)
	}
	preset, err := export.ParsePreset(c.Query("preset"))
	if err != nil {
		return export.Options{}, invalid(err)
	}
	from, to, err := rangeParams(c)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{
		Format:  format,
		From:    from,
		To:      to,
		Columns: columns,
		Preset:  preset,
		Today:   s.Engine.Today(),
	}, nil
}

func attachment(c *gin.Context, name string, format export.Format, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, format.ContentType(), body)
}
