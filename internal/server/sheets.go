package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datsun80zx/repairtrack/internal/export"
	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
	"github.com/datsun80zx/repairtrack/internal/parser"
	"github.com/datsun80zx/repairtrack/internal/sheets"
)

type sheetsRequest struct {
	Action string    `json:"action" binding:"required"`
	Data   *jobs.Job `json:"data"`
	ID     string    `json:"id"`
}

// GET /api/sheets?action=getAllJobs|exportCSV
func (s *Server) getSheets(c *gin.Context) {
	switch action := c.Query("action"); action {
	case sheets.ActionGetAllJobs, "":
		list, err := s.Store.ListJobs(c.Request.Context())
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, list)
	case sheets.ActionExportCSV:
		text, err := s.sheetCSV(c)
		if err != nil {
			failErr(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="jobs.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(text))
	default:
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid action parameter %q", action))
	}
}

// sheetCSV returns the store's own CSV export, or renders one from the job
// list for stores without it
func (s *Server) sheetCSV(c *gin.Context) (string, error) {
	if src, ok := s.Store.(csvSource); ok {
		return src.ExportCSV(c.Request.Context())
	}
	list, err := s.Store.ListJobs(c.Request.Context())
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, list, export.Options{Format: export.FormatCSV, Columns: export.AllColumns()}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// POST /api/sheets {action, data, id}
func (s *Server) postSheets(c *gin.Context) {
	var req sheetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ctx := c.Request.Context()

	var err error
	switch req.Action {
	case sheets.ActionAddJob:
		var job jobs.Job
		if job, err = jobFromRequest(req); err == nil {
			err = s.Store.AddJob(ctx, job)
		}
	case sheets.ActionUpdateJob:
		if req.ID == "" {
			err = invalid(errors.New("id is required"))
			break
		}
		var job jobs.Job
		if job, err = jobFromRequest(req); err == nil {
			err = s.Store.UpdateJob(ctx, req.ID, job)
		}
	case sheets.ActionDeleteJob:
		if req.ID == "" {
			err = invalid(errors.New("id is required"))
			break
		}
		err = s.Store.DeleteJob(ctx, req.ID)
	default:
		err = invalid(fmt.Errorf("invalid action %q", req.Action))
	}
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, gin.H{"action": req.Action, "id": req.ID})
}

// jobFromRequest normalizes the date and fills in profit when the form
// left it out
func jobFromRequest(req sheetsRequest) (jobs.Job, error) {
	if req.Data == nil {
		return jobs.Job{}, invalid(errors.New("data is required"))
	}
	job := *req.Data
	job.Date = parser.NormalizeDate(job.Date)
	if job.Profit.IsZero() {
		job = job.WithDerivedProfit()
	}
	if err := job.Validate(); err != nil {
		return jobs.Job{}, invalid(err)
	}
	return job, nil
}

// GET /api/sheets/dashboard
func (s *Server) getDashboard(c *gin.Context) {
	list, err := s.Store.ListJobs(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, metrics.Totals(list))
}

// GET /api/jobs?q=&period=
func (s *Server) listJobs(c *gin.Context) {
	period, err := jobs.ParsePeriod(c.Query("period"))
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	list, err := s.Store.ListJobs(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	list = jobs.Search(list, c.Query("q"))
	list = jobs.FilterByPeriod(list, period, s.Engine.Today())
	ok(c, jobs.SortByDateDesc(list))
}
