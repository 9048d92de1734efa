package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/notify"
)

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	// JobID renders the message template for that job when Message is empty
	JobID string `json:"jobId"`
}

// POST /api/whatsapp/send
func (s *Server) sendWhatsApp(c *gin.Context) {
	if s.Notifier == nil {
		failErr(c, notify.ErrNotConfigured)
		return
	}

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	ctx := c.Request.Context()

	if strings.TrimSpace(req.Message) == "" && req.JobID != "" {
		job, err := s.findJob(c, req.JobID)
		if err != nil {
			failErr(c, err)
			return
		}
		if req.Message, err = notify.FormatJobMessage(s.MessageTemplate, job); err != nil {
			failErr(c, err)
			return
		}
		if req.To == "" {
			req.To = job.Mobile
		}
	}

	result, err := s.Notifier.Send(ctx, req.To, req.Message)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, result)
}

// GET /api/whatsapp/status
func (s *Server) whatsAppStatus(c *gin.Context) {
	if s.Notifier == nil {
		ok(c, notify.Status{Status: notify.StateNotConfigured})
		return
	}
	ok(c, s.Notifier.Status(c.Request.Context()))
}

func (s *Server) findJob(c *gin.Context, id string) (jobs.Job, error) {
	list, err := s.Store.ListJobs(c.Request.Context())
	if err != nil {
		return jobs.Job{}, err
	}
	for _, j := range list {
		if j.ID == id {
			return j, nil
		}
	}
	return jobs.Job{}, fmt.Errorf("job %s: %w", id, jobs.ErrNotFound)
}
