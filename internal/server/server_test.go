package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datsun80zx/repairtrack/internal/jobs"
	"github.com/datsun80zx/repairtrack/internal/metrics"
	"github.com/datsun80zx/repairtrack/internal/notify"
)

type fakeNotifier struct {
	to, message string
}

func (f *fakeNotifier) Send(_ context.Context, to, message string) (*notify.SendResult, error) {
	if to == "" {
		return nil, notify.ErrMissingRecipient
	}
	f.to, f.message = to, message
	return &notify.SendResult{To: to, MessageID: "wamid.test"}, nil
}

func (f *fakeNotifier) Status(context.Context) notify.Status {
	return notify.Status{Configured: true, Connected: true, Status: notify.StateConnected}
}

func seedJobs() []jobs.Job {
	mk := func(id, date, name, mobile, model string, price, parts int64) jobs.Job {
		return jobs.Job{
			ID:              id,
			Date:            date,
			CustomerName:    name,
			Mobile:          mobile,
			DeviceModel:     model,
			WorkDescription: "Repair",
			Price:           decimal.NewFromInt(price),
			PartsCost:       decimal.NewFromInt(parts),
			Profit:          decimal.NewFromInt(price - parts),
		}
	}
	return []jobs.Job{
		mk("j1", "2024-03-15", "Ravi", "9876543210", "Samsung 55", 500, 300),
		mk("j2", "2024-03-02", "Asha", "9123456780", "LG 43", 400, 0),
		mk("j3", "2024-02-20", "Imran", "9000000000", "Sony", 800, 900),
	}
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

func setup(t *testing.T) (*Server, *jobs.MemoryStore, *fakeNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	store := jobs.NewMemoryStore(seedJobs())
	notifier := &fakeNotifier{}
	engine := &metrics.Engine{
		Now:      func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) },
		Location: time.UTC,
	}
	s, err := New(Deps{
		Store:    store,
		Engine:   engine,
		Notifier: notifier,
		Logger:   logger,
		Gatherer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return s, store, notifier
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthAndMetrics(t *testing.T) {
	s, _, _ := setup(t)

	t.Run("Should answer health checks", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do(t, s, http.MethodGet, "/healthz", nil).Code)
	})

	t.Run("Should expose metrics", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/metrics", nil).Code)
	})

	t.Run("Should wrap unknown routes in the envelope", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decode[any](t, w)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	})
}

func TestSheetsRoutes(t *testing.T) {
	t.Run("Should list all jobs", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodGet, "/api/sheets?action=getAllJobs", nil)
		require.Equal(t, http.StatusOK, w.Code)

		env := decode[[]jobs.Job](t, w)
		assert.True(t, env.Success)
		assert.Len(t, env.Data, 3)
	})

	t.Run("Should reject unknown actions", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodGet, "/api/sheets?action=dropTable", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decode[any](t, w).Success)
	})

	t.Run("Should render csv for stores without their own export", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodGet, "/api/sheets?action=exportCSV", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "Date,Customer Name,Mobile,TV Model,Work Done,Price,Parts Cost,Profit"))
	})

	t.Run("Should add a job with a normalized date and derived profit", func(t *testing.T) {
		s, store, _ := setup(t)
		w := do(t, s, http.MethodPost, "/api/sheets", map[string]any{
			"action": "addJob",
			"data": map[string]any{
				"date":         "16/03/2024",
				"customerName": "Kiran",
				"mobile":       "9988776655",
				"tvModel":      "Onida",
				"workDone":     "Backlight",
				"price":        700,
				"partsCost":    250,
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		list, err := store.ListJobs(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 4)
		added := list[3]
		assert.Equal(t, "2024-03-16", added.Date)
		assert.True(t, added.Profit.Equal(decimal.NewFromInt(450)))
		assert.NotEmpty(t, added.ID)
	})

	t.Run("Should reject an invalid job", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodPost, "/api/sheets", map[string]any{
			"action": "addJob",
			"data":   map[string]any{"date": "2024-03-16", "price": 100},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should require an id for updates", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodPost, "/api/sheets", map[string]any{"action": "updateJob", "data": map[string]any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should delete by id and 404 on unknown ids", func(t *testing.T) {
		s, store, _ := setup(t)
		w := do(t, s, http.MethodPost, "/api/sheets", map[string]any{"action": "deleteJob", "id": "j2"})
		require.Equal(t, http.StatusOK, w.Code)

		list, _ := store.ListJobs(context.Background())
		assert.Len(t, list, 2)

		w = do(t, s, http.MethodPost, "/api/sheets", map[string]any{"action": "deleteJob", "id": "missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Should total the dashboard", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodGet, "/api/sheets/dashboard", nil)
		require.Equal(t, http.StatusOK, w.Code)

		env := decode[metrics.DashboardTotals](t, w)
		assert.Equal(t, 3, env.Data.TotalJobs)
		assert.True(t, env.Data.TotalRevenue.Equal(decimal.NewFromInt(1700)))
		assert.True(t, env.Data.NetProfit.Equal(decimal.NewFromInt(500)))
	})
}

func TestJobsRoute(t *testing.T) {
	s, _, _ := setup(t)

	t.Run("Should search within a period newest first", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/jobs?period=this-month", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode[[]jobs.Job](t, w)
		require.Len(t, env.Data, 2)
		assert.Equal(t, "j1", env.Data[0].ID)

		w = do(t, s, http.MethodGet, "/api/jobs?q=sony", nil)
		env = decode[[]jobs.Job](t, w)
		require.Len(t, env.Data, 1)
		assert.Equal(t, "Imran", env.Data[0].CustomerName)
	})

	t.Run("Should reject an unknown period", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/jobs?period=fortnight", nil).Code)
	})
}

func TestReportRoutes(t *testing.T) {
	s, _, _ := setup(t)

	t.Run("Should report today", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/reports/today", nil)
		require.Equal(t, http.StatusOK, w.Code)
		env := decode[metrics.PeriodStats](t, w)
		assert.Equal(t, "2024-03-15", env.Data.Period)
		assert.Equal(t, 1, env.Data.Jobs)
	})

	t.Run("Should report months ascending", func(t *testing.T) {
		env := decode[[]metrics.MonthlyRow](t, do(t, s, http.MethodGet, "/api/reports/monthly", nil))
		require.Len(t, env.Data, 2)
		assert.Equal(t, "2024-02", env.Data[0].Period)
	})

	t.Run("Should size the daily window", func(t *testing.T) {
		env := decode[[]metrics.PeriodStats](t, do(t, s, http.MethodGet, "/api/reports/daily?days=7", nil))
		assert.Len(t, env.Data, 7)

		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/reports/daily?days=-1", nil).Code)
	})

	t.Run("Should reject daily windows longer than a year", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/reports/daily?days=1099511627776", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		env := decode[[]metrics.PeriodStats](t, do(t, s, http.MethodGet, "/api/reports/daily?days=366", nil))
		assert.Len(t, env.Data, metrics.MaxDailyWindow)
	})

	t.Run("Should break a month into weeks", func(t *testing.T) {
		env := decode[[]metrics.PeriodStats](t, do(t, s, http.MethodGet, "/api/reports/weekly?month=2024-03", nil))
		require.Len(t, env.Data, 2)
		assert.Equal(t, "Week 1", env.Data[0].Period)
		assert.Equal(t, "Week 3", env.Data[1].Period)
	})

	t.Run("Should reject a malformed month", func(t *testing.T) {
		for _, month := range []string{"2024-0", "2024-3", "march"} {
			w := do(t, s, http.MethodGet, "/api/reports/weekly?month="+month, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, month)
		}
	})

	t.Run("Should list loss-making jobs as red flags", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/reports/red-flags", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "j3")
	})

	t.Run("Should render the summary as html on request", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/reports/summary?format=html", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	})

	t.Run("Should reject a malformed range", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/reports/summary?from=someday", nil).Code)
	})
}

func TestExportRoutes(t *testing.T) {
	s, _, _ := setup(t)

	t.Run("Should attach a dated xlsx file", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/export?format=xlsx&from=2024-03-01", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "repair-jobs-2024-03-15.xlsx")
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("Should honour the column selection", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/export?columns=customerName,price", nil)
		require.Equal(t, http.StatusOK, w.Code)
		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		assert.Equal(t, "Customer Name,Price", lines[0])
		assert.Len(t, lines, 4)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/export?format=docx", nil).Code)
	})

	t.Run("Should export the monthly summary", func(t *testing.T) {
		w := do(t, s, http.MethodGet, "/api/export/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "repair-summary-2024-03.csv")
	})
}

func TestWhatsAppRoutes(t *testing.T) {
	t.Run("Should render the job message and send it to the job's mobile", func(t *testing.T) {
		s, _, notifier := setup(t)
		w := do(t, s, http.MethodPost, "/api/whatsapp/send", map[string]any{"jobId": "j1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		assert.Equal(t, "9876543210", notifier.to)
		assert.Contains(t, notifier.message, "Hello Ravi")
	})

	t.Run("Should 400 when the recipient is missing", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodPost, "/api/whatsapp/send", map[string]any{"message": "hi"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should 404 for an unknown job", func(t *testing.T) {
		s, _, _ := setup(t)
		w := do(t, s, http.MethodPost, "/api/whatsapp/send", map[string]any{"jobId": "nope"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Should report status", func(t *testing.T) {
		s, _, _ := setup(t)
		env := decode[notify.Status](t, do(t, s, http.MethodGet, "/api/whatsapp/status", nil))
		assert.True(t, env.Data.Connected)
	})
}
