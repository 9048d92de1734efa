package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datsun80zx/repairtrack/internal/db"
	"github.com/datsun80zx/repairtrack/internal/jobs"
)

func TestInsertParams(t *testing.T) {
	job := jobs.Job{
		Date:            "2024-03-15",
		CustomerName:    "Ravi",
		Mobile:          "9876543210",
		DeviceModel:     "Samsung 55",
		WorkDescription: "Panel",
		Price:           decimal.NewFromInt(500),
		PartsCost:       decimal.NewFromInt(300),
		Profit:          decimal.NewFromInt(200),
	}

	t.Run("Should generate an id when the job has none", func(t *testing.T) {
		params, err := InsertParams(job, sql.NullInt64{Int64: 4, Valid: true})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, params.ID)
		assert.Equal(t, "Panel", params.WorkDone)
		assert.Equal(t, int64(4), params.ImportBatchID.Int64)
	})

	t.Run("Should keep a UUID id", func(t *testing.T) {
		id := uuid.New()
		j := job
		j.ID = id.String()
		params, err := InsertParams(j, sql.NullInt64{})
		require.NoError(t, err)
		assert.Equal(t, id, params.ID)
	})

	t.Run("Should reject sheet row ids", func(t *testing.T) {
		j := job
		j.ID = "3"
		_, err := InsertParams(j, sql.NullInt64{})
		assert.Error(t, err)
	})
}

func TestFromRow(t *testing.T) {
	id := uuid.New()
	got := FromRow(db.Job{
		ID:           id,
		JobDate:      "pending",
		CustomerName: "Asha",
		WorkDone:     "PSU",
		Price:        decimal.NewFromInt(400),
	})
	assert.Equal(t, id.String(), got.ID)
	assert.Equal(t, "pending", got.Date)
	assert.Equal(t, "PSU", got.WorkDescription)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(400)))
}

func TestPostgres_RejectsNonUUIDIDs(t *testing.T) {
	p := &Postgres{}
	assert.ErrorIs(t, p.UpdateJob(context.Background(), "7", jobs.Job{}), jobs.ErrNotFound)
	assert.ErrorIs(t, p.DeleteJob(context.Background(), "row-7"), jobs.ErrNotFound)
}

var _ jobs.Store = (*Postgres)(nil)
