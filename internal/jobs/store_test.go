package jobs

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJobs() []Job {
	return []Job{
		{ID: "a", Date: "2024-03-01", CustomerName: "Ravi", Mobile: "9876543210", DeviceModel: "Samsung", WorkDescription: "Panel", Price: decimal.NewFromInt(500), PartsCost: decimal.NewFromInt(300), Profit: decimal.NewFromInt(200)},
		{ID: "b", Date: "2024-03-02", CustomerName: "Asha", Mobile: "9123456780", DeviceModel: "LG", WorkDescription: "PSU", Price: decimal.NewFromInt(400), Profit: decimal.NewFromInt(400)},
		{Date: "2024-03-03", CustomerName: "Imran", Mobile: "9000000000", DeviceModel: "Sony", WorkDescription: "Backlight", Price: decimal.NewFromInt(800), PartsCost: decimal.NewFromInt(100), Profit: decimal.NewFromInt(700)},
	}
}

func TestInsertReplaceRemove(t *testing.T) {
	t.Run("Should not mutate the input slice", func(t *testing.T) {
		list := sampleJobs()
		before := sampleJobs()

		_ = Insert(list, Job{ID: "z"})
		_, err := Replace(list, "a", Job{CustomerName: "Changed"})
		require.NoError(t, err)
		_, err = Remove(list, "b")
		require.NoError(t, err)

		assert.Equal(t, before, list)
	})

	t.Run("Should keep the existing id when the replacement has none", func(t *testing.T) {
		out, err := Replace(sampleJobs(), "a", Job{CustomerName: "Changed"})
		require.NoError(t, err)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, "Changed", out[0].CustomerName)
	})

	t.Run("Should fall back to the row index for jobs without ids", func(t *testing.T) {
		out, err := Remove(sampleJobs(), "2")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "b", out[1].ID)
	})

	t.Run("Should report unknown ids", func(t *testing.T) {
		_, err := Replace(sampleJobs(), "missing", Job{})
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = Remove(sampleJobs(), "9")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = Remove(sampleJobs(), "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Should assign ids to seeded and added jobs", func(t *testing.T) {
		store := NewMemoryStore(sampleJobs())
		require.NoError(t, store.AddJob(ctx, Job{CustomerName: "New"}))

		list, err := store.ListJobs(ctx)
		require.NoError(t, err)
		require.Len(t, list, 4)
		for _, j := range list {
			assert.NotEmpty(t, j.ID)
		}
	})

	t.Run("Should update and delete by id", func(t *testing.T) {
		store := NewMemoryStore(sampleJobs())
		require.NoError(t, store.UpdateJob(ctx, "a", Job{CustomerName: "Ravi K"}))
		require.NoError(t, store.DeleteJob(ctx, "b"))

		list, err := store.ListJobs(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Ravi K", list[0].CustomerName)
		assert.ErrorIs(t, store.DeleteJob(ctx, "b"), ErrNotFound)
	})

	t.Run("Should hand out copies", func(t *testing.T) {
		store := NewMemoryStore(sampleJobs())
		list, err := store.ListJobs(ctx)
		require.NoError(t, err)
		list[0].CustomerName = "mutated"

		again, err := store.ListJobs(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ravi", again[0].CustomerName)
	})
}

func TestJob_Validate(t *testing.T) {
	t.Run("Should accept a complete job", func(t *testing.T) {
		assert.NoError(t, sampleJobs()[0].Validate())
	})

	t.Run("Should reject missing fields", func(t *testing.T) {
		j := sampleJobs()[0]
		j.CustomerName = ""
		assert.Error(t, j.Validate())
	})

	t.Run("Should reject negative amounts", func(t *testing.T) {
		j := sampleJobs()[0]
		j.PartsCost = decimal.NewFromInt(-1)
		assert.Error(t, j.Validate())
	})

	t.Run("Should detect profit that disagrees with price and parts", func(t *testing.T) {
		j := sampleJobs()[0]
		assert.False(t, j.ProfitMismatch())
		j.Profit = decimal.NewFromInt(10)
		assert.True(t, j.ProfitMismatch())
		assert.False(t, j.WithDerivedProfit().ProfitMismatch())
	})
}
