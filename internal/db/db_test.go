package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniport/internal/models"
)

func TestInit_NoDSN(t *testing.T) {
	assert.ErrorIs(t, Init(""), ErrNoDSN)
}

func TestReplaceBatch_NotInitialised(t *testing.T) {
	prev := DB
	DB = nil
	t.Cleanup(func() { DB = prev })

	_, err := ReplaceBatch(context.Background(), "b", nil)
	assert.Error(t, err)
}

func TestReplaceBatch(t *testing.T) {
	dsn := os.Getenv("ALUMNI_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("ALUMNI_TEST_DATABASE_URL not set")
	}
	require.NoError(t, Init(dsn))
	t.Cleanup(func() { _ = Close() })

	ctx := context.Background()
	batch := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		if DB != nil {
			DB.Where("batch_id = ?", batch).Delete(&models.ImportRow{})
		}
	})

	rows := []models.AlumniOutputRow{
		{OldRegistrationNumber: "1", RegistrationNumber: "BGHSA-2025-00001", Email: "ratikanta.mukherjee@bghs-alumni.com", IsDeceased: "false"},
		{OldRegistrationNumber: "6", RegistrationNumber: "BGHSA-2025-00006", Email: "bishwatosh.basu@bghs-alumni.com", IsDeceased: "true"},
	}
	n, err := ReplaceBatch(ctx, batch, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// a rerun replaces rather than appends
	n, err = ReplaceBatch(ctx, batch, rows[1:])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got []models.ImportRow
	require.NoError(t, DB.Where("batch_id = ?", batch).Order("position").Find(&got).Error)
	require.Len(t, got, 1)
	assert.Equal(t, "BGHSA-2025-00006", got[0].RegistrationNumber)
	assert.True(t, got[0].IsDeceased)
	assert.Equal(t, 1, got[0].Position)
}
