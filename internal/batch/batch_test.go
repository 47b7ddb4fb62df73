package batch

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniport/internal/models"
	"alumniport/internal/pipeline"
)

const sample = `
batch: registry-page-01
source: BGHS registry page 1
registration: {program: BGHSX, year_tag: "2026"}
email: {domain: example.org, include_year: true}
entries:
  - {serial_id: "6", honorific: "dr", name: "Bishwatosh   Basu", year: "১৯৫৩", deceased: true}
  - {serial_id: " 28 ka ", name: Ajit Kumar Mitra, deceased: true}
`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "registry-page-01", b.Name)
	require.Len(t, b.Entries, 2)

	e := b.Entries[0]
	assert.Equal(t, models.HonorificDr, e.Honorific)
	assert.Equal(t, "Bishwatosh Basu", e.FullName)
	assert.Equal(t, "1953", e.YearOfLeaving)
	assert.True(t, e.IsDeceased)
	assert.Equal(t, "28 ka", b.Entries[1].SerialID)
	assert.Equal(t, "", b.Entries[1].YearOfLeaving)
}

func TestApply(t *testing.T) {
	b, err := Parse([]byte(sample))
	require.NoError(t, err)

	base := pipeline.Options{
		Registration: pipeline.RegistrationFormat{Program: "BGHSA", YearTag: "2025", Width: 5},
		Email:        pipeline.EmailFormat{Domain: "bghs-alumni.com"},
	}
	got := b.Apply(base)
	assert.Equal(t, pipeline.RegistrationFormat{Program: "BGHSX", YearTag: "2026", Width: 5}, got.Registration)
	assert.Equal(t, pipeline.EmailFormat{Domain: "example.org", IncludeYear: true}, got.Email)

	assert.Equal(t, base, Batch{}.Apply(base))
}

func TestParse_Invalid(t *testing.T) {
	doc := `
entries:
  - {serial_id: "1", name: "", year: "54"}
  - {serial_id: "2", name: Ok Name, honorific: Sir}
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "batch: name is required")
	assert.Contains(t, msg, "batch: entries[0]")
	assert.Contains(t, msg, "batch: entries[1]")
	assert.True(t, errors.Is(err, models.ErrMissingName))
	assert.True(t, errors.Is(err, models.ErrBadYear))
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("batch: x\nentries:\n  - {serial_id: \"1\", nme: Typo}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch: decode")
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("  \n"))
	assert.Error(t, err)
}

func TestLoadReader(t *testing.T) {
	b, err := LoadReader(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Len(t, b.Entries, 2)
}

func TestLoad_RegistryPage(t *testing.T) {
	b, err := Load(filepath.Join("..", "..", "batches", "registry-page-01.yaml"))
	require.NoError(t, err)
	require.Len(t, b.Entries, 57)

	opts := b.Apply(pipeline.Options{
		Registration: pipeline.RegistrationFormat{Width: 3},
		Email:        pipeline.EmailFormat{Domain: "placeholder.invalid"},
	})
	res := pipeline.Run(b.Entries, opts)
	require.Len(t, res.Rows, 57)

	first := res.Rows[0]
	assert.Equal(t, "BGHSA-2025-00001", first.RegistrationNumber)
	assert.Equal(t, "ratikanta.mukhopadhyay@bghs-alumni.com", first.Email)

	assert.Equal(t, "28 ka", res.Rows[28].OldRegistrationNumber)
	assert.Equal(t, "BGHSA-2025-00028", res.Rows[28].RegistrationNumber)
	assert.Equal(t, 1, res.Count(pipeline.DiagRegistrationCollision))
	assert.GreaterOrEqual(t, res.Count(pipeline.DiagEmailCollision), 1)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch: read")
}
