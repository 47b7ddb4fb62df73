package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alumniport/internal/config"
	"alumniport/internal/csvout"
	"alumniport/internal/extract"
	"alumniport/internal/middleware"
	"alumniport/internal/models"
	"alumniport/internal/ocr"
)

const pageText = `Name of the student    Class    Year
1. Ratikanta Mukherjee (1954)
6. Dr. Bishwatosh Basu (1953) (Deceased)
28 ka. Ajit Kumar Mitra (Deceased)`

// textEngine returns a fixed text per language and records what it was asked.
type textEngine struct {
	byLang map[string]string
	asked  []string
}

func (e *textEngine) Name() string { return "text" }

func (e *textEngine) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	lang := in.Languages[0]
	e.asked = append(e.asked, lang)
	return ocr.Result{PlainText: e.byLang[lang]}, nil
}

// setup resets the command globals and returns a command whose output is
// captured in the returned buffer.
func setup(t *testing.T, eng ocr.Engine) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.Default()
	debug = false
	outputPath, outputDir, convertOutput = "", "", ""
	combine, noBengali, stage = false, false, false
	engineName, parserName = "tesseract", extract.ParserRegex
	rawImage = true

	prev := newEngine
	newEngine = func(string) (ocr.Engine, error) { return eng, nil }
	t.Cleanup(func() { newEngine = prev })

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("not decoded with --raw"), 0o644))
	return p
}

func TestExtract_PerImage(t *testing.T) {
	cmd, out := setup(t, &textEngine{byLang: map[string]string{"ben": pageText}})
	dir := t.TempDir()
	outputDir = dir
	img := writeImage(t, dir, "page-01.jpg")

	require.NoError(t, runExtract(cmd, []string{img}))

	rows, err := csvout.ReadFile(filepath.Join(dir, "page-01_alumni.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ratikanta.mukherjee@bghs-alumni.com", rows[0].Email)
	assert.Equal(t, "Deceased", rows[1].Company)
	assert.Equal(t, "BGHSA-2025-00028", rows[2].RegistrationNumber)
	assert.Contains(t, rows[2].Notes, "Source: page-01.jpg")
	assert.Contains(t, out.String(), "Wrote 3 records")
}

func TestExtract_NoBengali(t *testing.T) {
	eng := &textEngine{byLang: map[string]string{"ben": pageText, "eng": pageText}}
	cmd, _ := setup(t, eng)
	dir := t.TempDir()
	noBengali = true
	outputPath = filepath.Join(dir, "out.csv")

	require.NoError(t, runExtract(cmd, []string{writeImage(t, dir, "p.png")}))
	assert.Equal(t, []string{"eng"}, eng.asked)
	assert.FileExists(t, outputPath)
}

func TestExtract_Combine(t *testing.T) {
	cmd, out := setup(t, &textEngine{byLang: map[string]string{"eng": pageText}})
	dir := t.TempDir()
	combine = true
	outputPath = filepath.Join(dir, "all.csv")
	a := writeImage(t, dir, "page-01.jpg")
	b := writeImage(t, dir, "page-02.jpg")

	require.NoError(t, runExtract(cmd, []string{a, b}))

	rows, err := csvout.ReadFile(outputPath)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Contains(t, rows[0].Notes, "Source: page-01.jpg")
	assert.Contains(t, rows[5].Notes, "Source: page-02.jpg")
	assert.Contains(t, out.String(), "Combined 6 records from 2 images")
}

func TestExtract_DebugPrintsText(t *testing.T) {
	cmd, out := setup(t, &textEngine{byLang: map[string]string{"ben": pageText}})
	dir := t.TempDir()
	debug = true
	outputDir = dir

	require.NoError(t, runExtract(cmd, []string{writeImage(t, dir, "p.jpg")}))
	assert.Contains(t, out.String(), "=== OCR text:")
	assert.Contains(t, out.String(), "#6 Dr. Bishwatosh Basu (1953) [deceased]")
}

func TestExtract_Errors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cmd, _ := setup(t, &textEngine{})
		err := runExtract(cmd, []string{filepath.Join(t.TempDir(), "nope.jpg")})
		assert.ErrorIs(t, err, ErrInputNotFound)
	})

	t.Run("empty extraction", func(t *testing.T) {
		cmd, _ := setup(t, &textEngine{byLang: map[string]string{"ben": "Name   Class   Year\n- - -"}})
		dir := t.TempDir()
		outputDir = dir
		err := runExtract(cmd, []string{writeImage(t, dir, "blank.jpg")})
		assert.ErrorIs(t, err, extract.ErrEmptyExtraction)
		assert.NoFileExists(t, filepath.Join(dir, "blank_alumni.csv"))
	})

	t.Run("engine failure", func(t *testing.T) {
		cmd, _ := setup(t, &textEngine{})
		dir := t.TempDir()
		err := runExtract(cmd, []string{writeImage(t, dir, "p.jpg")})
		assert.ErrorIs(t, err, ocr.ErrEngineFailure)
	})

	t.Run("output needs combine", func(t *testing.T) {
		cmd, _ := setup(t, &textEngine{})
		dir := t.TempDir()
		outputPath = filepath.Join(dir, "x.csv")
		err := runExtract(cmd, []string{writeImage(t, dir, "a.jpg"), writeImage(t, dir, "b.jpg")})
		assert.Error(t, err)
	})

	t.Run("gemini without key", func(t *testing.T) {
		cmd, _ := setup(t, &textEngine{})
		parserName = extract.ParserGemini
		err := runExtract(cmd, []string{writeImage(t, t.TempDir(), "p.jpg")})
		assert.ErrorContains(t, err, "GEMINI_API_KEY")
	})
}

func TestConvert_RegistryPage(t *testing.T) {
	cmd, out := setup(t, nil)
	convertOutput = filepath.Join(t.TempDir(), "page.csv")

	require.NoError(t, runConvert(cmd, []string{"../../batches/registry-page-01.yaml"}))

	rows, err := csvout.ReadFile(convertOutput)
	require.NoError(t, err)
	assert.Len(t, rows, 57)
	assert.Contains(t, out.String(), "Wrote 57 records")
}

func TestConvert_Missing(t *testing.T) {
	cmd, _ := setup(t, nil)
	err := runConvert(cmd, []string{filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestCheck(t *testing.T) {
	cmd, out := setup(t, nil)
	dir := t.TempDir()
	yml := filepath.Join(dir, "small.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(`batch: small
entries:
  - {serial_id: "1", name: Ratikanta Mukherjee, year: "1954"}
  - {serial_id: "6", honorific: Dr., name: Bishwatosh Basu, year: "1953", deceased: true}
`), 0o644))
	convertOutput = filepath.Join(dir, "small.csv")
	require.NoError(t, runConvert(cmd, []string{yml}))

	require.NoError(t, runCheck(cmd, []string{convertOutput}))
	assert.Contains(t, out.String(), "2 rows OK")
}

func TestCheck_ReportsProblems(t *testing.T) {
	cmd, out := setup(t, nil)
	convertOutput = filepath.Join(t.TempDir(), "page.csv")
	require.NoError(t, runConvert(cmd, []string{"../../batches/registry-page-01.yaml"}))
	out.Reset()

	err := runCheck(cmd, []string{convertOutput})
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, out.String(), "registration number BGHSA-2025-00028 duplicates line")
}

func TestCheck_BadHeader(t *testing.T) {
	cmd, _ := setup(t, nil)
	p := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,b,c\n1,2,3\n"), 0o644))
	assert.ErrorIs(t, runCheck(cmd, []string{p}), csvout.ErrHeaderMismatch)
	assert.ErrorIs(t, runCheck(cmd, []string{p + ".missing"}), ErrInputNotFound)
}

func TestToken(t *testing.T) {
	cmd, out := setup(t, nil)
	cfg.AdminSecret = "s3cret"
	tokenSubject = "registrar"

	require.NoError(t, runToken(cmd, nil))
	claims, err := middleware.ParseToken([]byte("s3cret"), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "registrar", claims.Subject)

	cfg.AdminSecret = ""
	assert.ErrorIs(t, runToken(cmd, nil), middleware.ErrNoSecret)
}

func TestServe_NoSecret(t *testing.T) {
	cmd, _ := setup(t, &textEngine{})
	assert.ErrorIs(t, runServe(cmd, nil), middleware.ErrNoSecret)
}

func TestBuildVersion(t *testing.T) {
	v := buildVersion("1.2.3", "abc123", "", "", "")
	assert.Equal(t, "1.2.3", v.GitVersion)
	assert.Equal(t, "abc123", v.GitCommit)
}

func TestCheck_OtherYearTag(t *testing.T) {
	cmd, out := setup(t, nil)
	p := filepath.Join(t.TempDir(), "other.csv")
	rows := []models.AlumniOutputRow{{
		OldRegistrationNumber: "1",
		RegistrationNumber:    "BGHSA-2024-00001",
		Email:                 "ratikanta.mukherjee@bghs-alumni.com",
		FirstName:             "Ratikanta",
		LastName:              "Mukherjee",
	}}
	require.NoError(t, csvout.WriteFile(p, rows))

	assert.ErrorIs(t, runCheck(cmd, []string{p}), ErrCheckFailed)
	assert.Contains(t, out.String(), `"BGHSA-2024-00001" is not BGHSA-2025-<5 digits>`)
}
