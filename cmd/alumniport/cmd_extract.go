package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alumniport/internal/csvout"
	"alumniport/internal/extract"
	googlevision "alumniport/internal/google-vision"
	"alumniport/internal/models"
	"alumniport/internal/ocr"
	"alumniport/internal/ocr/tesseract"
	"alumniport/internal/pipeline"
)

var (
	outputPath string
	outputDir  string
	combine    bool
	noBengali  bool
	engineName string
	parserName string
	rawImage   bool
	stage      bool
)

const debugPreviewRecords = 5

var extractCmd = &cobra.Command{
	Use:   "extract <image>...",
	Short: "OCR registry page images and write import CSV files",
	Long: `Runs OCR on each image (Bengali first, English as fallback), parses the
registry lines and writes <image stem>_alumni.csv next to --output-dir.
With --combine all images go into a single file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV path (single image or --combine)")
	extractCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for per-image CSV files")
	extractCmd.Flags().BoolVar(&combine, "combine", false, "Write all images into one CSV")
	extractCmd.Flags().BoolVar(&noBengali, "no-bengali", false, "Skip the Bengali OCR pass")
	extractCmd.Flags().StringVar(&engineName, "engine", "tesseract", "OCR engine: tesseract or vision")
	extractCmd.Flags().StringVar(&parserName, "parser", extract.ParserRegex, "Text parser: regex or gemini")
	extractCmd.Flags().BoolVar(&rawImage, "raw", false, "Skip grayscale/threshold preprocessing")
	extractCmd.Flags().BoolVar(&stage, "stage", false, "Also write rows to the staging database")
}

// newEngine is swapped out in tests.
var newEngine = func(name string) (ocr.Engine, error) {
	switch name {
	case "", "tesseract":
		return tesseract.New(), nil
	case "vision":
		return googlevision.New(cfg.CredentialsFile), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want tesseract or vision)", name)
	}
}

func newExtractor() (*extract.Extractor, error) {
	engine, err := newEngine(engineName)
	if err != nil {
		return nil, err
	}
	if parserName == extract.ParserGemini && cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required for --parser gemini")
	}
	plan := ocr.Plan{
		Primary:     cfg.PrimaryLanguage,
		Secondary:   cfg.SecondaryLanguage,
		PageSegMode: cfg.PageSegMode,
	}
	if noBengali {
		plan.Primary = ""
	}
	return &extract.Extractor{
		Engine:       engine,
		Plan:         plan,
		Parser:       parserName,
		GeminiAPIKey: cfg.GeminiAPIKey,
		Raw:          rawImage,
		Logger:       logger,
	}, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	for _, p := range args {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%w: %s", ErrInputNotFound, p)
		}
	}
	if outputPath != "" && len(args) > 1 && !combine {
		return errors.New("--output with several images needs --combine (or use --output-dir)")
	}

	x, err := newExtractor()
	if err != nil {
		return err
	}
	opts := cfg.PipelineOptions()
	out := cmd.OutOrStdout()

	var combined []models.AlumniSourceEntry
	for _, p := range args {
		entries, err := extractImage(cmd, x, p)
		if err != nil {
			return err
		}
		if combine {
			combined = append(combined, entries...)
			continue
		}
		dest := outputPath
		if dest == "" {
			dest = filepath.Join(outputDir, stem(p)+"_alumni.csv")
		}
		if err := emit(cmd, stem(p), entries, opts, dest); err != nil {
			return err
		}
	}

	if combine {
		dest := outputPath
		if dest == "" {
			dest = filepath.Join(outputDir, "combined_alumni.csv")
		}
		if err := emit(cmd, "combined", combined, opts, dest); err != nil {
			return err
		}
		fmt.Fprintf(out, "Combined %d records from %d images\n", len(combined), len(args))
	}
	return nil
}

func extractImage(cmd *cobra.Command, x *extract.Extractor, path string) ([]models.AlumniSourceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Info("processing image", zap.String("path", path))

	res, err := x.Extract(cmd.Context(), filepath.Base(path), data)
	if debug && res.Text != "" {
		printOCRText(cmd.OutOrStdout(), path, res.Text)
	}
	if err != nil {
		return nil, err
	}
	if debug {
		printPreview(cmd.OutOrStdout(), res.Entries)
	}
	return res.Entries, nil
}

// emit assembles entries, writes them to dest and stages them when asked.
func emit(cmd *cobra.Command, batchID string, entries []models.AlumniSourceEntry, opts pipeline.Options, dest string) error {
	res := pipeline.Run(entries, opts)
	logDiagnostics(res)
	if err := csvout.WriteFile(dest, res.Rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s (%d diagnostics)\n", len(res.Rows), dest, len(res.Diagnostics))

	if stage {
		return stageRows(cmd, batchID, res.Rows)
	}
	return nil
}

func logDiagnostics(res pipeline.Result) {
	for _, d := range res.Diagnostics {
		logger.Warn(d.Message,
			zap.String("kind", string(d.Kind)),
			zap.String("serial", d.SerialID),
			zap.String("other", d.Other))
	}
}

func printOCRText(w io.Writer, path, text string) {
	fmt.Fprintf(w, "=== OCR text: %s ===\n%s\n=== end ===\n", path, text)
}

func printPreview(w io.Writer, entries []models.AlumniSourceEntry) {
	n := min(len(entries), debugPreviewRecords)
	fmt.Fprintf(w, "First %d of %d records:\n", n, len(entries))
	for _, e := range entries[:n] {
		line := fmt.Sprintf("  #%s %s", e.SerialID, e.FullName)
		if e.Honorific != models.HonorificNone {
			line = fmt.Sprintf("  #%s %s %s", e.SerialID, e.Honorific, e.FullName)
		}
		if e.YearOfLeaving != "" {
			line += " (" + e.YearOfLeaving + ")"
		}
		if e.IsDeceased {
			line += " [deceased]"
		}
		fmt.Fprintln(w, line)
	}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
