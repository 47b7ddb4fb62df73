package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"alumniport/internal/pipeline"
)

// Config is everything a run needs besides its input files.
type Config struct {
	Program     string
	YearTag     string
	Width       int
	EmailDomain string
	IncludeYear bool

	LastClass  string
	Profession string
	Location   string
	Bio        string
	Role       string

	DuplicateThreshold float64

	PrimaryLanguage   string
	SecondaryLanguage string
	PageSegMode       int

	Addr     string
	TokenTTL time.Duration

	// secrets, read from their conventional variable names
	GeminiAPIKey    string
	CredentialsFile string
	DatabaseURL     string
	AdminSecret     string
}

// Default returns the values used for the BGHS registry migration.
func Default() Config {
	return Config{
		Program:            "BGHSA",
		YearTag:            "2025",
		Width:              5,
		EmailDomain:        "bghs-alumni.com",
		LastClass:          "12",
		Profession:         "Alumni",
		Location:           "Kolkata",
		Bio:                "BGHS Alumni",
		Role:               "alumni_member",
		DuplicateThreshold: 0.95,
		PrimaryLanguage:    "ben",
		SecondaryLanguage:  "eng",
		PageSegMode:        6,
		Addr:               ":8080",
		TokenTTL:           12 * time.Hour,
	}
}

// LoadEnvFile merges path into the process environment. Variables already
// set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads ALUMNI_* variables over Default and validates the result.
func Load() (Config, error) {
	c := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str("ALUMNI_PROGRAM", &c.Program)
	str("ALUMNI_YEAR_TAG", &c.YearTag)
	str("ALUMNI_EMAIL_DOMAIN", &c.EmailDomain)
	str("ALUMNI_LAST_CLASS", &c.LastClass)
	str("ALUMNI_PROFESSION", &c.Profession)
	str("ALUMNI_LOCATION", &c.Location)
	str("ALUMNI_BIO", &c.Bio)
	str("ALUMNI_ROLE", &c.Role)
	str("ALUMNI_OCR_PRIMARY_LANG", &c.PrimaryLanguage)
	str("ALUMNI_OCR_SECONDARY_LANG", &c.SecondaryLanguage)
	str("ALUMNI_ADDR", &c.Addr)

	if v, ok := os.LookupEnv("ALUMNI_REG_WIDTH"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("ALUMNI_REG_WIDTH: %w", err))
		}
		c.Width = n
	}
	if v, ok := os.LookupEnv("ALUMNI_EMAIL_INCLUDE_YEAR"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("ALUMNI_EMAIL_INCLUDE_YEAR: %w", err))
		}
		c.IncludeYear = b
	}
	if v, ok := os.LookupEnv("ALUMNI_DUPLICATE_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("ALUMNI_DUPLICATE_THRESHOLD: %w", err))
		}
		c.DuplicateThreshold = f
	}
	if v, ok := os.LookupEnv("ALUMNI_OCR_PSM"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("ALUMNI_OCR_PSM: %w", err))
		}
		c.PageSegMode = n
	}
	if v, ok := os.LookupEnv("ALUMNI_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("ALUMNI_TOKEN_TTL: %w", err))
		}
		c.TokenTTL = d
	}

	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.AdminSecret = os.Getenv("ALUMNI_ADMIN_SECRET")

	if len(errs) > 0 {
		return c, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return c, c.Validate()
}

// Validate rejects settings that would produce malformed ids or emails.
func (c Config) Validate() error {
	var errs []error
	if c.Program == "" {
		errs = append(errs, errors.New("program tag is empty"))
	}
	if c.Width <= 0 {
		errs = append(errs, fmt.Errorf("registration width %d must be positive", c.Width))
	}
	if c.EmailDomain == "" || strings.Contains(c.EmailDomain, "@") {
		errs = append(errs, fmt.Errorf("email domain %q must be non-empty and contain no @", c.EmailDomain))
	}
	if c.DuplicateThreshold < 0 || c.DuplicateThreshold > 1 {
		errs = append(errs, fmt.Errorf("duplicate threshold %v must be within [0, 1]", c.DuplicateThreshold))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token ttl %v must be positive", c.TokenTTL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// PipelineOptions maps the configuration onto the row assembler's options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Registration: pipeline.RegistrationFormat{Program: c.Program, YearTag: c.YearTag, Width: c.Width},
		Email:        pipeline.EmailFormat{Domain: c.EmailDomain, IncludeYear: c.IncludeYear},
		Defaults: pipeline.RowDefaults{
			LastClass:  c.LastClass,
			Profession: c.Profession,
			Location:   c.Location,
			Bio:        c.Bio,
			Role:       c.Role,
		},
		DuplicateThreshold: c.DuplicateThreshold,
	}
}
