// Package batch loads hand-transcribed registry tables from YAML.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"alumniport/internal/models"
	"alumniport/internal/pipeline"
	"alumniport/internal/transliterate"
)

// RegistrationOverride replaces the configured id format field by field.
type RegistrationOverride struct {
	Program string `yaml:"program"`
	YearTag string `yaml:"year_tag"`
	Width   int    `yaml:"width"`
}

// EmailOverride replaces the configured email format.
type EmailOverride struct {
	Domain      string `yaml:"domain"`
	IncludeYear *bool  `yaml:"include_year"`
}

// Batch is one literal table of registry entries.
type Batch struct {
	Name         string                     `yaml:"batch"`
	Source       string                     `yaml:"source"`
	Registration *RegistrationOverride      `yaml:"registration"`
	Email        *EmailOverride             `yaml:"email"`
	Entries      []models.AlumniSourceEntry `yaml:"entries"`
}

// Parse decodes and validates a batch document.
func Parse(data []byte) (Batch, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Batch{}, fmt.Errorf("batch: document is empty")
	}
	var b Batch
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return Batch{}, fmt.Errorf("batch: decode: %w", err)
	}
	b.normalize()
	if err := b.validate(); err != nil {
		return Batch{}, err
	}
	return b, nil
}

// LoadReader reads a batch document from r.
func LoadReader(r io.Reader) (Batch, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, fmt.Errorf("batch: read: %w", err)
	}
	return Parse(content)
}

// Load reads the batch file at path.
func Load(path string) (Batch, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("batch: read %s: %w", path, err)
	}
	b, err := Parse(content)
	if err != nil {
		return Batch{}, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func (b *Batch) normalize() {
	b.Name = strings.TrimSpace(b.Name)
	for i := range b.Entries {
		e := &b.Entries[i]
		e.SerialID = strings.TrimSpace(e.SerialID)
		e.FullName = strings.Join(strings.Fields(e.FullName), " ")
		e.YearOfLeaving = strings.TrimSpace(transliterate.Digits(e.YearOfLeaving))
		e.DeceasedYear = strings.TrimSpace(transliterate.Digits(e.DeceasedYear))
		if h, err := models.ParseHonorific(string(e.Honorific)); err == nil {
			e.Honorific = h
		}
	}
}

func (b Batch) validate() error {
	var errs []error
	if b.Name == "" {
		errs = append(errs, errors.New("batch: name is required"))
	}
	if len(b.Entries) == 0 {
		errs = append(errs, errors.New("batch: no entries"))
	}
	if b.Registration != nil && b.Registration.Width < 0 {
		errs = append(errs, fmt.Errorf("batch: registration width %d is negative", b.Registration.Width))
	}
	if b.Email != nil && strings.Contains(b.Email.Domain, "@") {
		errs = append(errs, fmt.Errorf("batch: email domain %q contains @", b.Email.Domain))
	}
	for i, e := range b.Entries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("batch: entries[%d] (serial %q): %w", i, e.SerialID, err))
		}
	}
	return errors.Join(errs...)
}

// Apply returns opts with the batch's overrides laid over it.
func (b Batch) Apply(opts pipeline.Options) pipeline.Options {
	if r := b.Registration; r != nil {
		if r.Program != "" {
			opts.Registration.Program = r.Program
		}
		if r.YearTag != "" {
			opts.Registration.YearTag = r.YearTag
		}
		if r.Width > 0 {
			opts.Registration.Width = r.Width
		}
	}
	if e := b.Email; e != nil {
		if e.Domain != "" {
			opts.Email.Domain = e.Domain
		}
		if e.IncludeYear != nil {
			opts.Email.IncludeYear = *e.IncludeYear
		}
	}
	return opts
}
