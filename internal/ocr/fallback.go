package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEngineFailure is returned when no language in the plan produced text.
var ErrEngineFailure = errors.New("ocr engine failure")

var errBlankText = errors.New("no text recognized")

// DefaultPageSegMode treats the page as a single uniform block of text.
const DefaultPageSegMode = 6

// Plan lists the languages to try, in order. An empty Primary skips
// straight to Secondary.
type Plan struct {
	Primary     string
	Secondary   string
	PageSegMode int
}

// Languages returns the non-empty languages of the plan in order.
func (p Plan) Languages() []string {
	var langs []string
	for _, l := range []string{p.Primary, p.Secondary} {
		if l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// RecognizeWithFallback runs engine with each language of plan until one
// yields non-blank text. The failure of an earlier language is not reported
// when a later one succeeds.
func RecognizeWithFallback(ctx context.Context, engine Engine, in Input, plan Plan) (Result, error) {
	langs := plan.Languages()
	if len(langs) == 0 {
		return Result{}, fmt.Errorf("%w: no language configured", ErrEngineFailure)
	}
	psm := plan.PageSegMode
	if psm == 0 {
		psm = DefaultPageSegMode
	}

	var errs []error
	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		attempt := in
		attempt.Languages = []string{lang}
		attempt.PageSegMode = psm

		res, err := engine.Recognize(ctx, attempt)
		if err == nil && strings.TrimSpace(res.PlainText) == "" {
			err = errBlankText
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", engine.Name(), lang, err))
			continue
		}
		res.InputID = in.ID
		res.Language = lang
		res.Engine = engine.Name()
		return res, nil
	}
	return Result{}, fmt.Errorf("%w: %s: %w", ErrEngineFailure, in.ID, errors.Join(errs...))
}
