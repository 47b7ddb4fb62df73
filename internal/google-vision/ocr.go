package googlevision

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"alumniport/internal/ocr"
)

type detectFunc func(ctx context.Context, img *visionpb.Image, ictx *visionpb.ImageContext) (*visionpb.TextAnnotation, error)

// Engine sends images to the Cloud Vision document text detection API.
type Engine struct {
	credentialsFile string
	detect          detectFunc
}

// New returns a Vision engine. credentialsFile may be empty, in which case
// application default credentials are used.
func New(credentialsFile string) *Engine {
	e := &Engine{credentialsFile: credentialsFile}
	e.detect = e.detectWithClient
	return e
}

func (e *Engine) Name() string { return "vision" }

// Recognize runs DOCUMENT_TEXT_DETECTION on one image. An image without
// any text yields an empty PlainText and no error.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	img := &visionpb.Image{Content: in.Image}
	var ictx *visionpb.ImageContext
	if hints := languageHints(in.Languages); len(hints) > 0 {
		ictx = &visionpb.ImageContext{LanguageHints: hints}
	}

	annotation, err := e.detect(ctx, img, ictx)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("vision: detect document text: %w", err)
	}
	res := ocr.Result{InputID: in.ID, Engine: e.Name()}
	if len(in.Languages) > 0 {
		res.Language = in.Languages[0]
	}
	if annotation != nil {
		res.PlainText = strings.TrimSpace(annotation.GetText())
	}
	return res, nil
}

func (e *Engine) detectWithClient(ctx context.Context, img *visionpb.Image, ictx *visionpb.ImageContext) (*visionpb.TextAnnotation, error) {
	var (
		client *vision.ImageAnnotatorClient
		err    error
	)
	if e.credentialsFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(e.credentialsFile))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("init client: %w", err)
	}
	defer client.Close()
	return client.DetectDocumentText(ctx, img, ictx)
}

var tesseractToBCP47 = map[string]string{
	"ben": "bn",
	"eng": "en",
	"hin": "hi",
}

// languageHints maps Tesseract language codes onto the BCP-47 codes Vision
// expects. Unknown codes pass through unchanged.
func languageHints(langs []string) []string {
	hints := make([]string, 0, len(langs))
	for _, l := range langs {
		if l == "" {
			continue
		}
		if mapped, ok := tesseractToBCP47[l]; ok {
			l = mapped
		}
		hints = append(hints, l)
	}
	return hints
}
