package ocr

import "context"

// Input is a single image submitted for recognition.
type Input struct {
	// ID is echoed back in the Result, usually the image file name.
	ID string
	// Image is the encoded image payload (PNG, JPEG, ...).
	Image []byte
	// Languages holds Tesseract language codes ("ben", "eng"). Engines that
	// use other code systems map them.
	Languages []string
	// PageSegMode is the Tesseract page segmentation mode. Zero means the
	// engine default.
	PageSegMode int
}

// Result is the OCR output for one Input.
type Result struct {
	InputID   string
	PlainText string
	// Language is the hint that produced PlainText.
	Language string
	Engine   string
}

// Engine recognizes text in one image at a time.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}
