package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	texts map[string]string
	errs  map[string]error
	calls []Input
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in Input) (Result, error) {
	f.calls = append(f.calls, in)
	lang := in.Languages[0]
	if err := f.errs[lang]; err != nil {
		return Result{}, err
	}
	return Result{PlainText: f.texts[lang]}, nil
}

func TestRecognizeWithFallback_Primary(t *testing.T) {
	eng := &fakeEngine{texts: map[string]string{"ben": "১। অজিত কুমার মিত্র"}}
	res, err := RecognizeWithFallback(context.Background(), eng, Input{ID: "p1.jpg"}, Plan{Primary: "ben", Secondary: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "ben", res.Language)
	assert.Equal(t, "p1.jpg", res.InputID)
	assert.Equal(t, "fake", res.Engine)
	require.Len(t, eng.calls, 1)
	assert.Equal(t, DefaultPageSegMode, eng.calls[0].PageSegMode)
}

func TestRecognizeWithFallback_Secondary(t *testing.T) {
	eng := &fakeEngine{
		texts: map[string]string{"eng": "1. Ajit Kumar Mitra"},
		errs:  map[string]error{"ben": errors.New("Failed loading language 'ben'")},
	}
	res, err := RecognizeWithFallback(context.Background(), eng, Input{ID: "p1.jpg"}, Plan{Primary: "ben", Secondary: "eng", PageSegMode: 4})
	require.NoError(t, err)
	assert.Equal(t, "eng", res.Language)
	assert.Equal(t, "1. Ajit Kumar Mitra", res.PlainText)
	require.Len(t, eng.calls, 2)
	assert.Equal(t, 4, eng.calls[1].PageSegMode)
}

func TestRecognizeWithFallback_BlankPrimary(t *testing.T) {
	eng := &fakeEngine{texts: map[string]string{"ben": "  \n", "eng": "text"}}
	res, err := RecognizeWithFallback(context.Background(), eng, Input{}, Plan{Primary: "ben", Secondary: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "eng", res.Language)
}

func TestRecognizeWithFallback_BothFail(t *testing.T) {
	boom := errors.New("boom")
	eng := &fakeEngine{errs: map[string]error{"ben": boom}}
	_, err := RecognizeWithFallback(context.Background(), eng, Input{ID: "p2.png"}, Plan{Primary: "ben", Secondary: "eng"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEngineFailure)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, errBlankText)
	assert.Contains(t, err.Error(), "p2.png")
}

func TestRecognizeWithFallback_NoBengali(t *testing.T) {
	eng := &fakeEngine{texts: map[string]string{"eng": "x"}}
	_, err := RecognizeWithFallback(context.Background(), eng, Input{}, Plan{Secondary: "eng"})
	require.NoError(t, err)
	require.Len(t, eng.calls, 1)
	assert.Equal(t, []string{"eng"}, eng.calls[0].Languages)

	_, err = RecognizeWithFallback(context.Background(), eng, Input{}, Plan{})
	assert.ErrorIs(t, err, ErrEngineFailure)
}

func TestRecognizeWithFallback_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng := &fakeEngine{}
	_, err := RecognizeWithFallback(ctx, eng, Input{}, Plan{Primary: "ben"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, eng.calls)
}

func TestPreprocess(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{R: 200, G: 200, B: 200, A: 255}
			if x < 5 {
				c = color.RGBA{R: 50, G: 50, B: 50, A: 255}
			}
			src.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Preprocess(buf.Bytes())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), img.Bounds())

	dark := color.GrayModel.Convert(img.At(1, 1)).(color.Gray)
	light := color.GrayModel.Convert(img.At(15, 1)).(color.Gray)
	assert.Equal(t, uint8(0), dark.Y)
	assert.Equal(t, uint8(255), light.Y)
}

func TestOtsuThreshold(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(g.Pix, []uint8{50, 50, 200, 200})
	th := otsuThreshold(g)
	assert.GreaterOrEqual(t, th, uint8(50))
	assert.Less(t, th, uint8(200))

	flat := image.NewGray(image.Rect(0, 0, 2, 2))
	assert.Equal(t, uint8(0), otsuThreshold(flat))
}

func TestPreprocess_Garbage(t *testing.T) {
	_, err := Preprocess([]byte("not an image"))
	assert.Error(t, err)
}
