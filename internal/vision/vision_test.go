package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"presence/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type fakeFace struct {
	BBox       []float64 `json:"bbox"`
	Descriptor []float32 `json:"descriptor"`
}

func fakeDetector(t *testing.T, width, height int, faces ...fakeFace) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/detect", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{
			"width":  width,
			"height": height,
			"faces":  faces,
		}))
	}))
}

func descriptor() []float32 {
	d := make([]float32, entity.EmbeddingDim)
	for i := range d {
		d[i] = float32(i) / float32(entity.EmbeddingDim)
	}
	return d
}

func TestExtractSingleFace(t *testing.T) {
	srv := fakeDetector(t, 1000, 1000, fakeFace{
		BBox:       []float64{350, 300, 650, 700},
		Descriptor: descriptor(),
	})
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	got, err := ex.Extract(context.Background(), testImage(t, 640, 480))
	require.NoError(t, err)
	require.Len(t, got.Embedding, entity.EmbeddingDim)
	require.Greater(t, got.Quality, 50.0)
	require.Equal(t, BoundingBox{X: 350, Y: 300, Width: 300, Height: 400}, got.Box)
}

func TestExtractNoFace(t *testing.T) {
	srv := fakeDetector(t, 1000, 1000)
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	_, err := ex.Extract(context.Background(), testImage(t, 640, 480))
	require.ErrorIs(t, err, ErrNoFaceDetected)
}

func TestExtractMultipleFaces(t *testing.T) {
	face := fakeFace{BBox: []float64{0, 0, 100, 130}, Descriptor: descriptor()}
	srv := fakeDetector(t, 1000, 1000, face, face)
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	_, err := ex.Extract(context.Background(), testImage(t, 640, 480))
	require.ErrorIs(t, err, ErrMultipleFacesDetected)
}

func TestExtractLowQuality(t *testing.T) {
	// Tiny face tucked in the corner of a large frame.
	srv := fakeDetector(t, 4000, 3000, fakeFace{
		BBox:       []float64{0, 0, 20, 20},
		Descriptor: descriptor(),
	})
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	_, err := ex.Extract(context.Background(), testImage(t, 640, 480))
	require.ErrorIs(t, err, ErrLowQuality)
}

func TestExtractWrongDescriptorLength(t *testing.T) {
	srv := fakeDetector(t, 1000, 1000, fakeFace{
		BBox:       []float64{350, 300, 650, 700},
		Descriptor: make([]float32, 64),
	})
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	_, err := ex.Extract(context.Background(), testImage(t, 640, 480))
	require.ErrorIs(t, err, ErrDetector)
}

func TestExtractDetectorDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	_, err := ex.Extract(context.Background(), testImage(t, 640, 480))
	require.ErrorIs(t, err, ErrDetector)
}

func TestWarmupRunsOnce(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models/load" {
			atomic.AddInt32(&calls, 1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ex := NewExtractor(srv.URL, 50)

	require.NoError(t, ex.Warmup(context.Background()))
	require.NoError(t, ex.Warmup(context.Background()))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDownscaleLargeImage(t *testing.T) {
	resized, err := downscale(testImage(t, 2560, 1440))
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(resized))
	require.NoError(t, err)
	require.Equal(t, maxUploadDim, cfg.Width)
	require.Equal(t, 720, cfg.Height)
}

func TestDownscaleSmallImagePassthrough(t *testing.T) {
	original := testImage(t, 640, 480)
	out, err := downscale(original)
	require.NoError(t, err)
	require.True(t, bytes.Equal(original, out))
}

func TestDownscaleGarbage(t *testing.T) {
	_, err := downscale([]byte("not an image"))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrDetector))
}
