// Package vision turns a captured photo into a face descriptor through an
// external detection service. The service owns the models; this package owns
// the single-face contract and the quality gate.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"presence/backend/internal/entity"

	"github.com/pkg/errors"
)

var (
	// ErrNoFaceDetected is returned when the detector finds no face.
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrMultipleFacesDetected is returned when the detector finds more than
	// one face. Enrollment and clock-in both require exactly one.
	ErrMultipleFacesDetected = errors.New("multiple faces detected")
	// ErrLowQuality is returned when the capture scores below the configured
	// minimum quality.
	ErrLowQuality = errors.New("face image quality too low")
	// ErrDetector wraps transport and protocol failures of the detection
	// service.
	ErrDetector = errors.New("face detector unavailable")
)

const defaultDetectorURL = "http://localhost:8100"

// BoundingBox is a detected face region in pixel coordinates.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Extraction is the result of a successful single-face extraction.
type Extraction struct {
	Embedding []float32
	Quality   float64
	Box       BoundingBox
}

// detectResponse is the wire shape returned by the detection service.
type detectResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Faces  []struct {
		BBox       []float64 `json:"bbox"` // [x1, y1, x2, y2] in pixels
		Descriptor []float32 `json:"descriptor"`
	} `json:"faces"`
}

// Extractor posts captures to the detection service and applies the
// single-face and quality rules. Construct it explicitly and share one
// instance; the model warmup happens once per process.
type Extractor struct {
	baseURL    string
	minQuality float64
	client     *http.Client

	warmupOnce sync.Once
	warmupErr  error
}

func NewExtractor(baseURL string, minQuality float64) *Extractor {
	if baseURL == "" {
		baseURL = defaultDetectorURL
	}

	return &Extractor{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		minQuality: minQuality,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Warmup asks the detection service to load its models. It runs the remote
// call at most once per process; later calls return the recorded result.
func (e *Extractor) Warmup(ctx context.Context) error {
	e.warmupOnce.Do(func() {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/models/load", nil)
		if err != nil {
			e.warmupErr = errors.Wrap(err, "creating warmup request")
			return
		}

		resp, err := e.client.Do(req)
		if err != nil {
			e.warmupErr = errors.Wrap(ErrDetector, err.Error())
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			e.warmupErr = errors.Wrapf(ErrDetector, "warmup status %d", resp.StatusCode)
		}
	})

	return e.warmupErr
}

// Extract detects faces on the encoded image and returns the descriptor of
// the single face found. Images beyond the size bound are downscaled before
// the upload.
func (e *Extractor) Extract(ctx context.Context, imageData []byte) (Extraction, error) {
	imageData, err := downscale(imageData)
	if err != nil {
		return Extraction{}, errors.Wrap(err, "preparing image")
	}

	detected, err := e.detect(ctx, imageData)
	if err != nil {
		return Extraction{}, err
	}

	switch len(detected.Faces) {
	case 0:
		return Extraction{}, ErrNoFaceDetected
	case 1:
	default:
		return Extraction{}, ErrMultipleFacesDetected
	}

	face := detected.Faces[0]
	if len(face.Descriptor) != entity.EmbeddingDim {
		return Extraction{}, errors.Wrapf(ErrDetector, "descriptor length %d, want %d", len(face.Descriptor), entity.EmbeddingDim)
	}

	box := cornerToBox(face.BBox)
	quality := Score(box, detected.Width, detected.Height)
	if quality < e.minQuality {
		return Extraction{}, ErrLowQuality
	}

	return Extraction{
		Embedding: face.Descriptor,
		Quality:   quality,
		Box:       box,
	}, nil
}

func (e *Extractor) detect(ctx context.Context, imageData []byte) (detectResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "capture.jpg")
	if err != nil {
		return detectResponse{}, errors.Wrap(err, "creating form file")
	}
	if _, err := part.Write(imageData); err != nil {
		return detectResponse{}, errors.Wrap(err, "writing image data")
	}
	if err := writer.Close(); err != nil {
		return detectResponse{}, errors.Wrap(err, "closing multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/detect", &buf)
	if err != nil {
		return detectResponse{}, errors.Wrap(err, "creating detect request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return detectResponse{}, errors.Wrap(ErrDetector, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return detectResponse{}, errors.Wrap(ErrDetector, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return detectResponse{}, errors.Wrapf(ErrDetector, "detect status %d: %s", resp.StatusCode, string(body))
	}

	var detected detectResponse
	if err := json.Unmarshal(body, &detected); err != nil {
		return detectResponse{}, errors.Wrap(ErrDetector, err.Error())
	}

	return detected, nil
}

// cornerToBox converts a [x1, y1, x2, y2] corner bbox to BoundingBox.
func cornerToBox(bbox []float64) BoundingBox {
	if len(bbox) != 4 {
		return BoundingBox{}
	}
	return BoundingBox{
		X:      bbox[0],
		Y:      bbox[1],
		Width:  bbox[2] - bbox[0],
		Height: bbox[3] - bbox[1],
	}
}
