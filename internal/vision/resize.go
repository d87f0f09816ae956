package vision

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// maxUploadDim bounds the longest side of a capture before it is posted to
// the detector. Phone captures are routinely 4000px wide; the detector does
// not benefit past this bound.
const maxUploadDim = 1280

// downscale re-encodes the image as jpeg with the longest side capped at
// maxUploadDim. Images already within the bound pass through untouched.
func downscale(imageData []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image config")
	}

	if cfg.Width <= maxUploadDim && cfg.Height <= maxUploadDim {
		return imageData, nil
	}

	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}

	scale := float64(maxUploadDim) / float64(cfg.Width)
	if cfg.Height > cfg.Width {
		scale = float64(maxUploadDim) / float64(cfg.Height)
	}

	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(cfg.Width)*scale),
		int(float64(cfg.Height)*scale),
	))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, errors.Wrap(err, "encoding resized image")
	}

	return buf.Bytes(), nil
}
