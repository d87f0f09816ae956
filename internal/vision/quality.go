package vision

import "math"

// Weights of the capture quality heuristic. The score is an approximate
// proxy for how usable a capture is, not a calibrated biometric metric.
const (
	weightFaceArea     = 0.30
	weightCenteredness = 0.20
	weightAspectRatio  = 0.20
	weightSymmetry     = 0.30

	// Portrait faces come out close to 3:4.
	idealAspectRatio = 0.75

	// Faces filling roughly a fifth of the frame score full marks on area.
	idealAreaRatio = 0.2

	// Symmetry is not computed from pixels yet; every capture gets the same
	// placeholder term. TODO: score landmark symmetry once the detector
	// reports landmarks.
	symmetryPlaceholder = 1.0
)

// Score rates a detected face region from 0 to 100.
func Score(box BoundingBox, imageWidth, imageHeight int) float64 {
	if imageWidth <= 0 || imageHeight <= 0 || box.Width <= 0 || box.Height <= 0 {
		return 0
	}

	imgArea := float64(imageWidth) * float64(imageHeight)

	// Face size relative to the frame, saturating at the ideal ratio.
	areaRatio := (box.Width * box.Height) / imgArea
	areaScore := math.Min(areaRatio/idealAreaRatio, 1)

	// Distance of the face centre from the frame centre, normalized by the
	// half diagonal.
	faceCX := box.X + box.Width/2
	faceCY := box.Y + box.Height/2
	dx := faceCX - float64(imageWidth)/2
	dy := faceCY - float64(imageHeight)/2
	halfDiag := math.Hypot(float64(imageWidth), float64(imageHeight)) / 2
	centerScore := 1 - math.Min(math.Hypot(dx, dy)/halfDiag, 1)

	// Closeness of the box aspect ratio to the portrait ideal.
	aspect := box.Width / box.Height
	aspectScore := 1 - math.Min(math.Abs(aspect-idealAspectRatio)/idealAspectRatio, 1)

	score := weightFaceArea*areaScore +
		weightCenteredness*centerScore +
		weightAspectRatio*aspectScore +
		weightSymmetry*symmetryPlaceholder

	return score * 100
}
