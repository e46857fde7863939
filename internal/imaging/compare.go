package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/pnm-tools/pkg/pnm"
)

// CompareResult contains pixel-by-pixel comparison information
type CompareResult struct {
	Identical        bool    `json:"identical"`
	SimilarityScore  float64 `json:"similarity_score"`
	PixelsDifferent  int     `json:"pixels_different"`
	TotalPixels      int     `json:"total_pixels"`
	MaxChannelDiff   int     `json:"max_channel_diff"`
	AverageColorDiff float64 `json:"average_color_diff"`
	FirstDifference  *Point  `json:"first_difference,omitempty"`
}

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Compare compares the pixels of two images of equal size. A pixel counts as
// different when the mean of its channel differences exceeds tolerance.
// Headers (variant, maxval, comments) are not compared.
func Compare(a, b *pnm.Image, tolerance int) (*CompareResult, error) {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return nil, fmt.Errorf("size mismatch: %dx%d vs %dx%d",
			a.Width(), a.Height(), b.Width(), b.Height())
	}

	pa, pb := a.Pixels(), b.Pixels()
	if n := a.Width() * a.Height(); len(pa) != n || len(pb) != n {
		return nil, fmt.Errorf("cannot compare an uninitialized image")
	}

	res := &CompareResult{TotalPixels: len(pa)}
	var totalColorDiff float64
	exact := true

	for i := range pa {
		dr := absDiff(pa[i].R, pb[i].R)
		dg := absDiff(pa[i].G, pb[i].G)
		db := absDiff(pa[i].B, pb[i].B)
		for _, d := range [3]int{dr, dg, db} {
			if d > res.MaxChannelDiff {
				res.MaxChannelDiff = d
			}
		}
		if dr+dg+db == 0 {
			continue
		}
		if exact {
			exact = false
			res.FirstDifference = &Point{X: i % a.Width(), Y: i / a.Width()}
		}
		diff := float64(dr+dg+db) / 3.0
		totalColorDiff += diff
		if diff > float64(tolerance) {
			res.PixelsDifferent++
		}
	}

	res.Identical = exact
	res.SimilarityScore = math.Round((1.0-float64(res.PixelsDifferent)/float64(res.TotalPixels))*1000) / 1000
	res.AverageColorDiff = math.Round(totalColorDiff/float64(res.TotalPixels)*100) / 100
	return res, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
