package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ericlevine/billprint"
	"github.com/ericlevine/billprint/bitutil"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// Binarize converts a rendered page back to one bit per pixel. The black
// point is the deepest valley between the two dominant peaks of the page's
// luminance histogram, so mild JPEG noise around module edges does not
// move it. A page without two distinct peaks yields ErrFormat.
func Binarize(img image.Image) (*bitutil.BitMatrix, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("raster: empty image: %w", billprint.ErrInvalidParameter)
	}

	luminances := make([]byte, width*height)
	var buckets [luminanceBuckets]int
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray).Y
			luminances[y*width+x] = l
			buckets[l>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(buckets[:])
	if err != nil {
		return nil, err
	}

	matrix := bitutil.NewBitMatrixWithSize(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if int(luminances[y*width+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x := 0; x < numBuckets; x++ {
		if buckets[x] > firstPeakSize {
			firstPeak = x
			firstPeakSize = buckets[x]
		}
		maxBucketCount = max(maxBucketCount, buckets[x])
	}

	// The second peak is weighted by its distance from the first so a
	// shoulder of the first peak does not win.
	secondPeak := 0
	secondPeakScore := 0
	for x := 0; x < numBuckets; x++ {
		dist := x - firstPeak
		if score := buckets[x] * dist * dist; score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}
	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}
	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, fmt.Errorf("raster: image has no dark and light peaks: %w", billprint.ErrFormat)
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}
	return bestValley << luminanceShift, nil
}
