package output

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/fogleman/gg"
)

const quicklookMaxDim = 1024

// RenderQuicklook renders the prediction raster as a grayscale PNG so the
// result can be eyeballed without GIS tooling. Tall or wide rasters are
// strided down to at most quicklookMaxDim pixels per side.
func RenderQuicklook(rasterPath, pngPath string) error {
	ds, err := godal.Open(rasterPath)
	if err != nil {
		return fmt.Errorf("failed to open prediction raster: %w", err)
	}
	defer ds.Close()

	band := ds.Bands()[0]
	width := ds.Structure().SizeX
	height := ds.Structure().SizeY

	stride := 1
	if longest := max(width, height); longest > quicklookMaxDim {
		stride = (longest + quicklookMaxDim - 1) / quicklookMaxDim
	}
	outW := (width + stride - 1) / stride
	outH := (height + stride - 1) / stride

	nodata, hasNodata := band.NoData()

	values := make([][]float64, outH)
	rowBuf := make([]float64, width)
	lo, hi := math.Inf(1), math.Inf(-1)
	for oy := 0; oy < outH; oy++ {
		if err := band.Read(0, oy*stride, rowBuf, width, 1); err != nil {
			return fmt.Errorf("failed to read raster row %d: %w", oy*stride, err)
		}
		values[oy] = make([]float64, outW)
		for ox := 0; ox < outW; ox++ {
			v := rowBuf[ox*stride]
			if hasNodata && v == nodata {
				v = math.NaN()
			}
			values[oy][ox] = v
			if !math.IsNaN(v) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	if lo >= hi {
		hi = lo + 1
	}

	dc := gg.NewContext(outW, outH)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	for oy := 0; oy < outH; oy++ {
		for ox := 0; ox < outW; ox++ {
			v := values[oy][ox]
			if math.IsNaN(v) {
				continue
			}
			gray := (v - lo) / (hi - lo)
			dc.SetRGB(gray, gray, gray)
			dc.SetPixel(ox, oy)
		}
	}

	if err := dc.SavePNG(pngPath); err != nil {
		return fmt.Errorf("failed to save quicklook: %w", err)
	}
	return nil
}
