package sentinel

import (
	"fmt"
	"math"
	"sync"

	"github.com/airbusgeo/godal"
)

// Composite wraps the opened multi-band optical GeoTIFF. GDAL dataset
// handles are not safe for concurrent access, so all reads go through the
// internal mutex; callers fan out over point chunks and the reads serialize
// here.
type Composite struct {
	ds     *godal.Dataset
	bands  []godal.Band
	geo    [6]float64
	width  int
	height int

	toWGS84   *godal.Transform
	fromWGS84 *godal.Transform

	mu sync.Mutex
}

// OpenComposite opens the composite raster and validates that it carries at
// least the expected spectral bands and is expressed in the target projected
// system.
func OpenComposite(path string, targetEPSG int) (*Composite, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open composite %s: %w", path, err)
	}

	bands := ds.Bands()
	if len(bands) < len(SpectralBands) {
		ds.Close()
		return nil, fmt.Errorf("composite %s has %d bands, expected at least %d (%v)", path, len(bands), len(SpectralBands), SpectralBands)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to get composite geotransform: %w", err)
	}

	srcSR := ds.SpatialRef()
	defer srcSR.Close()
	targetSR, err := godal.NewSpatialRefFromEPSG(targetEPSG)
	if err != nil {
		ds.Close()
		return nil, fmt.Errorf("invalid target EPSG %d: %w", targetEPSG, err)
	}
	defer targetSR.Close()
	if !srcSR.IsSame(targetSR) {
		ds.Close()
		return nil, fmt.Errorf("composite %s is not in EPSG:%d; reproject the asset before running", path, targetEPSG)
	}

	wgs84, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		ds.Close()
		return nil, err
	}
	defer wgs84.Close()

	toWGS84, err := godal.NewTransform(srcSR, wgs84)
	if err != nil {
		ds.Close()
		return nil, fmt.Errorf("failed to build transform to WGS84: %w", err)
	}
	fromWGS84, err := godal.NewTransform(wgs84, srcSR)
	if err != nil {
		toWGS84.Close()
		ds.Close()
		return nil, fmt.Errorf("failed to build transform from WGS84: %w", err)
	}

	return &Composite{
		ds:        ds,
		bands:     bands,
		geo:       gt,
		width:     ds.Structure().SizeX,
		height:    ds.Structure().SizeY,
		toWGS84:   toWGS84,
		fromWGS84: fromWGS84,
	}, nil
}

func (c *Composite) Close() {
	c.toWGS84.Close()
	c.fromWGS84.Close()
	c.ds.Close()
}

func (c *Composite) Size() (int, int) { return c.width, c.height }

// Resolution is the pixel size along x, in the units of the projected
// system (metres for UTM).
func (c *Composite) Resolution() float64 { return c.geo[1] }

// Origin returns the projected coordinates of the raster's top-left corner.
func (c *Composite) Origin() (float64, float64) { return c.geo[0], c.geo[3] }

// GeoTransform exposes the six affine coefficients for export writers.
func (c *Composite) GeoTransform() [6]float64 { return c.geo }

// PixelAt maps a projected coordinate to the pixel containing it. This is
// the exact nearest-pixel lookup used by the spatial join: no interpolation,
// no tie ambiguity, the pixel whose cell the point falls in wins.
func (c *Composite) PixelAt(x, y float64) (col, row int, ok bool) {
	col = int(math.Floor((x - c.geo[0]) / c.geo[1]))
	row = int(math.Floor((y - c.geo[3]) / c.geo[5]))
	if col < 0 || col >= c.width || row < 0 || row >= c.height {
		return 0, 0, false
	}
	return col, row, true
}

// ReadSpectralPixel reads the spectral band values at one pixel, mapping the
// file's declared nodata to NaN.
func (c *Composite) ReadSpectralPixel(col, row int) ([]float64, error) {
	values := make([]float64, len(SpectralBands))
	buf := make([]float64, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range SpectralBands {
		band := c.bands[i]
		if err := band.Read(col, row, buf, 1, 1); err != nil {
			return nil, fmt.Errorf("failed to read band %s at (%d,%d): %w", SpectralBands[i], col, row, err)
		}
		values[i] = buf[0]
		if nodata, ok := band.NoData(); ok && buf[0] == nodata {
			values[i] = math.NaN()
		}
	}
	return values, nil
}

// ReadSpectralRows reads a horizontal block of nRows scan lines for every
// spectral band. The outer slice is indexed like SpectralBands; each inner
// slice holds nRows*width values in row-major order with nodata as NaN.
// Prediction over the full raster walks the image in these blocks so the
// whole composite is never resident at once.
func (c *Composite) ReadSpectralRows(row0, nRows int) ([][]float64, error) {
	if row0+nRows > c.height {
		nRows = c.height - row0
	}
	blocks := make([][]float64, len(SpectralBands))

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range SpectralBands {
		band := c.bands[i]
		buf := make([]float64, c.width*nRows)
		if err := band.Read(0, row0, buf, c.width, nRows); err != nil {
			return nil, fmt.Errorf("failed to read band %s rows %d..%d: %w", SpectralBands[i], row0, row0+nRows, err)
		}
		if nodata, ok := band.NoData(); ok {
			for j, v := range buf {
				if v == nodata {
					buf[j] = math.NaN()
				}
			}
		}
		blocks[i] = buf
	}
	return blocks, nil
}

// ProjectLonLat converts a WGS84 longitude/latitude to the composite's
// projected coordinates.
func (c *Composite) ProjectLonLat(lon, lat float64) (x, y float64, err error) {
	xs := []float64{lon}
	ys := []float64{lat}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fromWGS84.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, fmt.Errorf("transform error: %w", err)
	}
	return xs[0], ys[0], nil
}

// ToLatLon converts projected coordinates back to WGS84 latitude/longitude,
// used to attach geographic coordinates to exported sample rows.
func (c *Composite) ToLatLon(x, y float64) (lat, lon float64, err error) {
	xs := []float64{x}
	ys := []float64{y}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.toWGS84.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, fmt.Errorf("transform error: %w", err)
	}
	return ys[0], xs[0], nil
}
