package mapping

import (
	"fmt"
	"image"
	"os"

	"github.com/golang/geo/s2"
	_ "golang.org/x/image/tiff"
	"image/color"
)

const (
	earthRadiusMeters      = 6371000.0
	defaultPixelDegrees    = 1.0 / 3600.0 // one arc-second, typical for shoreline GeoTIFFs
	defaultBlockedGrayLow  = 0
	defaultBlockedGrayHigh = 40 // dark pixels (e.g. land mask) below this count as blocked
)

// GeoTiffMap is a georeferenced raster map: pixel (0, 0) of the decoded
// image sits at (originLat, originLon), and planar (x, y) meters are
// converted to pixels using a geodesic meters-per-degree scale computed
// with s2 rather than a hardcoded constant, since that scale varies with
// latitude.
type GeoTiffMap struct {
	img              image.Image
	originLat        float64
	originLon        float64
	metersPerPixelX  float64
	metersPerPixelY  float64
	blockedThreshold uint8
}

// LoadGeoTiffMap decodes the GeoTIFF at path and anchors it at
// (latitude, longitude). Chosen by the executive's refreshMap whenever
// the path does not end in ".map".
func LoadGeoTiffMap(path string, latitude, longitude float64) (*GeoTiffMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening GeoTIFF %q: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding GeoTIFF %q: %w", path, err)
	}
	lonMeters := metersPerDegreeLon(latitude) * defaultPixelDegrees
	latMeters := metersPerDegreeLat() * defaultPixelDegrees
	return &GeoTiffMap{
		img:              img,
		originLat:        latitude,
		originLon:        longitude,
		metersPerPixelX:  lonMeters,
		metersPerPixelY:  latMeters,
		blockedThreshold: defaultBlockedGrayHigh,
	}, nil
}

func metersPerDegreeLon(lat float64) float64 {
	a := s2.LatLngFromDegrees(lat, 0)
	b := s2.LatLngFromDegrees(lat, 1)
	return float64(a.Distance(b)) * earthRadiusMeters
}

func metersPerDegreeLat() float64 {
	a := s2.LatLngFromDegrees(0, 0)
	b := s2.LatLngFromDegrees(1, 0)
	return float64(a.Distance(b)) * earthRadiusMeters
}

// toPixel converts planar (x, y) meters, relative to the map's origin, to
// image pixel coordinates.
func (m *GeoTiffMap) toPixel(x, y float64) (int, int) {
	px := int(x / m.metersPerPixelX)
	py := int(y / m.metersPerPixelY)
	return px, py
}

// IsBlocked treats any pixel darker than blockedThreshold, or any point
// outside the image, as blocked.
func (m *GeoTiffMap) IsBlocked(x, y float64) bool {
	px, py := m.toPixel(x, y)
	bounds := m.img.Bounds()
	if px < bounds.Min.X || px >= bounds.Max.X || py < bounds.Min.Y || py >= bounds.Max.Y {
		return true
	}
	return isBlockedColor(m.img.At(px, py), m.blockedThreshold)
}

func isBlockedColor(c color.Color, threshold uint8) bool {
	gray := color.GrayModel.Convert(c).(color.Gray)
	return gray.Y < threshold
}

// DistanceToBlocked marches outward ring by ring (up to maxSearchPixels)
// looking for the nearest blocked pixel, returning the distance in
// meters (averaging the two axis scales). Returns maxDistance if none is
// found within the search radius.
func (m *GeoTiffMap) DistanceToBlocked(x, y float64) float64 {
	const maxSearchPixels = 200
	px, py := m.toPixel(x, y)
	bounds := m.img.Bounds()
	scale := (m.metersPerPixelX + m.metersPerPixelY) / 2
	for r := 0; r <= maxSearchPixels; r++ {
		for dx := -r; dx <= r; dx++ {
			for _, dy := range []int{-r, r} {
				qx, qy := px+dx, py+dy
				if qx < bounds.Min.X || qx >= bounds.Max.X || qy < bounds.Min.Y || qy >= bounds.Max.Y {
					continue
				}
				if isBlockedColor(m.img.At(qx, qy), m.blockedThreshold) {
					return float64(r) * scale
				}
			}
		}
		for dy := -r + 1; dy < r; dy++ {
			for _, dx := range []int{-r, r} {
				qx, qy := px+dx, py+dy
				if qx < bounds.Min.X || qx >= bounds.Max.X || qy < bounds.Min.Y || qy >= bounds.Max.Y {
					continue
				}
				if isBlockedColor(m.img.At(qx, qy), m.blockedThreshold) {
					return float64(r) * scale
				}
			}
		}
	}
	return maxDistance
}
