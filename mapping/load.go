package mapping

import "strings"

// Load dispatches to LoadGridWorldMap or LoadGeoTiffMap by file
// extension, mirroring Executive::refreshMap's ".map" sniff: anything
// ending in ".map" is a grid-world text map, everything else is assumed
// to be a GeoTIFF.
func Load(path string, latitude, longitude float64) (Map, error) {
	if strings.HasSuffix(path, ".map") {
		return LoadGridWorldMap(path)
	}
	return LoadGeoTiffMap(path, latitude, longitude)
}
