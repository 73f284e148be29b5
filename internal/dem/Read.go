package dem

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gruppe-adler/rrim-utils/internal/grid"
)

// Read digital elevation model from given path. Files ending in .gz are
// decompressed on the fly.
func Read(path string) (EsriASCIIRaster, error) {
	file, err := os.Open(path)
	if err != nil {
		return EsriASCIIRaster{}, err
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return EsriASCIIRaster{}, fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	raster, err := ParseEsriASCIIRaster(reader)
	if err != nil {
		return raster, fmt.Errorf("%s: %w", path, err)
	}

	return raster, nil
}

// ReadElevation reads a DEM and converts it into an elevation grid
func ReadElevation(path string) (EsriASCIIRaster, *grid.Elevation, error) {
	raster, err := Read(path)
	if err != nil {
		return raster, nil, err
	}

	g, err := raster.Elevation()
	if err != nil {
		return raster, nil, fmt.Errorf("%s: %w", path, err)
	}

	return raster, g, nil
}
