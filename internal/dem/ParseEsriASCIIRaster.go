package dem

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

var mandatoryHeaders = []string{"NCOLS", "NROWS", "XLLCENTER", "XLLCORNER", "YLLCENTER", "YLLCORNER", "CELLSIZE"}

// ParseEsriASCIIRaster reads an ESRI ASCII grid. Data values may be spread
// over lines arbitrarily, only their count has to match NCOLS*NROWS.
func ParseEsriASCIIRaster(reader io.Reader) (EsriASCIIRaster, error) {

	raster := EsriASCIIRaster{NoDataValue: DefaultNoDataValue}
	remainingHeaders := slices.Clone(mandatoryHeaders)
	stillIsHeader := true
	var values []float64

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		keyword := strings.ToUpper(fields[0])

		if stillIsHeader && isHeaderKeyword(keyword) {
			remainingHeaders = removeHeader(remainingHeaders, keyword)

			// there can either be corner or center not both
			switch keyword {
			case "XLLCENTER", "YLLCENTER":
				remainingHeaders = removeHeader(remainingHeaders, "XLLCORNER", "YLLCORNER")
			case "XLLCORNER", "YLLCORNER":
				remainingHeaders = removeHeader(remainingHeaders, "XLLCENTER", "YLLCENTER")
			case "DX", "DY":
				remainingHeaders = removeHeader(remainingHeaders, "CELLSIZE")
			}

			if err := parseHeaderLine(fields, &raster); err != nil {
				return raster, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		if stillIsHeader {
			if len(remainingHeaders) > 0 {
				return raster, fmt.Errorf("DEM is missing headers: %s", strings.Join(remainingHeaders, ", "))
			}
			if (raster.Dx > 0) != (raster.Dy > 0) {
				return raster, fmt.Errorf("DEM must have both DX and DY")
			}
			stillIsHeader = false
			values = make([]float64, 0, raster.Nrows*raster.Ncols)
		}

		for _, field := range fields {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return raster, fmt.Errorf("line %d: %w", lineNo, err)
			}
			values = append(values, f)
		}

		if uint(len(values)) >= raster.Nrows*raster.Ncols {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return raster, err
	}

	if stillIsHeader {
		return raster, fmt.Errorf("DEM has no data")
	}
	if uint(len(values)) < raster.Nrows*raster.Ncols {
		return raster, fmt.Errorf("DEM has %d values, expected %d", len(values), raster.Nrows*raster.Ncols)
	}

	raster.Data = make([][]float64, raster.Nrows)
	for row := uint(0); row < raster.Nrows; row++ {
		raster.Data[row] = values[row*raster.Ncols : (row+1)*raster.Ncols : (row+1)*raster.Ncols]
	}

	return raster, nil
}

func isHeaderKeyword(keyword string) bool {
	return slices.Contains(mandatoryHeaders, keyword) || keyword == "NODATA_VALUE" || keyword == "DX" || keyword == "DY"
}

func removeHeader(headers []string, keywords ...string) []string {
	return slices.DeleteFunc(headers, func(h string) bool {
		return slices.Contains(keywords, h)
	})
}

func parseHeaderLine(fields []string, grid *EsriASCIIRaster) error {
	if len(fields) != 2 {
		return fmt.Errorf("header line must have exactly two fields")
	}

	keyword := strings.ToUpper(fields[0])

	switch keyword {
	case "NCOLS", "NROWS":
		i, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return err
		}
		if i == 0 {
			return fmt.Errorf("%s must be greater than 0", keyword)
		}
		if keyword == "NCOLS" {
			grid.Ncols = uint(i)
		} else {
			grid.Nrows = uint(i)
		}
		return nil
	}

	f, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return err
	}

	switch keyword {
	case "XLLCENTER":
		grid.Xcenter = &f
	case "XLLCORNER":
		grid.Xcorner = &f
	case "YLLCENTER":
		grid.Ycenter = &f
	case "YLLCORNER":
		grid.Ycorner = &f
	case "CELLSIZE", "DX", "DY":
		if f <= 0.0 {
			return fmt.Errorf("%s must be greater than 0", keyword)
		}
		switch keyword {
		case "CELLSIZE":
			grid.CellSize = f
		case "DX":
			grid.Dx = f
		case "DY":
			grid.Dy = f
		}
	case "NODATA_VALUE":
		grid.NoDataValue = f
	default:
		return fmt.Errorf("unknown header keyword: %s", fields[0])
	}

	return nil
}
