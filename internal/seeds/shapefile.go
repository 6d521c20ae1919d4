package seeds

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"

	"github.com/zonewise/api/internal/models"
)

// districtCodeField is the attribute carrying the district code in the
// Department of City Planning's zoning districts extract (nyzd).
const districtCodeField = "ZONEDIST"

// LoadBoundaries reads district polygons from a DCP zoning shapefile and
// returns them keyed by district code. A district split across multiple
// records is merged into one multipolygon; records without a code or
// without polygon geometry are skipped.
func LoadBoundaries(path string) (map[string]models.MultiPolygon, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile %s: %w", path, err)
	}
	defer reader.Close()

	codeIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, districtCodeField) {
			codeIdx = i
			break
		}
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("shapefile %s has no %s attribute", path, districtCodeField)
	}

	merged := make(map[string]*geom.MultiPolygon)
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		code := strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00"))
		if code == "" {
			continue
		}

		mp, ok := merged[code]
		if !ok {
			mp = geom.NewMultiPolygon(geom.XY).SetSRID(models.SRIDWGS84)
			merged[code] = mp
		}
		appendPolygonParts(mp, poly)
	}

	out := make(map[string]models.MultiPolygon, len(merged))
	for code, mp := range merged {
		if mp.NumPolygons() == 0 {
			continue
		}
		out[code] = models.NewMultiPolygon(mp)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("shapefile %s contained no usable polygon records", path)
	}
	return out, nil
}

// appendPolygonParts converts each ring of a shapefile polygon record into a
// single-ring polygon and pushes it onto the accumulator. Shapefile rings
// arrive closed, so they map directly onto linear rings.
func appendPolygonParts(mp *geom.MultiPolygon, p *shp.Polygon) {
	total := int32(len(p.Points))
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := total
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end <= start {
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
		if err := mp.Push(poly); err != nil {
			continue
		}
	}
}
