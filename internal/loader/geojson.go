package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/tordrt/refmap/internal/schema"
)

var ErrInvalidFeature = errors.New("invalid feature")

// nameProperties are tried in order to find a human readable region name
var nameProperties = []string{"nom", "name"}

// LoadGeometries reads a GeoJSON feature collection of region outlines keyed by their "code" property
func LoadGeometries(path string) ([]schema.RegionGeometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	geometries, err := ParseGeometries(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return geometries, nil
}

// ParseGeometries decodes a GeoJSON feature collection of region outlines
func ParseGeometries(data []byte) ([]schema.RegionGeometry, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode feature collection: %w", err)
	}

	res := make([]schema.RegionGeometry, 0, len(fc.Features))
	for i, f := range fc.Features {
		rawCode, ok := f.Properties["code"]
		if !ok || rawCode == nil {
			return nil, fmt.Errorf("%w %d: no code property", ErrInvalidFeature, i)
		}
		code, err := cast.ToStringE(rawCode)
		if err != nil || code == "" {
			return nil, fmt.Errorf("%w %d: code %v is not a string", ErrInvalidFeature, i, rawCode)
		}

		switch f.Geometry.(type) {
		case *geom.Polygon, *geom.MultiPolygon:
		default:
			return nil, fmt.Errorf("%w %d: unsupported geometry %T for region %s", ErrInvalidFeature, i, f.Geometry, code)
		}

		var name string
		for _, p := range nameProperties {
			if v, ok := f.Properties[p]; ok {
				name = cast.ToString(v)
				break
			}
		}

		res = append(res, schema.RegionGeometry{
			Code:     code,
			Name:     name,
			Geometry: f.Geometry,
		})
	}
	return res, nil
}
