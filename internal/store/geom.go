package store

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// pointEWKB encodes a supplier coordinate as a little-endian EWKB point in
// WGS 84. A (0, 0) coordinate means "unknown" and encodes as nil.
func pointEWKB(lat, lng float64) ([]byte, error) {
	if lat == 0 && lng == 0 {
		return nil, nil
	}
	p := geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326)
	data, err := ewkb.Marshal(p, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal supplier point")
	}
	return data, nil
}
