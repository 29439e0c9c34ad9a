package neighbourhood

import (
	"github.com/EmpoweredVote/police-explorer/internal/police"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// LatLng is a WGS84 position.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapFrame is what a map view needs to frame a neighbourhood: the mean of
// the boundary vertices and their bounding box.
type MapFrame struct {
	Center    LatLng `json:"center"`
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// boundaryPoints converts a boundary to orb points (x = lng, y = lat),
// skipping vertices whose coordinates do not parse.
func boundaryPoints(boundary []police.BoundaryPoint) orb.MultiPoint {
	mp := make(orb.MultiPoint, 0, len(boundary))
	for _, p := range boundary {
		lat, err := p.Latitude.Float()
		if err != nil {
			continue
		}
		lng, err := p.Longitude.Float()
		if err != nil {
			continue
		}
		mp = append(mp, orb.Point{lng, lat})
	}
	return mp
}

// Frame computes the map frame for a boundary. It returns false when the
// boundary has no usable vertices.
func Frame(boundary []police.BoundaryPoint) (MapFrame, bool) {
	mp := boundaryPoints(boundary)
	if len(mp) == 0 {
		return MapFrame{}, false
	}
	center, _ := planar.CentroidArea(mp)
	bound := mp.Bound()
	return MapFrame{
		Center:    LatLng{Lat: center.Lat(), Lng: center.Lon()},
		SouthWest: LatLng{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		NorthEast: LatLng{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}, true
}
