package neighbourhood

import (
	"strings"

	"github.com/EmpoweredVote/police-explorer/internal/police"
)

// MaxPolygonPoints caps the vertices sent to the street-crime query.
const MaxPolygonPoints = 10

// SimplifyPolygon down-samples a boundary to at most MaxPolygonPoints
// vertices by keeping every stride-th point, stride = ceil(N/MaxPolygonPoints).
// The first point is always kept and input order is preserved.
func SimplifyPolygon(boundary []police.BoundaryPoint) []police.BoundaryPoint {
	return simplify(boundary, MaxPolygonPoints)
}

func simplify(boundary []police.BoundaryPoint, max int) []police.BoundaryPoint {
	n := len(boundary)
	if n == 0 || max <= 0 {
		return []police.BoundaryPoint{}
	}
	stride := (n + max - 1) / max

	out := make([]police.BoundaryPoint, 0, min(n, max))
	for i := 0; i < n && len(out) < max; i += stride {
		out = append(out, boundary[i])
	}
	return out
}

// EncodePolygon joins points as "lat,lng:lat,lng:...". The result is not
// escaped; the client percent-encodes it as one query parameter.
func EncodePolygon(points []police.BoundaryPoint) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(string(p.Latitude))
		b.WriteByte(',')
		b.WriteString(string(p.Longitude))
	}
	return b.String()
}
