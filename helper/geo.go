package helper

import "math"

const earthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// CalculateDistance returns the great-circle distance between two points in kilometres.
func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBoxAround returns the lat/lng box that encloses a circle of radiusKm.
func BoundingBoxAround(lat, lng, radiusKm float64) BoundingBox {
	dLat := radiusKm / 111.0
	cosLat := math.Cos(toRadians(lat))
	dLng := 180.0
	if cosLat > 1e-6 {
		dLng = math.Min(radiusKm/(111.0*cosLat), 180)
	}
	return BoundingBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}
