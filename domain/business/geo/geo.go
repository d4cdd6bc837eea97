package geo

import "github.com/umahmood/haversine"

// Distance returns the great-circle distance in kilometers between two points
// given in decimal degrees, using the haversine formula. A zero value in any
// of the four coordinates means the position is unknown, so the distance
// degenerates to 0 instead of being an error
func Distance(latOrigin float64, longOrigin float64, latDestination float64, longDestination float64) float64 {
	if latOrigin == 0 || longOrigin == 0 || latDestination == 0 || longDestination == 0 {
		return 0
	}

	origin := haversine.Coord{Lat: latOrigin, Lon: longOrigin}
	destination := haversine.Coord{Lat: latDestination, Lon: longDestination}

	_, km := haversine.Distance(origin, destination)
	return km
}
