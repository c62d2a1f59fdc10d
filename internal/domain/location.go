package domain

// Location is a resolved city (and optional county) with coordinates when the
// dataset provides them. Matched is false when the city is unknown; the
// inputs are then echoed back unchanged.
type Location struct {
	City    string
	County  string
	Coords  *Coordinates
	Matched bool
}

// Label renders "City, County" or just "City".
func (l Location) Label() string {
	if l.County == "" {
		return l.City
	}
	return l.City + ", " + l.County
}

// CityCounties is a catalog listing entry.
type CityCounties struct {
	Name     string
	Counties []string
}
