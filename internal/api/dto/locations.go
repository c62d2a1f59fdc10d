package dto

type CityResponse struct {
	Name     string   `json:"name"`
	Counties []string `json:"counties"`
}

type ListLocationsResponse struct {
	Cities []CityResponse `json:"cities"`
}
