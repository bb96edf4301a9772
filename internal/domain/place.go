package domain

import (
	"fmt"
	"net/url"
)

// PlaceRecord is the resolved view of one real-world place.
type PlaceRecord struct {
	PlaceID          string      `json:"place_id"`
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address"`
	Rating           *float64    `json:"rating,omitempty"`
	Geometry         Geometry    `json:"geometry"`
	PhotoURLs        []string    `json:"photo_urls,omitempty"`
	Reviews          []RawReview `json:"reviews,omitempty"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

const mapsSearchURL = "https://www.google.com/maps/search/"

// MapsURL links to the place's coordinates on Google Maps.
func (p PlaceRecord) MapsURL() string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", fmt.Sprintf("%g,%g", p.Geometry.Location.Lat, p.Geometry.Location.Lng))
	return mapsSearchURL + "?" + q.Encode()
}

// AddressURL links to a Google Maps search for the formatted address.
func (p PlaceRecord) AddressURL() string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", p.FormattedAddress)
	return mapsSearchURL + "?" + q.Encode()
}
