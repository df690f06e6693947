package model

// GeoPoint is a GeoJSON point, coordinates ordered [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Longitude returns the first coordinate, or 0 for a malformed point.
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) > 0 {
		return p.Coordinates[0]
	}
	return 0
}

// Latitude returns the second coordinate, or 0 for a malformed point.
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) > 1 {
		return p.Coordinates[1]
	}
	return 0
}

// School is a directory entry for an LAUSD non-traditional school. The
// directory is read-only from the API's point of view; records are
// maintained out of band.
type School struct {
	ID                     string   `json:"id" bson:"_id"`
	Name                   string   `json:"name" bson:"name"`
	Type                   string   `json:"type" bson:"type"`
	Address                string   `json:"address" bson:"address"`
	Phone                  string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Email                  string   `json:"email,omitempty" bson:"email,omitempty"`
	Programs               []string `json:"programs,omitempty" bson:"programs,omitempty"`
	Rules                  []string `json:"rules,omitempty" bson:"rules,omitempty"`
	EnrollmentRequirements []string `json:"enrollment_requirements,omitempty" bson:"enrollment_requirements,omitempty"`
	Location               GeoPoint `json:"location" bson:"location"`
	LanguageSupport        []string `json:"language_support,omitempty" bson:"language_support,omitempty"`
}

// ListSchoolsResponse is the response for school directory queries.
type ListSchoolsResponse struct {
	Schools []School `json:"schools"`
	Total   int      `json:"total"`
}
