package models

// LocationInput is a geographic coordinate supplied by the client.
type LocationInput struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// SettingsInput carries discovery settings on a profile write. All fields are
// optional; omitted fields keep their stored values.
type SettingsInput struct {
	DistanceRadius   *string `json:"distance_radius,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	GenderPreference *string `json:"gender_preference,omitempty"`
	ShowMe           *bool   `json:"show_me,omitempty"`
}

// ProfileInput is the body of PUT /v1/me/profile.
type ProfileInput struct {
	FirstName         string         `json:"firstName"`
	LastName          string         `json:"lastName,omitempty"`
	Email             string         `json:"email,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	ProfilePictureURL string         `json:"profilePictureURL,omitempty"`
	Location          *LocationInput `json:"location,omitempty"`
	Settings          *SettingsInput `json:"settings,omitempty"`
}
