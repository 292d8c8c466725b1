package profile

type Profile struct {
	UserID            string `json:"userId"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Age               string `json:"age"`
	Bio               string `json:"bio"`
	Country           string `json:"country"`
	TravelPreferences string `json:"travelPreferences"`
	Interests         string `json:"interests"`
}

// Update holds the fields a user may change; nil fields are left alone.
type Update struct {
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	Age               *string `json:"age"`
	Bio               *string `json:"bio"`
	Country           *string `json:"country"`
	TravelPreferences *string `json:"travelPreferences"`
	Interests         *string `json:"interests"`
}
