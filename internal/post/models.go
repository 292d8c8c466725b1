package post

import "time"

type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	EventDate   *time.Time `json:"eventDate,omitempty"`
	// Location is [_, _, lat, lng]; only the last two entries carry meaning.
	Location   []float64 `json:"location"`
	Tags       []string  `json:"tags"`
	ImgURL     string    `json:"imgUrl"`
	Username   string    `json:"username"`
	Likes      []Like    `json:"likes"`
	LikesCount int       `json:"likesCount"`
}

type Like struct {
	User      string    `json:"user"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    []float64  `json:"location"`
	Tags        []string   `json:"tags"`
	Image       string     `json:"image"`
	EventDate   *time.Time `json:"eventDate"`
}

// FilterRequest carries optional center coordinates; a nil coordinate means
// the caller did not send one.
type FilterRequest struct {
	XCoord *float64 `json:"xCoord"`
	YCoord *float64 `json:"yCoord"`
	Tags   []string `json:"tags"`
}
