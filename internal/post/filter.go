package post

import (
	"slices"

	"github.com/SamB219/Backend-Solo-Traveler-Project/internal/shared/geo"

	log "github.com/sirupsen/logrus"
)

// Filter applies proximity and tag matching to posts.
//
// Proximity is evaluated for every post. Without both coordinates nothing is
// near. With tags, posts are matched once per requested tag they carry, so a
// post can appear several times in the result. The tag pass runs over the near
// set when xCoord was sent and over every post otherwise. Without tags the near
// set is returned as is.
func Filter(posts []Post, req FilterRequest) []Post {
	near := make([]Post, 0, len(posts))
	for _, p := range posts {
		if isNear(p, req.XCoord, req.YCoord) {
			near = append(near, p)
		}
	}

	if len(req.Tags) == 0 {
		return near
	}

	candidates := posts
	if req.XCoord != nil {
		candidates = near
	}

	matched := make([]Post, 0, len(candidates))
	for _, p := range candidates {
		for _, tag := range req.Tags {
			if slices.Contains(p.Tags, tag) {
				matched = append(matched, p)
			}
		}
	}
	return matched
}

func isNear(p Post, x, y *float64) bool {
	if x == nil || y == nil || len(p.Location) < 4 {
		return false
	}
	lat, lng := p.Location[2], p.Location[3]
	near := geo.Within(*y, *x, lat, lng, geo.NearRadius)

	log.WithFields(log.Fields{
		"post_id": p.ID,
		"center":  []float64{*x, *y},
		"point":   []float64{lat, lng},
		"near":    near,
	}).Debug("post proximity")

	return near
}
