package model

import "time"

// ImpactSnapshot is the public impact counter shown on landing pages
type ImpactSnapshot struct {
	LivesSaved        int       `json:"livesSaved"`
	PeopleHelped      int       `json:"peopleHelped"`
	ActiveVolunteers  int       `json:"activeVolunteers"`
	CommunitiesServed int       `json:"communitiesServed"`
	LastUpdated       time.Time `json:"lastUpdated"`
}
