package models

// TeamSize holds the inclusive participant bounds for an event.
// The lead registrant counts toward both bounds.
type TeamSize struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Event is one entry of the static fest catalog. The catalog is read-only
// reference data and is never mutated at runtime.
type Event struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	TeamSize TeamSize `json:"teamSize"`
}

// Events is the fest catalog.
var Events = []Event{
	{ID: "Seminar", Name: "AI and Cyber Security (Seminar)", TeamSize: TeamSize{Min: 1, Max: 1}},
	{ID: "debug-code", Name: "Debug the Code", TeamSize: TeamSize{Min: 1, Max: 1}},
	{ID: "ai-artistry", Name: "AI Artistry", TeamSize: TeamSize{Min: 2, Max: 2}},
	{ID: "gaming", Name: "E-Lafda (Tekken)", TeamSize: TeamSize{Min: 1, Max: 4}},
	{ID: "data-diviation", Name: "Data Diviation", TeamSize: TeamSize{Min: 1, Max: 1}},
	{ID: "poster-making", Name: "Digital Poster Making", TeamSize: TeamSize{Min: 1, Max: 1}},
	{ID: "reel-comp", Name: "Tech Reel War", TeamSize: TeamSize{Min: 1, Max: 1}},
}

// FindEvent looks an event up by its catalog id.
func FindEvent(id string) (Event, bool) {
	for _, e := range Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}
