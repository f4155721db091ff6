package domain

// Draft carries the pending "new task" form fields before they are committed
// by the store.
type Draft struct {
	Description string       `json:"description"`
	Category    string       `json:"category"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Status      TaskStatus   `json:"status"`
	Location    TaskLocation `json:"location"`
}

// NewDraft returns a draft with every field at its documented default.
func NewDraft() Draft {
	return Draft{Status: StatusNotStarted, Location: LocationHome}
}
