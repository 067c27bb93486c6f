package models

// UnknownPerformer is the group name for ads without a performer
const UnknownPerformer = "Unknown"

// Ad represents an advertisement owned by a performer
type Ad struct {
	ID            string    `json:"_id"`
	AdName        string    `json:"adName,omitempty"`
	Name          string    `json:"name,omitempty"`
	PerformerName string    `json:"performerName,omitempty"`
	AdDetails     AdDetails `json:"adDetails"`
}

// AdDetails holds the creative and targeting details of an ad
type AdDetails struct {
	VideoURL  string  `json:"videoUrl"`
	TargetURL string  `json:"targetUrl"`
	Budget    float64 `json:"budget"`
}

// DisplayName returns the ad name, falling back to the legacy name field
func (a Ad) DisplayName() string {
	if a.AdName != "" {
		return a.AdName
	}
	return a.Name
}

// Performer returns the performer name or UnknownPerformer when absent
func (a Ad) Performer() string {
	if a.PerformerName == "" {
		return UnknownPerformer
	}
	return a.PerformerName
}

// PerformerGroup is a performer and their ads in fetch order
type PerformerGroup struct {
	Name string `json:"name"`
	Ads  []Ad   `json:"ads"`
}

// State is the dashboard view state
type State struct {
	Ads              []Ad   `json:"ads"`
	Loading          bool   `json:"loading"`
	Error            string `json:"error,omitempty"`
	ReturningVisitor bool   `json:"returningVisitor"`
}

// AdCard is one rendered ad
type AdCard struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	VideoURL  string `json:"videoUrl"`
	TargetURL string `json:"targetUrl"`
	Budget    string `json:"budget"`
}

// CardGroup is a rendered performer section of the admin view
type CardGroup struct {
	Heading string   `json:"heading"`
	Cards   []AdCard `json:"cards"`
}

// DashboardView is the render tree for the dashboard page
type DashboardView struct {
	Loading          bool        `json:"loading"`
	ReturningVisitor bool        `json:"returningVisitor"`
	Title            string      `json:"title"`
	Admin            bool        `json:"admin"`
	Error            string      `json:"error,omitempty"`
	ListHeading      string      `json:"listHeading"`
	Groups           []CardGroup `json:"groups,omitempty"`
	Cards            []AdCard    `json:"cards,omitempty"`
	EmptyMessage     string      `json:"emptyMessage,omitempty"`
}

// ConfirmDelete represents the delete confirmation page data
type ConfirmDelete struct {
	AdID    string
	Message string
}
