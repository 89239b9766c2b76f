package sepush

// areaResponse is the body of GET /business/2.0/area.
type areaResponse struct {
	Events []eventJSON `json:"events"`
	Info   struct {
		Name   string `json:"name"`
		Region string `json:"region"`
	} `json:"info"`
	Schedule struct {
		Days   []dayJSON `json:"days"`
		Source string    `json:"source"`
	} `json:"schedule"`
}

type eventJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Note  string `json:"note"`
}

type dayJSON struct {
	Date   string     `json:"date"`
	Name   string     `json:"name"`
	Stages [][]string `json:"stages"`
}

// statusResponse is the body of GET /business/2.0/status.
type statusResponse struct {
	Status map[string]struct {
		Name         string `json:"name"`
		Stage        string `json:"stage"`
		StageUpdated string `json:"stage_updated"`
	} `json:"status"`
}

// allowanceResponse is the body of GET /business/2.0/api_allowance.
type allowanceResponse struct {
	Allowance Allowance `json:"allowance"`
}

// Allowance is the daily API quota of the token.
type Allowance struct {
	Count int    `json:"count"`
	Limit int    `json:"limit"`
	Type  string `json:"type"`
}

// Remaining returns how many calls are left today.
func (a Allowance) Remaining() int {
	return max(a.Limit-a.Count, 0)
}
