package dto

// ── 活动信息 DTO ──

// Countdown 距活动开始的剩余时间，已开始时各项为 0
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// EventResponse 活动信息响应
type EventResponse struct {
	Name        string    `json:"name"`
	Hosts       string    `json:"hosts,omitempty"`
	StartsAt    string    `json:"starts_at"`
	Location    string    `json:"location,omitempty"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Gallery     []string  `json:"gallery"`
	Countdown   Countdown `json:"countdown"`
	Started     bool      `json:"started"`
}
