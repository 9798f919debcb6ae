package domain

import "time"

// OnlineState is the user's presence status as reported by the upstream API.
type OnlineState string

const (
	StateOffline        OnlineState = "offline"
	StateOnline         OnlineState = "online"
	StateBusy           OnlineState = "busy"
	StateAway           OnlineState = "away"
	StateSnooze         OnlineState = "snooze"
	StateLookingToTrade OnlineState = "looking_to_trade"
	StateLookingToPlay  OnlineState = "looking_to_play"
	StateUnknown        OnlineState = "unknown"
)

// personaStates maps the upstream numeric persona-state codes to OnlineState.
// Codes outside the table resolve to StateUnknown so that new upstream values
// never break classification.
var personaStates = map[int]OnlineState{
	0: StateOffline,
	1: StateOnline,
	2: StateBusy,
	3: StateAway,
	4: StateSnooze,
	5: StateLookingToTrade,
	6: StateLookingToPlay,
}

// OnlineStateFromPersona resolves an upstream persona-state code.
func OnlineStateFromPersona(code int) OnlineState {
	if s, ok := personaStates[code]; ok {
		return s
	}
	return StateUnknown
}

// Activity describes what the user is currently engaged in.
type Activity struct {
	Name string `json:"name"`
}

// RecentItem is one entry of recently played activity. Durations are minutes.
type RecentItem struct {
	Name               string `json:"name"`
	RecentDurationMins int    `json:"recentDurationMins"`
	TotalDurationMins  int    `json:"totalDurationMins"`
}

// Presence is the full presence snapshot produced by a successful poll.
// RecentItems is rebuilt from scratch on every fetch; nothing accumulates
// across polls.
type Presence struct {
	OnlineState     OnlineState  `json:"onlineState"`
	DisplayName     string       `json:"displayName,omitempty"`
	CurrentActivity *Activity    `json:"currentActivity,omitempty"`
	RecentItems     []RecentItem `json:"recentItems"`
	FetchedAt       time.Time    `json:"fetchedAt"`
}
