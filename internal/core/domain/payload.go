package domain

// StatusPayload is the JSON shape returned by the presence proxy endpoint.
// Success responses carry player (and optionally currentGame/recentGames);
// soft failures carry the error or loading sentinel instead.
type StatusPayload struct {
	Error   bool   `json:"error,omitempty"`
	Loading bool   `json:"loading,omitempty"`
	Message string `json:"message,omitempty"`

	Player      *PlayerPayload      `json:"player,omitempty"`
	CurrentGame *CurrentGamePayload `json:"currentGame,omitempty"`
	RecentGames []RecentGamePayload `json:"recentGames,omitempty"`
}

// PlayerPayload mirrors the upstream player summary fields the proxy forwards.
type PlayerPayload struct {
	PersonaState int    `json:"personastate"`
	PersonaName  string `json:"personaname,omitempty"`
}

// CurrentGamePayload is present only while the player is in a game.
type CurrentGamePayload struct {
	Name string `json:"gameextrainfo"`
}

// RecentGamePayload is one recently played game. Playtimes are minutes.
type RecentGamePayload struct {
	Name            string `json:"name"`
	Playtime2Weeks  int    `json:"playtime_2weeks"`
	PlaytimeForever int    `json:"playtime_forever"`
}
