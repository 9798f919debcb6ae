package classify

import (
	"log/slog"
	"time"

	"github.com/marcusziade/compiledthoughts/internal/core/domain"
)

// maxRecentItems bounds how many recently played entries a snapshot carries.
const maxRecentItems = 3

// Classifier inspects a parsed status payload and maps it to a poll outcome.
// It never rejects unrecognized field values: unknown persona codes resolve
// to StateUnknown so an upstream enum extension cannot break polling.
type Classifier struct {
	log *slog.Logger
}

// New creates a classifier. A nil logger falls back to slog.Default.
func New(log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{log: log}
}

// Classify maps a payload to exactly one outcome.
//
// Sentinel shapes (error/loading) are soft failures: the proxy answered but
// upstream was not ready. A payload with no player block is also soft —
// upstream data can be briefly inconsistent, so it is logged loudly but kept
// retryable rather than fatal.
func (c *Classifier) Classify(payload *domain.StatusPayload) domain.Outcome {
	if payload.Error || payload.Loading {
		reason := payload.Message
		if reason == "" {
			if payload.Loading {
				reason = "upstream loading"
			} else {
				reason = "upstream error"
			}
		}
		return domain.SoftFailure(reason)
	}

	if payload.Player == nil {
		c.log.Error("status payload missing player data")
		return domain.SoftFailure("no player data")
	}

	presence := &domain.Presence{
		OnlineState: domain.OnlineStateFromPersona(payload.Player.PersonaState),
		DisplayName: payload.Player.PersonaName,
		RecentItems: recentItems(payload.RecentGames),
		FetchedAt:   time.Now().UTC(),
	}

	if payload.CurrentGame != nil {
		presence.CurrentActivity = &domain.Activity{Name: payload.CurrentGame.Name}
	}

	return domain.Success(presence)
}

// recentItems reverses the upstream list and keeps the first three entries,
// so the newest game upstream appends last comes out first. Empty or absent
// input yields an empty slice, never an error.
func recentItems(games []domain.RecentGamePayload) []domain.RecentItem {
	items := make([]domain.RecentItem, 0, maxRecentItems)
	for i := len(games) - 1; i >= 0 && len(items) < maxRecentItems; i-- {
		g := games[i]
		items = append(items, domain.RecentItem{
			Name:               g.Name,
			RecentDurationMins: g.Playtime2Weeks,
			TotalDurationMins:  g.PlaytimeForever,
		})
	}
	return items
}
