package domain

import "time"

// ContentEvent is published after an item has been saved.
type ContentEvent struct {
	Action    string    `json:"action"` // "create" or "update"
	ItemID    int64     `json:"itemId"`
	Kind      ItemKind  `json:"kind"`
	PodcastID int64     `json:"podcastId"`
	SiteID    int64     `json:"siteId"`
	Timestamp time.Time `json:"timestamp"`
}
