package domain

import (
	"fmt"
	"time"
)

// Category is a content grouping as reported by the provider.
// The same shape is used for live, VOD and series categories.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID int    `json:"parent_id"`
}

// Movie represents a single VOD stream entry from the provider catalog.
type Movie struct {
	ID                 int     `json:"id"`
	Num                int     `json:"num"`
	Name               string  `json:"name"`
	Icon               string  `json:"icon"`
	Rating             float64 `json:"rating"`
	CategoryID         string  `json:"category_id"`
	ContainerExtension string  `json:"container_extension"`
	AddedAt            int64   `json:"added_at"` // Unix timestamp when added to the catalog
}

// Series represents a series catalog entry (not its episodes; see SeriesInfo).
type Series struct {
	ID             int     `json:"id"`
	Num            int     `json:"num"`
	Name           string  `json:"name"`
	Cover          string  `json:"cover"`
	Plot           string  `json:"plot"`
	Cast           string  `json:"cast"`
	Director       string  `json:"director"`
	Genre          string  `json:"genre"`
	ReleaseDate    string  `json:"release_date"`
	Rating         float64 `json:"rating"`
	EpisodeRunTime int     `json:"episode_run_time"` // Minutes
	CategoryID     string  `json:"category_id"`
	LastModified   int64   `json:"last_modified"`
}

// Channel represents a live TV stream entry.
type Channel struct {
	ID           int    `json:"id"`
	Num          int    `json:"num"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	EPGChannelID string `json:"epg_channel_id"`
	CategoryID   string `json:"category_id"`
	TVArchive    bool   `json:"tv_archive"`
}

// Episode is a single episode inside a SeriesInfo response.
type Episode struct {
	ID                 int           `json:"id"`
	Season             int           `json:"season"`
	EpisodeNum         int           `json:"episode_num"`
	Title              string        `json:"title"`
	Plot               string        `json:"plot"`
	Duration           time.Duration `json:"duration"`
	ContainerExtension string        `json:"container_extension"`
}

// SeriesInfo is the detail view of one series: episodes grouped by season number.
type SeriesInfo struct {
	Series   Series            `json:"series"`
	Episodes map[int][]Episode `json:"episodes"`
}

// MovieInfo is the detail view of one VOD entry.
type MovieInfo struct {
	Movie          Movie         `json:"movie"`
	Duration       time.Duration `json:"duration"`
	DirectURL      string        `json:"direct_url"`
	YoutubeTrailer string        `json:"youtube_trailer"`
}

// Account is the provider's view of the authenticated subscription,
// returned by the portal handshake.
type Account struct {
	Username       string    `json:"username"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expires_at"`
	MaxConnections int       `json:"max_connections"`
	ServerURL      string    `json:"server_url"`
	Timezone       string    `json:"timezone"`
}

// Active reports whether the subscription is usable.
func (a Account) Active() bool {
	return a.Status == "Active" || a.Status == ""
}

// EpisodeCode returns the formatted episode code (e.g., "S01E05").
func (e Episode) EpisodeCode() string {
	return fmt.Sprintf("S%02dE%02d", e.Season, e.EpisodeNum)
}
