package xtream

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Xtream portals are wildly inconsistent about JSON encoding: the same field
// may arrive as a number, a quoted number, or an empty string depending on the
// panel software and version. FlexInt/FlexFloat absorb all three.

// FlexInt is an int that unmarshals from a JSON number or string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		// Some panels send fractional strings for integer fields
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(int(v))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

// FlexFloat is a float64 that unmarshals from a JSON number or string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// authResponse is the portal handshake response (player_api.php with no action)
type authResponse struct {
	UserInfo   userInfo   `json:"user_info"`
	ServerInfo serverInfo `json:"server_info"`
}

type userInfo struct {
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	Message        string   `json:"message"`
	Auth           FlexInt  `json:"auth"`
	Status         string   `json:"status"`
	ExpDate        FlexInt  `json:"exp_date"`
	IsTrial        FlexInt  `json:"is_trial"`
	ActiveCons     FlexInt  `json:"active_cons"`
	MaxConnections FlexInt  `json:"max_connections"`
	AllowedFormats []string `json:"allowed_output_formats"`
}

type serverInfo struct {
	URL            string  `json:"url"`
	Port           FlexInt `json:"port"`
	HTTPSPort      FlexInt `json:"https_port"`
	ServerProtocol string  `json:"server_protocol"`
	Timezone       string  `json:"timezone"`
	TimestampNow   FlexInt `json:"timestamp_now"`
}

// category is one entry of get_live_categories / get_vod_categories / get_series_categories
type category struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	ParentID     FlexInt `json:"parent_id"`
}

// vodStream is one entry of get_vod_streams
type vodStream struct {
	Num                FlexInt   `json:"num"`
	Name               string    `json:"name"`
	StreamType         string    `json:"stream_type"`
	StreamID           FlexInt   `json:"stream_id"`
	StreamIcon         string    `json:"stream_icon"`
	Rating             FlexFloat `json:"rating"`
	CategoryID         string    `json:"category_id"`
	ContainerExtension string    `json:"container_extension"`
	Added              FlexInt   `json:"added"`
}

// liveStream is one entry of get_live_streams
type liveStream struct {
	Num          FlexInt `json:"num"`
	Name         string  `json:"name"`
	StreamType   string  `json:"stream_type"`
	StreamID     FlexInt `json:"stream_id"`
	StreamIcon   string  `json:"stream_icon"`
	EPGChannelID string  `json:"epg_channel_id"`
	CategoryID   string  `json:"category_id"`
	TVArchive    FlexInt `json:"tv_archive"`
}

// seriesEntry is one entry of get_series
type seriesEntry struct {
	Num            FlexInt   `json:"num"`
	Name           string    `json:"name"`
	SeriesID       FlexInt   `json:"series_id"`
	Cover          string    `json:"cover"`
	Plot           string    `json:"plot"`
	Cast           string    `json:"cast"`
	Director       string    `json:"director"`
	Genre          string    `json:"genre"`
	ReleaseDate    string    `json:"releaseDate"`
	LastModified   FlexInt   `json:"last_modified"`
	Rating         FlexFloat `json:"rating"`
	EpisodeRunTime FlexInt   `json:"episode_run_time"`
	CategoryID     string    `json:"category_id"`
}

// seriesInfoResponse is the get_series_info response. Episode lists are keyed
// by season number rendered as a string.
type seriesInfoResponse struct {
	Info     seriesEntry          `json:"info"`
	Episodes map[string][]episode `json:"episodes"`
}

type episode struct {
	ID                 FlexInt     `json:"id"`
	EpisodeNum         FlexInt     `json:"episode_num"`
	Title              string      `json:"title"`
	ContainerExtension string      `json:"container_extension"`
	Season             FlexInt     `json:"season"`
	Info               episodeInfo `json:"info"`
}

type episodeInfo struct {
	Plot         string  `json:"plot"`
	DurationSecs FlexInt `json:"duration_secs"`
}

// vodInfoResponse is the get_vod_info response
type vodInfoResponse struct {
	Info      vodInfo   `json:"info"`
	MovieData vodStream `json:"movie_data"`
}

type vodInfo struct {
	DurationSecs   FlexInt `json:"duration_secs"`
	DirectSource   string  `json:"direct_source"`
	YoutubeTrailer string  `json:"youtube_trailer"`
}
