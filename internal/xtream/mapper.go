package xtream

import (
	"sort"
	"strconv"
	"time"

	"github.com/pgray/antenna/internal/domain"
)

func mapAccount(resp authResponse, baseURL string) *domain.Account {
	acct := &domain.Account{
		Username:       resp.UserInfo.Username,
		Status:         resp.UserInfo.Status,
		MaxConnections: int(resp.UserInfo.MaxConnections),
		ServerURL:      baseURL,
		Timezone:       resp.ServerInfo.Timezone,
	}
	if resp.UserInfo.ExpDate > 0 {
		acct.ExpiresAt = time.Unix(int64(resp.UserInfo.ExpDate), 0)
	}
	return acct
}

func mapCategories(cats []category) []domain.Category {
	out := make([]domain.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, domain.Category{
			ID:       c.CategoryID,
			Name:     c.CategoryName,
			ParentID: int(c.ParentID),
		})
	}
	return out
}

func mapMovies(streams []vodStream) []domain.Movie {
	out := make([]domain.Movie, 0, len(streams))
	for _, s := range streams {
		out = append(out, domain.Movie{
			ID:                 int(s.StreamID),
			Num:                int(s.Num),
			Name:               s.Name,
			Icon:               s.StreamIcon,
			Rating:             float64(s.Rating),
			CategoryID:         s.CategoryID,
			ContainerExtension: s.ContainerExtension,
			AddedAt:            int64(s.Added),
		})
	}
	return out
}

func mapSeries(entries []seriesEntry) []domain.Series {
	out := make([]domain.Series, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapSeriesEntry(e))
	}
	return out
}

func mapSeriesEntry(e seriesEntry) domain.Series {
	return domain.Series{
		ID:             int(e.SeriesID),
		Num:            int(e.Num),
		Name:           e.Name,
		Cover:          e.Cover,
		Plot:           e.Plot,
		Cast:           e.Cast,
		Director:       e.Director,
		Genre:          e.Genre,
		ReleaseDate:    e.ReleaseDate,
		Rating:         float64(e.Rating),
		EpisodeRunTime: int(e.EpisodeRunTime),
		CategoryID:     e.CategoryID,
		LastModified:   int64(e.LastModified),
	}
}

func mapChannels(streams []liveStream) []domain.Channel {
	out := make([]domain.Channel, 0, len(streams))
	for _, s := range streams {
		out = append(out, domain.Channel{
			ID:           int(s.StreamID),
			Num:          int(s.Num),
			Name:         s.Name,
			Icon:         s.StreamIcon,
			EPGChannelID: s.EPGChannelID,
			CategoryID:   s.CategoryID,
			TVArchive:    s.TVArchive != 0,
		})
	}
	return out
}

func mapSeriesInfo(resp seriesInfoResponse) *domain.SeriesInfo {
	info := &domain.SeriesInfo{
		Series:   mapSeriesEntry(resp.Info),
		Episodes: make(map[int][]domain.Episode, len(resp.Episodes)),
	}
	for seasonKey, eps := range resp.Episodes {
		season, err := strconv.Atoi(seasonKey)
		if err != nil {
			continue
		}
		mapped := make([]domain.Episode, 0, len(eps))
		for _, ep := range eps {
			s := int(ep.Season)
			if s == 0 {
				s = season
			}
			mapped = append(mapped, domain.Episode{
				ID:                 int(ep.ID),
				Season:             s,
				EpisodeNum:         int(ep.EpisodeNum),
				Title:              ep.Title,
				Plot:               ep.Info.Plot,
				Duration:           time.Duration(ep.Info.DurationSecs) * time.Second,
				ContainerExtension: ep.ContainerExtension,
			})
		}
		sort.Slice(mapped, func(i, j int) bool { return mapped[i].EpisodeNum < mapped[j].EpisodeNum })
		info.Episodes[season] = mapped
	}
	return info
}

func mapMovieInfo(resp vodInfoResponse) *domain.MovieInfo {
	movies := mapMovies([]vodStream{resp.MovieData})
	info := &domain.MovieInfo{
		Duration:       time.Duration(resp.Info.DurationSecs) * time.Second,
		DirectURL:      resp.Info.DirectSource,
		YoutubeTrailer: resp.Info.YoutubeTrailer,
	}
	if len(movies) > 0 {
		info.Movie = movies[0]
	}
	return info
}
