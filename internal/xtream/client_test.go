package xtream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pgray/antenna/internal/domain"
	"github.com/pgray/antenna/internal/log"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, action string, r *http.Request)) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player_api.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("username") != "alice" || r.URL.Query().Get("password") != "s3cret" {
			t.Errorf("credentials missing from query: %s", r.URL.RawQuery)
		}
		handler(w, r.URL.Query().Get("action"), r)
	}))
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "alice", "s3cret", log.NullLogger())
}

func TestAuthenticate(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if action != "" {
			t.Errorf("expected no action for handshake, got %q", action)
		}
		w.Write([]byte(`{
			"user_info": {"username":"alice","auth":1,"status":"Active","exp_date":"1700000000","max_connections":"2"},
			"server_info": {"url":"portal.example.com","port":"8080","timezone":"Europe/London"}
		}`))
	})

	acct, err := c.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if acct.Username != "alice" || acct.Status != "Active" {
		t.Fatalf("unexpected account: %+v", acct)
	}
	if acct.MaxConnections != 2 {
		t.Fatalf("expected max connections 2, got %d", acct.MaxConnections)
	}
	if acct.ExpiresAt.Unix() != 1700000000 {
		t.Fatalf("unexpected expiry: %v", acct.ExpiresAt)
	}
}

// Panels report bad credentials with auth=0 and a 200 status
func TestAuthenticateRejected(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		w.Write([]byte(`{"user_info": {"auth":0,"message":"wrong password"}}`))
	})

	if _, err := c.Authenticate(context.Background()); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestVodCategories(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if action != "get_vod_categories" {
			t.Errorf("unexpected action %q", action)
		}
		w.Write([]byte(`[
			{"category_id":"5","category_name":"Action","parent_id":0},
			{"category_id":"6","category_name":"Drama","parent_id":"0"}
		]`))
	})

	cats, err := c.VodCategories(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(cats) != 2 || cats[0].ID != "5" || cats[1].Name != "Drama" {
		t.Fatalf("unexpected categories: %+v", cats)
	}
}

// Different panels encode the same field as a number, a quoted number, or an
// empty string; all must decode.
func TestVodStreamsFlexibleEncoding(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if action != "get_vod_streams" {
			t.Errorf("unexpected action %q", action)
		}
		if got := r.URL.Query().Get("category_id"); got != "5" {
			t.Errorf("expected category_id=5, got %q", got)
		}
		w.Write([]byte(`[
			{"num":1,"name":"Heat","stream_id":101,"rating":"7.9","category_id":"5","container_extension":"mkv","added":"1640000000"},
			{"num":"2","name":"Ronin","stream_id":"102","rating":7.2,"category_id":"5","added":1650000000},
			{"num":3,"name":"Sleepers","stream_id":103,"rating":"","category_id":"5"}
		]`))
	})

	movies, err := c.VodStreams(context.Background(), "5")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("expected 3 movies, got %d", len(movies))
	}
	if movies[0].ID != 101 || movies[0].Rating != 7.9 || movies[0].AddedAt != 1640000000 {
		t.Fatalf("unexpected movie: %+v", movies[0])
	}
	if movies[1].ID != 102 || movies[1].Num != 2 || movies[1].Rating != 7.2 {
		t.Fatalf("unexpected movie: %+v", movies[1])
	}
	if movies[2].Rating != 0 {
		t.Fatalf("expected empty rating to decode as 0, got %+v", movies[2])
	}
}

func TestVodStreamsUnfilteredOmitsCategoryParam(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if r.URL.Query().Has("category_id") {
			t.Errorf("expected no category_id param, got %q", r.URL.Query().Get("category_id"))
		}
		w.Write([]byte(`[]`))
	})

	if _, err := c.VodStreams(context.Background(), ""); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
}

func TestSeries(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if action != "get_series" {
			t.Errorf("unexpected action %q", action)
		}
		w.Write([]byte(`[
			{"num":1,"name":"Dark","series_id":"7","genre":"Sci-Fi","rating":"8.8","episode_run_time":"50","category_id":"9","last_modified":"1660000000"}
		]`))
	})

	series, err := c.Series(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	s := series[0]
	if s.ID != 7 || s.Name != "Dark" || s.EpisodeRunTime != 50 || s.Rating != 8.8 {
		t.Fatalf("unexpected series: %+v", s)
	}
}

func TestSeriesInfo(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if action != "get_series_info" {
			t.Errorf("unexpected action %q", action)
		}
		if got := r.URL.Query().Get("series_id"); got != "7" {
			t.Errorf("expected series_id=7, got %q", got)
		}
		w.Write([]byte(`{
			"info": {"name":"Dark","series_id":7},
			"episodes": {
				"1": [
					{"id":"702","episode_num":2,"title":"Lies","season":1,"container_extension":"mkv","info":{"duration_secs":"3100"}},
					{"id":"701","episode_num":1,"title":"Secrets","season":1,"info":{"duration_secs":3000}}
				]
			}
		}`))
	})

	info, err := c.SeriesInfo(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if info.Series.Name != "Dark" || info.Series.ID != 7 {
		t.Fatalf("unexpected series: %+v", info.Series)
	}
	eps := info.Episodes[1]
	if len(eps) != 2 {
		t.Fatalf("expected 2 episodes in season 1, got %d", len(eps))
	}
	// Episodes come back sorted by episode number
	if eps[0].ID != 701 || eps[1].ID != 702 {
		t.Fatalf("unexpected episode order: %+v", eps)
	}
	if eps[0].EpisodeCode() != "S01E01" {
		t.Fatalf("unexpected episode code: %s", eps[0].EpisodeCode())
	}
}

func TestLiveStreams(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		if action != "get_live_streams" {
			t.Errorf("unexpected action %q", action)
		}
		w.Write([]byte(`[
			{"num":1,"name":"News 24","stream_id":11,"epg_channel_id":"news24.uk","category_id":"1","tv_archive":"1"}
		]`))
	})

	channels, err := c.LiveStreams(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != 11 || !channels[0].TVArchive {
		t.Fatalf("unexpected channels: %+v", channels)
	}
}

func TestMalformedResponse(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	if _, err := c.VodCategories(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestUnauthorizedStatus(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	if _, err := c.VodCategories(context.Background()); !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	attempts := 0
	_, c := newTestServer(t, func(w http.ResponseWriter, action string, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})

	if _, err := c.VodCategories(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestOfflineProvider(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // Connection refused from here on
	c := NewClient(srv.URL, "alice", "s3cret", log.NullLogger())

	if _, err := c.VodCategories(context.Background()); !errors.Is(err, domain.ErrProviderOffline) {
		t.Fatalf("expected ErrProviderOffline, got %v", err)
	}
}

func TestStreamURLs(t *testing.T) {
	c := NewClient("http://portal.example.com:8080", "alice", "s3cret", log.NullLogger())

	if got := c.LiveStreamURL(11); got != "http://portal.example.com:8080/live/alice/s3cret/11.ts" {
		t.Fatalf("unexpected live URL: %s", got)
	}
	if got := c.MovieStreamURL(101, "mkv"); got != "http://portal.example.com:8080/movie/alice/s3cret/101.mkv" {
		t.Fatalf("unexpected movie URL: %s", got)
	}
	if got := c.MovieStreamURL(101, ""); got != "http://portal.example.com:8080/movie/alice/s3cret/101.mp4" {
		t.Fatalf("unexpected movie URL with default extension: %s", got)
	}
	if got := c.EpisodeStreamURL(701, "mkv"); got != "http://portal.example.com:8080/series/alice/s3cret/701.mkv" {
		t.Fatalf("unexpected episode URL: %s", got)
	}
}

func TestFlexIntEncodings(t *testing.T) {
	var payload struct {
		A FlexInt `json:"a"`
		B FlexInt `json:"b"`
		C FlexInt `json:"c"`
		D FlexInt `json:"d"`
		E FlexInt `json:"e"`
	}
	blob := `{"a":5,"b":"5","c":"","d":null,"e":"7.0"}`
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.A != 5 || payload.B != 5 || payload.C != 0 || payload.D != 0 || payload.E != 7 {
		t.Fatalf("unexpected values: %+v", payload)
	}
}
