package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtside/fastbreak/internal/adapters/http/api"
	"github.com/courtside/fastbreak/internal/adapters/storage/memory"
	"github.com/courtside/fastbreak/internal/app"
	"github.com/courtside/fastbreak/internal/domain/model"
	"github.com/courtside/fastbreak/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type stubProvider struct {
	snapshot map[int][]model.PoolPlayer
}

func (s *stubProvider) Snapshot(context.Context) (map[int][]model.PoolPlayer, error) {
	return s.snapshot, nil
}

func fixturePool() map[int][]model.PoolPlayer {
	out := map[int][]model.PoolPlayer{}
	id := 0
	for tier := 1; tier <= 3; tier++ {
		for i := 0; i < 6; i++ {
			id++
			out[tier] = append(out[tier], model.PoolPlayer{
				ID:       id,
				Name:     fmt.Sprintf("Tier%d Player%d", tier, i),
				CostTier: tier,
				Stats: model.PlayerStats{
					Points: float64(12 + tier*4 + i), Rebounds: 6, Assists: 4,
					Steals: 1, Blocks: 0.6, FGPct: 0.48, FTPct: 0.79, ThreePct: 0.37,
					Minutes: 31, GamesPlayed: 68,
				},
			})
		}
	}
	return out
}

func newTestServer(t *testing.T) (*httptest.Server, *app.Service) {
	t.Helper()
	logger.Init()
	svc := app.New(
		app.WithStore(memory.New()),
		app.WithPoolProvider(&stubProvider{snapshot: fixturePool()}),
		app.WithSampleSize(4),
		app.WithSampleSeed(7),
		app.WithClock(func() time.Time { return time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC) }),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}

	mux := http.NewServeMux()
	api.NewServer(svc, svc, 50).Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(func() {
		ts.Close()
		svc.Stop()
	})
	return ts, svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealthAndStats(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("GET /healthz reports ok", t, func() {
		resp, err := http.Get(ts.URL + "/healthz")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		body := decode[map[string]string](t, resp)
		So(body["status"], ShouldEqual, "ok")
	})

	Convey("GET /stats returns service counters", t, func() {
		resp, err := http.Get(ts.URL + "/stats")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		body := decode[map[string]any](t, resp)
		So(body["today"], ShouldEqual, "2025-04-02")
	})

	Convey("POST /healthz is rejected", t, func() {
		resp := postJSON(t, ts.URL+"/healthz", map[string]string{})
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
	})
}

func TestPoolEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("GET /api/pool serves today's sampled pool", t, func() {
		resp, err := http.Get(ts.URL + "/api/pool")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		body := decode[struct {
			Date string                     `json:"date"`
			Pool map[int][]model.PoolPlayer `json:"pool"`
		}](t, resp)
		So(body.Date, ShouldEqual, "2025-04-02")
		So(len(body.Pool), ShouldEqual, 3)
		for tier := 1; tier <= 3; tier++ {
			So(len(body.Pool[tier]), ShouldEqual, 4)
		}
	})

	Convey("A malformed date is rejected", t, func() {
		resp, err := http.Get(ts.URL + "/api/pool?date=04-02-2025")
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
	})
}

func TestProjectEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("POST /api/project returns a projected record", t, func() {
		resp := postJSON(t, ts.URL+"/api/project", map[string]any{
			"players": []string{
				"Tier1 Player0", "Tier1 Player1", "Tier1 Player2", "Tier1 Player3", "Tier1 Player4",
			},
		})
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		body := decode[struct {
			Record model.ProjectedRecord `json:"record"`
		}](t, resp)
		So(body.Record.Wins+body.Record.Losses, ShouldEqual, 82)
	})

	Convey("Unknown names yield 422", t, func() {
		resp := postJSON(t, ts.URL+"/api/project", map[string]any{
			"players": []string{"zz1", "zz2", "zz3", "zz4", "zz5"},
		})
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
	})

	Convey("A wrong roster size yields 400", t, func() {
		resp := postJSON(t, ts.URL+"/api/project", map[string]any{
			"players": []string{"Tier1 Player0"},
		})
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
	})

	Convey("A garbage body yields 400", t, func() {
		resp, err := http.Post(ts.URL+"/api/project", "application/json", bytes.NewReader([]byte("{")))
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
	})
}

func TestSubmissionFlow(t *testing.T) {
	ts, svc := newTestServer(t)
	ctx := context.Background()

	pool, err := svc.PlayerPool(ctx, "")
	if err != nil {
		t.Fatalf("player pool: %v", err)
	}
	names := []string{
		pool[1][0].Name, pool[1][1].Name, pool[1][2].Name, pool[1][3].Name, pool[2][0].Name,
	}

	Convey("POST /api/submissions records a team", t, func() {
		resp := postJSON(t, ts.URL+"/api/submissions", map[string]any{
			"player_name": "alice",
			"players":     names,
		})
		So(resp.StatusCode, ShouldEqual, http.StatusCreated)
		sub := decode[model.Submission](t, resp)
		So(sub.PlayerName, ShouldEqual, "alice")
		So(sub.Percentile, ShouldEqual, 100)
	})

	Convey("A second submission by the same gamer yields 409", t, func() {
		resp := postJSON(t, ts.URL+"/api/submissions", map[string]any{
			"player_name": "alice",
			"players":     names,
		})
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusConflict)
	})

	Convey("GET /api/submissions/{player} finds the team back", t, func() {
		resp, err := http.Get(ts.URL + "/api/submissions/alice")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		sub := decode[model.Submission](t, resp)
		So(sub.PlayerName, ShouldEqual, "alice")
		So(len(sub.Team.Members), ShouldEqual, 5)
	})

	Convey("GET /api/leaderboard ranks it first", t, func() {
		resp, err := http.Get(ts.URL + "/api/leaderboard")
		So(err, ShouldBeNil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)
		body := decode[struct {
			Date    string                   `json:"date"`
			Entries []model.RankedSubmission `json:"entries"`
		}](t, resp)
		So(body.Date, ShouldEqual, "2025-04-02")
		So(len(body.Entries), ShouldEqual, 1)
		So(body.Entries[0].Rank, ShouldEqual, 1)
		So(body.Entries[0].PlayerName, ShouldEqual, "alice")
	})

	Convey("Looking up a gamer without a submission yields 404", t, func() {
		resp, err := http.Get(ts.URL + "/api/submissions/nobody")
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
	})

	Convey("A non-numeric leaderboard limit yields 400", t, func() {
		resp, err := http.Get(ts.URL + "/api/leaderboard?limit=abc")
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
	})
}
