package pool_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/courtside/fastbreak/internal/adapters/pool"
	. "github.com/smartystreets/goconvey/convey"
)

const snapshotJSON = `{
	"$1": [
		{"id": 1, "name": "Tier1 Player0", "stats": {"points": 12.5, "rebounds": 4.0, "assists": 3.1, "minutes": 24, "games_played": 61}},
		{"id": 2, "name": "  ", "stats": {"points": 9.9}}
	],
	"$3": [
		{"id": 3, "name": "Tier3 Player0", "stats": {"points": 27.4, "rebounds": 7.2, "assists": 6.8, "minutes": 35, "games_played": 70}}
	]
}`

func TestParse(t *testing.T) {
	Convey("A valid snapshot parses into tiered players", t, func() {
		p, err := pool.Parse([]byte(snapshotJSON))
		So(err, ShouldBeNil)

		snap, err := p.Snapshot(context.Background())
		So(err, ShouldBeNil)
		So(len(snap), ShouldEqual, 2)
		So(len(snap[1]), ShouldEqual, 1)
		So(snap[1][0].Name, ShouldEqual, "Tier1 Player0")
		So(snap[1][0].CostTier, ShouldEqual, 1)
		So(snap[1][0].Stats.Points, ShouldAlmostEqual, 12.5)
		So(snap[3][0].CostTier, ShouldEqual, 3)

		Convey("And blank player names were dropped", func() {
			So(len(snap[1]), ShouldEqual, 1)
		})
	})

	Convey("Bare numeric tier labels also parse", t, func() {
		p, err := pool.Parse([]byte(`{"0": [{"id": 1, "name": "Bench Guy", "stats": {"points": 4}}]}`))
		So(err, ShouldBeNil)
		snap, _ := p.Snapshot(context.Background())
		So(len(snap[0]), ShouldEqual, 1)
	})

	Convey("Malformed inputs report the pool as unavailable", t, func() {
		cases := []string{
			`not json`,
			`{"tier-a": [{"id": 1, "name": "X", "stats": {}}]}`,
			`{"$-2": [{"id": 1, "name": "X", "stats": {}}]}`,
			`{"$1": []}`,
			`{}`,
		}
		for _, raw := range cases {
			_, err := pool.Parse([]byte(raw))
			So(errors.Is(err, pool.ErrUnavailable), ShouldBeTrue)
		}
	})
}

func TestNew(t *testing.T) {
	Convey("New reads the snapshot from disk", t, func() {
		path := filepath.Join(t.TempDir(), "pool.json")
		So(os.WriteFile(path, []byte(snapshotJSON), 0o644), ShouldBeNil)

		p, err := pool.New(path)
		So(err, ShouldBeNil)
		snap, err := p.Snapshot(context.Background())
		So(err, ShouldBeNil)
		So(len(snap), ShouldEqual, 2)
	})

	Convey("A missing file reports the pool as unavailable", t, func() {
		_, err := pool.New(filepath.Join(t.TempDir(), "absent.json"))
		So(errors.Is(err, pool.ErrUnavailable), ShouldBeTrue)
	})
}
