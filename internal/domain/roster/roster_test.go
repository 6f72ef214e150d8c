package roster_test

import (
	"errors"
	"testing"

	"github.com/courtside/fastbreak/internal/domain/model"
	"github.com/courtside/fastbreak/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func testPool() map[int][]model.PoolPlayer {
	stats := func(pts float64) model.PlayerStats {
		return model.PlayerStats{
			Points: pts, Rebounds: 5, Assists: 4, Steals: 1, Blocks: 0.5,
			FGPct: 0.47, FTPct: 0.8, ThreePct: 0.36, Minutes: 30, GamesPlayed: 70,
		}
	}
	return map[int][]model.PoolPlayer{
		3: {
			{ID: 1, Name: "Nikola Jokic", CostTier: 3, Stats: stats(26)},
			{ID: 2, Name: "Luka Doncic", CostTier: 3, Stats: stats(32)},
		},
		2: {
			{ID: 3, Name: "Devin Booker", CostTier: 2, Stats: stats(27)},
			{ID: 4, Name: "Anthony Edwards", CostTier: 2, Stats: stats(26)},
			{ID: 5, Name: "Jaylen Brown", CostTier: 2, Stats: stats(23)},
		},
		1: {
			{ID: 6, Name: "Josh Hart", CostTier: 1, Stats: stats(9)},
			{ID: 7, Name: "Alex Caruso", CostTier: 1, Stats: stats(10)},
			{ID: 8, Name: "Jalen Brunson", CostTier: 1, Stats: stats(28)},
		},
	}
}

func TestAssemble(t *testing.T) {
	Convey("Given an assembler with a budget of 10", t, func() {
		a := roster.New(roster.WithBudget(10))
		pool := testPool()

		Convey("When assembling five exact names within budget", func() {
			team, err := a.Assemble([]string{
				"Nikola Jokic", "Devin Booker", "Anthony Edwards", "Josh Hart", "Alex Caruso",
			}, pool)

			Convey("Then the team is complete and within budget", func() {
				So(err, ShouldBeNil)
				So(len(team.Members), ShouldEqual, 5)
				So(team.TotalCost, ShouldEqual, 9)
				So(team.TotalCost, ShouldBeLessThanOrEqualTo, 10)
			})

			Convey("And averages are the arithmetic means", func() {
				So(err, ShouldBeNil)
				So(team.Averages.Points, ShouldAlmostEqual, (26+27+26+9+10)/5.0, 1e-9)
				So(team.Averages.Rebounds, ShouldAlmostEqual, 5, 1e-9)
				So(team.Averages.FGPct, ShouldAlmostEqual, 0.47, 1e-9)
			})
		})

		Convey("Partial names resolve through the substring fallback", func() {
			team, err := a.Assemble([]string{
				"jokic", "booker", "edwards", "hart", "caruso",
			}, pool)
			So(err, ShouldBeNil)
			So(team.Members[0].Name, ShouldEqual, "Nikola Jokic")
		})

		Convey("An ambiguous partial name fails distinctly", func() {
			// "br" matches both Jaylen Brown and Jalen Brunson.
			_, err := a.Assemble([]string{
				"jokic", "booker", "edwards", "hart", "br",
			}, pool)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, roster.ErrAmbiguousName), ShouldBeTrue)
			var ambiguous *roster.AmbiguousNameError
			So(errors.As(err, &ambiguous), ShouldBeTrue)
			So(len(ambiguous.Candidates), ShouldEqual, 2)
		})

		Convey("Empty names never match anything", func() {
			_, err := a.Assemble([]string{"", " ", "jokic", "booker", "hart"}, pool)
			So(errors.Is(err, roster.ErrIncompleteTeam), ShouldBeTrue)
			var incomplete *roster.IncompleteTeamError
			So(errors.As(err, &incomplete), ShouldBeTrue)
			So(incomplete.Resolved, ShouldEqual, 3)
		})

		Convey("Unknown names surface a suggestion", func() {
			_, err := a.Assemble([]string{
				"Nikola Jokik", "booker", "edwards", "hart", "caruso",
			}, pool)
			var incomplete *roster.IncompleteTeamError
			So(errors.As(err, &incomplete), ShouldBeTrue)
			So(incomplete.Suggestions["Nikola Jokik"], ShouldEqual, "Nikola Jokic")
		})

		Convey("The same pool player cannot fill two slots", func() {
			_, err := a.Assemble([]string{
				"jokic", "jokic", "booker", "hart", "caruso",
			}, pool)
			var incomplete *roster.IncompleteTeamError
			So(errors.As(err, &incomplete), ShouldBeTrue)
			So(incomplete.Resolved, ShouldEqual, 4)
		})

		Convey("A wrong name count is rejected up front", func() {
			_, err := a.Assemble([]string{"jokic"}, pool)
			So(errors.Is(err, roster.ErrWrongNameCount), ShouldBeTrue)
		})

		Convey("Assembly never mutates the pool", func() {
			before := len(pool[3])
			_, _ = a.Assemble([]string{"jokic", "doncic", "booker", "hart", "caruso"}, pool)
			So(len(pool[3]), ShouldEqual, before)
		})
	})

	Convey("Given a tight budget", t, func() {
		a := roster.New(roster.WithBudget(6))
		pool := testPool()

		Convey("Unaffordable players fold into an incomplete team", func() {
			// Jokic(3) + Doncic(3) exhaust the budget; the rest are unaffordable.
			_, err := a.Assemble([]string{
				"jokic", "doncic", "booker", "hart", "caruso",
			}, pool)
			So(errors.Is(err, roster.ErrIncompleteTeam), ShouldBeTrue)
			var incomplete *roster.IncompleteTeamError
			So(errors.As(err, &incomplete), ShouldBeTrue)
			So(incomplete.Resolved, ShouldEqual, 2)
			So(len(incomplete.Missing), ShouldEqual, 3)
		})
	})
}
