package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/courtside/fastbreak/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		os.Unsetenv("FASTBREAK_CONFIG")
		os.Unsetenv("FASTBREAK_ADDR")
		os.Unsetenv("FASTBREAK_STORE_BACKEND")
		os.Unsetenv("FASTBREAK_BUDGET")

		Convey("Defaults load and validate", func() {
			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.StoreBackend, ShouldEqual, "file")
			So(cfg.Budget, ShouldEqual, 10)
			So(cfg.TeamSize, ShouldEqual, 5)
			So(cfg.SeasonGames, ShouldEqual, 82)
			So(cfg.ProjectionMode, ShouldEqual, "deterministic")
		})

		Convey("Environment variables override defaults", func() {
			os.Setenv("FASTBREAK_ADDR", ":7070")
			os.Setenv("FASTBREAK_BUDGET", "15")
			defer os.Unsetenv("FASTBREAK_ADDR")
			defer os.Unsetenv("FASTBREAK_BUDGET")

			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.Budget, ShouldEqual, 15)
		})

		Convey("A YAML file layers between defaults and env", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":6060\"\nstore_backend: sqlite\n"), 0o644), ShouldBeNil)
			os.Setenv("FASTBREAK_CONFIG", path)
			defer os.Unsetenv("FASTBREAK_CONFIG")

			cfg, err := config.Load()
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.StoreBackend, ShouldEqual, "sqlite")
		})

		Convey("An unknown store backend is rejected", func() {
			os.Setenv("FASTBREAK_STORE_BACKEND", "etcd")
			defer os.Unsetenv("FASTBREAK_STORE_BACKEND")

			_, err := config.Load()
			So(err, ShouldNotBeNil)
		})

		Convey("An unknown projection mode is rejected", func() {
			os.Setenv("FASTBREAK_PROJECTION_MODE", "quantum")
			defer os.Unsetenv("FASTBREAK_PROJECTION_MODE")

			_, err := config.Load()
			So(err, ShouldNotBeNil)
		})
	})
}
