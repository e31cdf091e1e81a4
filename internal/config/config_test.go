package config_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.InitialRating, convey.ShouldEqual, 1000)
			convey.So(cfg.DefaultLeaderboardLimit, convey.ShouldEqual, 10)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.ExportTopN, convey.ShouldEqual, 100)
			convey.So(cfg.StoreBackend, convey.ShouldEqual, persistence.BackendFile)
			convey.So(cfg.StoreCodec, convey.ShouldEqual, "json")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the persistence config mirrors the store settings", func() {
			cfg.StoreBackend = persistence.BackendRedis
			cfg.RedisAddr = "localhost:6379"
			cfg.RedisDB = 3

			p := cfg.Persistence()
			convey.So(p.Backend, convey.ShouldEqual, persistence.BackendRedis)
			convey.So(p.RedisAddr, convey.ShouldEqual, "localhost:6379")
			convey.So(p.RedisDB, convey.ShouldEqual, 3)
			convey.So(p.Path, convey.ShouldEqual, cfg.StatePath)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"NaN initial rating", func(c *config.Config) { c.InitialRating = math.NaN() }},
			{"infinite initial rating", func(c *config.Config) { c.InitialRating = math.Inf(-1) }},
			{"zero max limit", func(c *config.Config) { c.MaxLeaderboardLimit = 0 }},
			{"default limit above max", func(c *config.Config) { c.DefaultLeaderboardLimit = 101 }},
			{"zero export rows", func(c *config.Config) { c.ExportTopN = 0 }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"unknown codec", func(c *config.Config) { c.StoreCodec = "gob" }},
			{"unknown backend", func(c *config.Config) { c.StoreBackend = "etcd" }},
			{"file backend without path", func(c *config.Config) { c.StatePath = "" }},
			{"redis backend without addr", func(c *config.Config) { c.StoreBackend = "redis" }},
			{"postgres backend without dsn", func(c *config.Config) { c.StoreBackend = "postgres" }},
			{"s3 backend without bucket", func(c *config.Config) { c.StoreBackend = "s3" }},
		}

		for _, tc := range cases {
			convey.Convey("When the config has "+tc.name, func() {
				cfg := config.New(context.Background())
				tc.mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the memory backend is chosen", func() {
			cfg := config.New(context.Background())
			cfg.StoreBackend = persistence.BackendMemory
			cfg.StatePath = ""

			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
