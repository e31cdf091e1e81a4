package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/gamemash/internal/adapters/http/api"
	"github.com/okian/gamemash/internal/adapters/persistence"
	"github.com/okian/gamemash/internal/config"
	"github.com/okian/gamemash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	cfg := config.New(context.Background())
	cfg.Addr = "127.0.0.1:0"
	cfg.StoreBackend = persistence.BackendMemory
	cfg.SamplerSeed = 1
	return cfg
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a memory-backed config", t, func() {
		ctx := context.Background()
		cfg := testConfig()

		convey.Convey("When building the service", func() {
			svc, err := newService(ctx, cfg, logger.Get())

			convey.Convey("Then it starts with the built-in catalog", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()
				stats := svc.GetStats()
				convey.So(stats["partitions"], convey.ShouldEqual, 16)
				convey.So(stats["backend"], convey.ShouldEqual, persistence.BackendMemory)
			})
		})

		convey.Convey("When the catalog file is missing", func() {
			cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
			_, err := newService(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the configured backend is unreachable", func() {
			cfg.StoreBackend = persistence.BackendRedis
			cfg.RedisAddr = "127.0.0.1:1"

			svc, err := newService(ctx, cfg, logger.Get())

			convey.Convey("Then the service starts on the memory store", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
				defer svc.Stop()
				convey.So(svc.GetStats()["backend"], convey.ShouldEqual, persistence.BackendMemory)
			})
		})

		convey.Convey("When the backend is misconfigured", func() {
			cfg.StoreBackend = "tape"
			_, err := newService(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the file backend is used", func() {
			cfg.StoreBackend = persistence.BackendFile
			cfg.StatePath = filepath.Join(t.TempDir(), "state.cbor")
			cfg.StoreCodec = "cbor"

			svc, err := newService(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()
			convey.So(svc.GetStats()["codec"], convey.ShouldEqual, "cbor")
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		cfg := testConfig()
		svc, err := newService(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newHandler(ctx, cfg, svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
			return w
		}

		convey.Convey("Then every surface is reachable", func() {
			for _, path := range []string{"/", "/catalog", "/duel?context=D", "/leaderboard?segment=C&context=D", "/stats", "/healthz", "/openapi.yaml", "/api-docs", "/export"} {
				w := get(path)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Header().Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
			}
		})

		convey.Convey("Then a vote round trip updates the leaderboard", func() {
			w := httptest.NewRecorder()
			body := `{"segment":"S","context":"C","item_a":"Minecraft","item_b":"Fortnite","winner":"A"}`
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(body)))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			lb := get("/leaderboard?segment=S&context=C&limit=1")
			convey.So(lb.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(lb.Body.String(), convey.ShouldContainSubstring, `"item":"Minecraft"`)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a runnable config", t, func() {
		cfg := testConfig()

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()

			err := run(ctx, cfg, logger.Get())

			convey.Convey("Then the server shuts down cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
