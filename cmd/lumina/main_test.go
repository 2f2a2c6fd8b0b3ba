package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/lumina/internal/app"
	"github.com/okian/lumina/internal/config"
	"github.com/okian/lumina/pkg/logger"
	"github.com/okian/lumina/pkg/metrics"
)

func newTestService(t *testing.T, cfg *config.Config) *service.Service {
	svc, err := startService(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then serve and browse are registered", func() {
			serve, _, err := root.Find([]string{"serve"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(serve.Name(), convey.ShouldEqual, "serve")
			convey.So(serve.Flags().Lookup("addr"), convey.ShouldNotBeNil)

			browse, _, err := root.Find([]string{"browse"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(browse.Name(), convey.ShouldEqual, "browse")
		})

		convey.Convey("Then catalog is a persistent flag", func() {
			convey.So(root.PersistentFlags().Lookup("catalog"), convey.ShouldNotBeNil)
		})

		convey.Convey("Then help renders", func() {
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"--help"})
			convey.So(root.Execute(), convey.ShouldBeNil)
			convey.So(out.String(), convey.ShouldContainSubstring, "LUMINA_CONFIG")
		})
	})
}

func TestLoadConfig(t *testing.T) {
	convey.Convey("Given environment configuration", t, func() {
		t.Setenv("LUMINA_ADDR", ":8181")
		t.Setenv("LUMINA_CATALOG_PATH", "from-env.json")

		convey.Convey("When no flag is set", func() {
			root := newRootCmd()
			flags := &rootFlags{}
			cfg, err := loadConfig(context.Background(), root, flags)

			convey.Convey("Then env values are kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8181")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "from-env.json")
			})
		})

		convey.Convey("When the catalog flag is set", func() {
			root := newRootCmd()
			convey.So(root.PersistentFlags().Set("catalog", "from-flag.yaml"), convey.ShouldBeNil)
			cfg, err := loadConfig(context.Background(), root, &rootFlags{catalog: "from-flag.yaml"})

			convey.Convey("Then the flag wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "from-flag.yaml")
			})
		})
	})
}

func TestStartService(t *testing.T) {
	convey.Convey("Given a missing catalog file", t, func() {
		cfg := config.New(context.Background())
		cfg.CatalogPath = "does-not-exist.json"

		convey.Convey("Then the service does not start", func() {
			_, err := startService(context.Background(), cfg, logger.NewNop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given the wired handler", t, func() {
		cfg := config.New(context.Background())
		svc := newTestService(t, cfg)
		var access bytes.Buffer
		h, err := newHandler(svc, cfg, logger.NewNop(), &access)
		convey.So(err, convey.ShouldBeNil)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		convey.Convey("Then every surface answers", func() {
			convey.So(get("/").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api/catalog/categories").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api/session").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then the session cookie uses the configured name", func() {
			w := get("/api/session")
			cookies := w.Result().Cookies()
			convey.So(cookies, convey.ShouldNotBeEmpty)
			convey.So(cookies[0].Name, convey.ShouldEqual, cfg.SessionCookie)
		})

		convey.Convey("Then requests are access logged", func() {
			get("/api/catalog/author")
			convey.So(access.String(), convey.ShouldContainSubstring, "GET /api/catalog/author")
		})

		convey.Convey("Then responses are gzipped on request", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/catalog/books", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			convey.So(w.Header().Get("Content-Encoding"), convey.ShouldEqual, "gzip")

			zr, err := gzip.NewReader(w.Body)
			convey.So(err, convey.ShouldBeNil)
			body, err := io.ReadAll(zr)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(body), convey.ShouldContainSubstring, `"books"`)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a manual update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
		})

		convey.Convey("Then the updater stops with its context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()
			<-done
		})
	})
}

func TestRecoveryLogger(t *testing.T) {
	convey.Convey("Given the recovery logger", t, func() {
		convey.Convey("Then it accepts a panic value", func() {
			convey.So(func() { recoveryLogger{log: logger.NewNop()}.Println("boom") }, convey.ShouldNotPanic)
		})
	})
}
