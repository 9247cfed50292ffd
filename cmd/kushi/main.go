// Command kushi serves the kushi dashboard: account pages, the SPA auth API
// and the protected workspace.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/kushi-labs/kushi/modules/account"
	"github.com/kushi-labs/kushi/modules/workspace"
	"github.com/kushi-labs/kushi/pkg/auth"
	"github.com/kushi-labs/kushi/pkg/authctx"
	"github.com/kushi-labs/kushi/pkg/bootstrap"
	"github.com/kushi-labs/kushi/pkg/clientip"
	"github.com/kushi-labs/kushi/pkg/config"
	"github.com/kushi-labs/kushi/pkg/cookie"
	"github.com/kushi-labs/kushi/pkg/credentials"
	"github.com/kushi-labs/kushi/pkg/httpserver"
	"github.com/kushi-labs/kushi/pkg/kv"
	"github.com/kushi-labs/kushi/pkg/logger"
	"github.com/kushi-labs/kushi/pkg/requestid"
	"github.com/kushi-labs/kushi/pkg/session"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[appConfig]()
	if err != nil {
		return err
	}

	log := logger.NewFromConfig(cfg.Log, cfg.Env, cfg.Name,
		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
	)
	logger.SetAsDefault(log)

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	app, err := newApp(cfg, store, log)
	if err != nil {
		_ = closeStore(ctx)
		return err
	}

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(context.Context) error { return app.sessions.Close() }),
		httpserver.WithStopHook(closeStore),
	)
	return srv.Run(ctx, app.router)
}

type app struct {
	router   http.Handler
	sessions *session.Manager
}

// newApp wires the services on top of store and builds the router.
func newApp(cfg appConfig, store kv.Store, log *slog.Logger) (*app, error) {
	shared := kv.WithPrefix(store, cfg.KV.KeyPrefix)

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, err
	}

	authSvc := auth.NewFromConfig(credentials.New(shared), cfg.Auth, auth.WithLogger(log))

	accountCfg := cfg.Account
	accountCfg.JarMaxAge = cfg.Cookie.JarMaxAge

	sessions := session.NewFromConfig(cfg.Session,
		session.WithLoginPath(accountCfg.LoginPath),
		session.WithCookieManager(cookies),
		session.WithStore(session.NewKVStore(shared, cfg.Session.CleanupInterval)),
		session.WithLogger(log),
	)

	data, err := workspace.Load()
	if err != nil {
		_ = sessions.Close()
		return nil, err
	}

	jarMaxAge := accountCfg.JarMaxAge

	api := account.NewAPIService(cookies,
		account.WithAPILogger(log),
		account.WithJarMaxAge(jarMaxAge),
	)
	pages := account.NewPageService(authSvc, sessions, cookies,
		account.WithConfig(accountCfg),
		account.WithLogger(log),
	)
	ws := workspace.NewService(data,
		workspace.WithLogger(log),
		workspace.WithStore(shared),
		workspace.WithGuards(api.Middleware(), authctx.Require(account.Deny)),
		workspace.WithAppearance(func(w http.ResponseWriter, r *http.Request) (bootstrap.Appearance, error) {
			page, err := bootstrap.Load(r.Context(), cookies.Jar(w, r, jarMaxAge))
			return page.Appearance, err
		}),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.NewFromConfig(cfg.ClientIP).Middleware, sessions.Middleware)

	r.Get("/healthz", httpserver.HealthCheckHandler(log, cfg.HealthTimeout,
		httpserver.Check{Name: "kv", Fn: kv.Healthcheck(store)},
	))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, accountCfg.HomePath, http.StatusFound)
	})
	r.With(sessions.RequireAuth).Get(accountCfg.HomePath, ws.Dashboard())
	r.Mount("/api/workspace", ws.Handle())
	r.Mount("/", account.Router(account.RouterOptions{
		Pages: pages,
		API:   api,
	}))

	return &app{router: r, sessions: sessions}, nil
}
