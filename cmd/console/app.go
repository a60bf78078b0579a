package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/recruit-console/api"
	"github.com/jrsteele09/recruit-console/apiclient"
	"github.com/jrsteele09/recruit-console/internal/config"
	"github.com/jrsteele09/recruit-console/internal/metrics"
	"github.com/jrsteele09/recruit-console/session"
	"github.com/jrsteele09/recruit-console/session/filerepo"
	"github.com/jrsteele09/recruit-console/session/redisrepo"
	sessionrepofake "github.com/jrsteele09/recruit-console/session/repofake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	store   *session.Store
	client  *apiclient.Client
	service *api.Service

	registry      *prometheus.Registry
	metricsServer *http.Server
	closers       []func() error
}

func newApp(cfg config.Config, logger zerolog.Logger, notices io.Writer, metricsAddr string) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(a.registry)

	repo, err := a.sessionRepo()
	if err != nil {
		return nil, err
	}

	a.store = session.NewStore(repo,
		session.WithLogger(logger.With().Str("component", "session").Logger()),
		session.WithMetrics(m),
		session.WithNavigator(loginNotice(notices)),
	)

	a.client, err = apiclient.New(cfg.GetAPIBaseURL(), a.store,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.GetRequestTimeout()}),
		apiclient.WithRefreshTimeout(cfg.GetRefreshTimeout()),
		apiclient.WithLogger(logger.With().Str("component", "apiclient").Logger()),
		apiclient.WithMetrics(m),
	)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.service = api.New(a.client)

	if metricsAddr != "" {
		a.serveMetrics(metricsAddr)
	}
	return a, nil
}

func (a *app) sessionRepo() (session.Repo, error) {
	switch a.cfg.GetSessionStore() {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.GetRedisAddr(),
			Password: a.cfg.GetRedisPassword(),
			DB:       a.cfg.GetRedisDB(),
		})
		a.closers = append(a.closers, client.Close)
		return redisrepo.New(client, a.cfg.GetRedisKeyPrefix()), nil
	case "memory":
		return sessionrepofake.NewFakeSessionRepo(), nil
	case "file":
		return filerepo.New(a.cfg.GetSessionFile()), nil
	}
	return nil, fmt.Errorf("unknown session store %q", a.cfg.GetSessionStore())
}

// loginNotice tells the user the session is gone and how to start a new one.
func loginNotice(w io.Writer) session.Navigator {
	return session.NavigatorFunc(func(path string) {
		if path == session.LoginPath {
			fmt.Fprintln(w, "Session ended. Run `login` to sign in again.")
		}
	})
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info().Str("addr", addr).Msg("Metrics listening")
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Err(err).Msg("Metrics server stopped")
		}
	}()
}

func (a *app) Close() error {
	var errs []error
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics shutdown: %w", err))
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
