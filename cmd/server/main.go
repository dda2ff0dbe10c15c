package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/bloghub-admin/auth"
	"github.com/jrsteele09/bloghub-admin/contentapi"
	"github.com/jrsteele09/bloghub-admin/internal/config"
	"github.com/jrsteele09/bloghub-admin/internal/logger"
	"github.com/jrsteele09/bloghub-admin/server"
	"github.com/jrsteele09/bloghub-admin/sessions"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger.Init(c.GetLogLevel(), c.GetLogFormat())
	displayAppname(c.GetAppName())

	repo, closeRepo, err := sessionRepo(c)
	if err != nil {
		return err
	}
	defer closeRepo()

	sealer, err := sessions.NewSealer(c.GetSessionSecret())
	if err != nil {
		return fmt.Errorf("sessions.NewSealer: %w", err)
	}

	provider, err := auth.NewProvider(contentapi.New(c.GetAPIURL(), nil), repo, sealer, c)
	if err != nil {
		return fmt.Errorf("auth.NewProvider: %w", err)
	}
	defer provider.Close()

	handler, err := server.New(c, provider)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	if err := waitForStopSignal(errs); err != nil {
		return err
	}
	return shutdown(srv)
}

// sessionRepo picks the session store named by SESSION_STORE
func sessionRepo(c config.Config) (sessions.Repo, func(), error) {
	switch c.GetSessionStore() {
	case config.SessionStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		repo, err := sessions.NewRedisRepoFromURL(ctx, c.GetRedisURL())
		if err != nil {
			return nil, nil, fmt.Errorf("sessions.NewRedisRepoFromURL: %w", err)
		}
		log.Info().Msg("Sessions stored in redis")
		return repo, func() { closeQuietly(repo) }, nil
	case config.SessionStoreMemory:
		log.Info().Msg("Sessions stored in memory")
		return sessions.NewInMemoryRepo(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", c.GetSessionStore())
	}
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("close failed")
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

// waitForStopSignal returns on SIGINT/SIGTERM, or with the listener's error if it stops first
func waitForStopSignal(errs <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case <-stop:
		return nil
	case err := <-errs:
		return err
	}
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
