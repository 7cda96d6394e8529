package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/postpilot/dashboard/api"
	"github.com/postpilot/dashboard/dashboard"
	"github.com/postpilot/dashboard/guard"
	"github.com/postpilot/dashboard/internal/config"
	"github.com/postpilot/dashboard/posts"
	"github.com/postpilot/dashboard/refresh"
	"github.com/postpilot/dashboard/session"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("running dashboard")
	}
	log.Info().Msg("dashboard stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	setupLogging(c.GetLogLevel())
	displayAppname(c.GetAppName())

	authClient := api.NewAuthClient(c.GetAPIBaseURL(), api.WithLogger(log.Logger))
	storage := session.NewFileStorage(c.GetDataFolder())
	store, err := session.NewStore(authClient, storage, session.WithLogger(log.Logger))
	if err != nil {
		return errors.Wrap(err, "[run] session store")
	}
	store.Restore()
	if !store.Current().Populated() {
		log.Info().Msg("no stored session, login required")
	}

	// All entity requests go through the oauth2 transport so they carry the
	// current bearer token.
	httpClient := oauth2.NewClient(context.Background(), store)
	client := api.NewClient(c.GetAPIBaseURL(), api.WithHTTPClient(httpClient), api.WithLogger(log.Logger))

	service, err := dashboard.NewService(client, dashboard.WithLogger(log.Logger))
	if err != nil {
		return errors.Wrap(err, "[run] dashboard service")
	}

	refresher := refresh.NewRefresher(log.Logger)
	postsResource := refresh.NewResource(func(ctx context.Context) ([]posts.Post, error) {
		return client.Posts(ctx, api.PostFilter{})
	})

	err = refresher.Add("posts", c.GetRefreshInterval(), func(ctx context.Context) error {
		if !guard.RequireAuthenticated(store.Current()).Admitted {
			return nil
		}
		if err := postsResource.Refresh(ctx); err != nil {
			return err
		}
		if list, ok := postsResource.Get(); ok {
			log.Debug().Int("count", len(list)).Msg("posts refreshed")
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "[run] schedule posts refresh")
	}

	err = refresher.Add("overview", c.GetRefreshInterval(), func(ctx context.Context) error {
		current := store.Current()
		if !guard.RequireAuthenticated(current).Admitted {
			return nil
		}
		overview, err := service.Overview(ctx, current)
		if err != nil {
			return err
		}
		log.Info().
			Int("posts", overview.TotalPosts).
			Int("campaigns", overview.TotalCampaigns).
			Int("active_campaigns", overview.Campaigns.Active).
			Float64("avg_engagement", overview.Engagement.AverageRate).
			Msg("dashboard refreshed")
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "[run] schedule overview refresh")
	}

	refresher.Start()
	waitForStopSignal()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	refresher.Stop(ctx)
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func setupLogging(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
