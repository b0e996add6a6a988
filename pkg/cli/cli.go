package cli

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/empathia-lab/therabot/pkg/cli/config"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryDSN string
	var closer func()

	flags := loggerCfg.Flags()
	flags = append(flags, &cli.StringFlag{
		Name:        "sentry-dsn",
		Usage:       "Sentry DSN for error tracking",
		Sources:     cli.EnvVars("THERABOT_SENTRY_DSN"),
		Destination: &sentryDSN,
	})

	app := &cli.Command{
		Name:    "therabot",
		Usage:   "Emotion-aware therapeutic chatbot",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:     sentryDSN,
					Release: version,
				}); err != nil {
					return ctx, goerr.Wrap(err, "failed to initialize sentry")
				}
				logging.Default().Info("Sentry error tracking enabled")
			}

			logging.Default().Info("Starting therabot", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			sentry.Flush(2 * time.Second)
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdChat(),
			cmdSeed(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		sentry.CaptureException(err)
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
