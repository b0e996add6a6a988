package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/empathia-lab/therabot/pkg/cli/config"
	httpctrl "github.com/empathia-lab/therabot/pkg/controller/http"
	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/repository/corpusfile"
	"github.com/empathia-lab/therabot/pkg/service/embedding"
	"github.com/empathia-lab/therabot/pkg/service/emotion"
	"github.com/empathia-lab/therabot/pkg/service/generator"
	"github.com/empathia-lab/therabot/pkg/service/knowledge"
	"github.com/empathia-lab/therabot/pkg/service/retriever"
	"github.com/empathia-lab/therabot/pkg/usecase"
	"github.com/empathia-lab/therabot/pkg/utils/async"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
	"github.com/empathia-lab/therabot/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var allowDegraded bool
	var botCfg config.Bot
	var geminiCfg config.Gemini
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THERABOT_ADDR"),
			Destination: &addr,
		},
		&cli.BoolFlag{
			Name:        "allow-degraded",
			Usage:       "Start without a Gemini client (keyword classification and fixed replies only)",
			Sources:     cli.EnvVars("THERABOT_ALLOW_DEGRADED"),
			Destination: &allowDegraded,
		},
	}
	flags = append(flags, botCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := botCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load bot configuration")
			}
			logging.Default().Info("Bot configuration loaded", "bot", &botCfg)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient == nil && !allowDegraded {
				return goerr.New("gemini-project is required (use --allow-degraded to start without it)")
			}

			// Repository setup and corpus encoding are independent; run them
			// concurrently.
			var repo interfaces.Repository
			var index *embedding.Index
			var embedder *embedding.Service

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				r, err := repoCfg.Configure(egCtx)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize repository")
				}
				repo = r
				return nil
			})
			eg.Go(func() error {
				entries := knowledge.Load(egCtx, corpusfile.New(botCfg.CorpusPath()))
				if llmClient == nil {
					return nil
				}
				e, err := embedding.New(llmClient)
				if err != nil {
					return err
				}
				idx, err := embedding.BuildIndex(egCtx, e, entries)
				if err != nil {
					return goerr.Wrap(err, "failed to encode knowledge corpus")
				}
				embedder = e
				index = idx
				return nil
			})
			if err := eg.Wait(); err != nil {
				safe.Close(ctx, repo)
				return err
			}
			defer safe.Close(ctx, repo)

			uc, err := buildUseCase(repo, llmClient, embedder, index, &botCfg)
			if err != nil {
				return err
			}

			if llmClient != nil {
				warmupProbe(ctx, llmClient)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"degraded", llmClient == nil,
					"corpus_size", indexSize(index),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

// buildUseCase assembles the chat pipeline. A nil LLM client produces a
// degraded pipeline that still serves every request.
func buildUseCase(repo interfaces.Repository, llmClient gollem.LLMClient, embedder *embedding.Service, index *embedding.Index, botCfg *config.Bot) (*usecase.ChatUseCase, error) {
	opts := []usecase.Option{
		usecase.WithHistoryLimit(botCfg.HistoryLimit()),
	}

	if llmClient != nil {
		gen, err := generator.New(llmClient)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize generator")
		}
		opts = append(opts, usecase.WithCompleter(gen))
	}

	if embedder == nil || index == nil {
		// Degraded mode: an empty index makes every retrieval fall back to
		// the fixed prompts without touching an embedder.
		index = embedding.EmptyIndex()
	}

	rt := retriever.New(embedder, index,
		retriever.WithTopK(botCfg.TopK()),
		retriever.WithThreshold(botCfg.Threshold()),
	)

	return usecase.New(repo, emotion.New(llmClient), rt, opts...), nil
}

// warmupProbe fires one background embedding request so the first user turn
// does not pay the connection setup cost.
func warmupProbe(ctx context.Context, llmClient gollem.LLMClient) {
	async.Dispatch(ctx, func(ctx context.Context) error {
		probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		svc, err := embedding.New(llmClient)
		if err != nil {
			return err
		}
		if _, err := svc.Encode(probeCtx, "hello"); err != nil {
			return goerr.Wrap(err, "embedding warmup probe failed")
		}
		logging.Default().Info("Embedding warmup probe succeeded")
		return nil
	})
}

func indexSize(index *embedding.Index) int {
	if index == nil {
		return 0
	}
	return index.Size()
}
