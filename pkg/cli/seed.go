package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/empathia-lab/therabot/pkg/domain/interfaces"
	"github.com/empathia-lab/therabot/pkg/domain/model"
	"github.com/empathia-lab/therabot/pkg/repository/corpusfile"
	"github.com/empathia-lab/therabot/pkg/utils/logging"
)

func cmdSeed() *cli.Command {
	var path string
	var force bool

	return &cli.Command{
		Name:  "seed",
		Usage: "Write the built-in seed corpus to a knowledge base file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path of the knowledge base JSON file to write",
				Value:       "knowledge_base.json",
				Sources:     cli.EnvVars("THERABOT_CORPUS_PATH"),
				Destination: &path,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "Overwrite an existing knowledge base file",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			store := corpusfile.New(path)

			if !force {
				if _, err := store.Read(ctx); err == nil {
					return goerr.New("knowledge base file already exists (use --force to overwrite)",
						goerr.V("path", path),
					)
				} else if !errors.Is(err, interfaces.ErrCorpusNotFound) {
					return goerr.Wrap(err, "failed to inspect existing knowledge base", goerr.V("path", path))
				}
			}

			entries := model.SeedCorpus()
			if err := store.Write(ctx, entries); err != nil {
				return goerr.Wrap(err, "failed to write knowledge base", goerr.V("path", path))
			}

			logging.Default().Info("Seed corpus written", "path", path, "entries", len(entries))
			return nil
		},
	}
}
