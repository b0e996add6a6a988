package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/empathia-lab/therabot/pkg/cli/config"
	"github.com/empathia-lab/therabot/pkg/domain/types"
	"github.com/empathia-lab/therabot/pkg/repository/corpusfile"
	"github.com/empathia-lab/therabot/pkg/repository/memory"
	"github.com/empathia-lab/therabot/pkg/service/embedding"
	"github.com/empathia-lab/therabot/pkg/service/knowledge"
	"github.com/empathia-lab/therabot/pkg/usecase"
	"github.com/empathia-lab/therabot/pkg/utils/safe"
)

func cmdChat() *cli.Command {
	var userName string
	var botCfg config.Bot
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Your display name in the conversation",
			Value:       "friend",
			Sources:     cli.EnvVars("THERABOT_USER_NAME"),
			Destination: &userName,
		},
	}
	flags = append(flags, botCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Start an interactive chat session in the terminal",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := botCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to load bot configuration")
			}

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			repo := memory.New()
			defer safe.Close(ctx, repo)

			var embedder *embedding.Service
			var index *embedding.Index
			if llmClient != nil {
				entries := knowledge.Load(ctx, corpusfile.New(botCfg.CorpusPath()))
				embedder, err = embedding.New(llmClient)
				if err != nil {
					return err
				}
				index, err = embedding.BuildIndex(ctx, embedder, entries)
				if err != nil {
					return goerr.Wrap(err, "failed to encode knowledge corpus")
				}
			}

			uc, err := buildUseCase(repo, llmClient, embedder, index, &botCfg)
			if err != nil {
				return err
			}

			return runChatLoop(ctx, uc, userName)
		},
	}
}

func runChatLoop(ctx context.Context, uc *usecase.ChatUseCase, userName string) error {
	userID := types.UserID("local")
	botLabel := color.New(color.FgCyan, color.Bold)
	toneLabel := color.New(color.FgYellow)
	alertLabel := color.New(color.FgRed, color.Bold)

	greeting, err := uc.Greeting(ctx, userID, userName)
	if err != nil {
		return goerr.Wrap(err, "failed to build greeting")
	}
	botLabel.Print("bot> ")
	fmt.Println(greeting.Text)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}

		message := scanner.Text()
		if strings.TrimSpace(message) == "" {
			continue
		}

		reply, err := uc.HandleMessage(ctx, userID, userName, message)
		if err != nil {
			return goerr.Wrap(err, "chat turn failed")
		}

		if reply.Distress {
			alertLabel.Print("bot> ")
		} else {
			botLabel.Print("bot> ")
		}
		fmt.Println(reply.Text)
		toneLabel.Printf("     [tone: %s]\n", reply.Tone)

		lowered := strings.ToLower(strings.TrimSpace(message))
		if lowered == "exit" || lowered == "quit" {
			return nil
		}
	}

	return scanner.Err()
}
