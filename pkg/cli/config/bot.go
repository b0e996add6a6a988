package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/empathia-lab/therabot/pkg/service/retriever"
)

// Bot holds the chatbot tuning parameters. Values come from CLI flags, with
// an optional TOML file overriding the flag defaults.
type Bot struct {
	configPath   string
	personaName  string
	corpusPath   string
	topK         int
	threshold    float64
	historyLimit int
}

// botFile mirrors the TOML configuration file layout
type botFile struct {
	PersonaName  string  `toml:"persona_name"`
	CorpusPath   string  `toml:"corpus_path"`
	TopK         int     `toml:"top_k"`
	Threshold    float64 `toml:"threshold"`
	HistoryLimit int     `toml:"history_limit"`
}

// Flags returns CLI flags for bot configuration
func (b *Bot) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("THERABOT_CONFIG"),
			Destination: &b.configPath,
		},
		&cli.StringFlag{
			Name:        "persona-name",
			Usage:       "Display name of the bot persona",
			Value:       "Therabot",
			Sources:     cli.EnvVars("THERABOT_PERSONA_NAME"),
			Destination: &b.personaName,
		},
		&cli.StringFlag{
			Name:        "corpus-path",
			Usage:       "Path to the knowledge base JSON file",
			Value:       "knowledge_base.json",
			Sources:     cli.EnvVars("THERABOT_CORPUS_PATH"),
			Destination: &b.corpusPath,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of knowledge snippets to retrieve per turn",
			Value:       retriever.DefaultTopK,
			Sources:     cli.EnvVars("THERABOT_TOP_K"),
			Destination: &b.topK,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Usage:       "Minimum cosine similarity for a snippet to be used",
			Value:       retriever.DefaultThreshold,
			Sources:     cli.EnvVars("THERABOT_THRESHOLD"),
			Destination: &b.threshold,
		},
		&cli.IntFlag{
			Name:        "history-limit",
			Usage:       "Default number of turns returned by the history API",
			Value:       20,
			Sources:     cli.EnvVars("THERABOT_HISTORY_LIMIT"),
			Destination: &b.historyLimit,
		},
	}
}

// LogValue renders the bot configuration as a structured log value
func (b *Bot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("persona_name", b.personaName),
		slog.String("corpus_path", b.corpusPath),
		slog.Int("top_k", b.topK),
		slog.Float64("threshold", b.threshold),
		slog.Int("history_limit", b.historyLimit),
	)
}

// Configure merges the optional TOML file over the flag values and validates
// the result.
func (b *Bot) Configure() error {
	if b.configPath != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(b.configPath)
		if err != nil {
			return goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, b.configPath))
		}

		var file botFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, b.configPath))
		}

		if file.PersonaName != "" {
			b.personaName = file.PersonaName
		}
		if file.CorpusPath != "" {
			b.corpusPath = file.CorpusPath
		}
		if file.TopK != 0 {
			b.topK = file.TopK
		}
		if file.Threshold != 0 {
			b.threshold = file.Threshold
		}
		if file.HistoryLimit != 0 {
			b.historyLimit = file.HistoryLimit
		}
	}

	return b.Validate()
}

// Validate checks the bot configuration
func (b *Bot) Validate() error {
	if b.personaName == "" {
		return goerr.Wrap(ErrInvalidConfig, "persona name is required")
	}
	if b.corpusPath == "" {
		return goerr.Wrap(ErrInvalidConfig, "corpus path is required")
	}
	if b.topK < 1 {
		return goerr.Wrap(ErrInvalidConfig, "top-k must be at least 1", goerr.V("top_k", b.topK))
	}
	if b.threshold < -1 || b.threshold > 1 {
		return goerr.Wrap(ErrInvalidConfig, "threshold must be within [-1, 1]", goerr.V("threshold", b.threshold))
	}
	if b.historyLimit < 1 {
		return goerr.Wrap(ErrInvalidConfig, "history limit must be at least 1", goerr.V("history_limit", b.historyLimit))
	}
	return nil
}

// PersonaName returns the configured bot display name
func (b *Bot) PersonaName() string {
	return b.personaName
}

// CorpusPath returns the knowledge base file path
func (b *Bot) CorpusPath() string {
	return b.corpusPath
}

// TopK returns the retrieval depth
func (b *Bot) TopK() int {
	return b.topK
}

// Threshold returns the similarity cutoff
func (b *Bot) Threshold() float64 {
	return b.threshold
}

// HistoryLimit returns the default history window size
func (b *Bot) HistoryLimit() int {
	return b.historyLimit
}
