package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"recipechat/internal/config"
	"recipechat/internal/dataset"
	"recipechat/internal/domain"
	"recipechat/internal/embedding/openai"
	"recipechat/internal/embedding/tfidf"
	"recipechat/internal/index"
	"recipechat/internal/intent"
	"recipechat/internal/lexicon"
	"recipechat/internal/logging"
	"recipechat/internal/rank"
	"recipechat/internal/service"
	"recipechat/internal/textnorm"
	"recipechat/internal/tui"
)

var (
	cfgFile  string
	dataPath string
	oneShot  string
	topN     int
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "recipechat",
	Short: "Conversational recipe recommender over a local dataset",
	Long: `recipechat maps free-form food requests ("quick vegan dessert",
"Asian chicken") onto a ranked shortlist of recipes from a local CSV
dataset, combining a facet lexicon with embedding-based fallback matching.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml, then ~/.config/recipechat/config.yaml)")
	rootCmd.Flags().StringVar(&dataPath, "data", "", "recipe dataset CSV (overrides config)")
	rootCmd.Flags().StringVar(&oneShot, "query", "", "answer a single query and exit instead of starting the chat")
	rootCmd.Flags().IntVar(&topN, "top-n", 0, "number of recipes to return (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file path (overrides config)")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	var cfg *config.AppConfig
	var err error
	if cfgFile == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgFile)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dataPath != "" {
		cfg.Dataset.Path = dataPath
	}
	if topN > 0 {
		cfg.Matching.TopN = topN
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	lex, err := lexicon.New(cfg.Lexicon)
	if err != nil {
		return fmt.Errorf("build lexicon: %w", err)
	}
	norm := textnorm.New(lex)

	recipes, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	log.Info().Int("recipes", len(recipes)).Str("path", cfg.Dataset.Path).Msg("dataset loaded")

	emb := buildEmbedder(cfg, log)
	if emb != nil {
		if err := emb.Prepare(corpus(recipes, lex)); err != nil {
			log.Warn().Err(err).Msg("embedder preparation failed, semantic matching disabled")
			emb = nil
		}
	}

	var progress func(done, total int)
	if emb != nil && len(recipes) > 0 {
		bar := progressbar.Default(int64(len(recipes)), "indexing recipes")
		progress = func(done, total int) { _ = bar.Add(1) }
	}
	idx, err := index.Build(recipes, emb, progress)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	ext := intent.New(lex, idx, emb, intent.Config{
		SimilarityThreshold: cfg.Matching.SimilarityThreshold,
		QuickMinutes:        cfg.Matching.QuickMinutes,
		SlowMinutes:         cfg.Matching.SlowMinutes,
	}, log)
	eng := rank.New(idx)
	svc := service.New(norm, ext, eng, emb, cfg.Matching.TopN, log)
	log.Info().Msg("recommender initialized")

	if oneShot != "" {
		fmt.Println(svc.Respond(oneShot).Text)
		return nil
	}

	banner := fmt.Sprintf("Loaded %d recipes. Type 'quit' to exit.", idx.Len())
	if _, err := tea.NewProgram(tui.New(svc, banner)).Run(); err != nil {
		return err
	}
	return nil
}

// buildEmbedder picks the embedder implementation; a failure degrades to
// exact-match-only operation rather than aborting startup.
func buildEmbedder(cfg *config.AppConfig, log zerolog.Logger) domain.Embedder {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder()
	case "openai":
		oc := cfg.Embedder.OpenAI
		if oc == nil {
			oc = &config.OpenAIEmbedderConfig{}
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   oc.BaseURL,
			APIKeyEnv: oc.APIKeyEnv,
			Model:     oc.Model,
			Timeout:   time.Duration(oc.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Warn().Err(err).Msg("openai embedder unavailable, semantic matching disabled")
			return nil
		}
		return client
	case "none":
		return nil
	default:
		log.Warn().Str("type", cfg.Embedder.Type).Msg("unknown embedder type, semantic matching disabled")
		return nil
	}
}

// corpus is the text the local embedder learns its vocabulary from: every
// recipe's descriptive text plus the lexicon's reference phrases, so
// canonical facet values are never out-of-vocabulary.
func corpus(recipes []domain.Recipe, lex *lexicon.Lexicon) []string {
	out := make([]string, 0, len(recipes)+32)
	for _, r := range recipes {
		out = append(out, r.Title+" "+r.Description)
	}
	for _, cat := range domain.SemanticCategories {
		for _, canonical := range lex.Canonicals(cat) {
			out = append(out, lex.ReferencePhrase(cat, canonical))
		}
	}
	return out
}
