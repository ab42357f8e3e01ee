package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/agent"
	"github.com/pkoester/mailsense/internal/config"
	"github.com/pkoester/mailsense/internal/db"
	"github.com/pkoester/mailsense/internal/llm"
	"github.com/pkoester/mailsense/internal/platform/logger"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	dbPathFlag string
	jsonOutput bool

	settings *config.Settings
	store    *db.Store
	log      zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ms",
	Short: "ms - AI email triage assistant",
	Long: `Mailsense: fetch your inbox, let language-model agents categorize,
summarize, draft replies and extract action items, and browse the
results from a local cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version":
			return nil
		}

		var err error
		settings, err = config.Load()
		if err != nil {
			return err
		}
		log = logger.New("ms", settings.LogLevel)

		path := settings.DBPath
		if dbPathFlag != "" {
			path = dbPathFlag
		}
		store, err = db.Open(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ms version %s\n", Version)
	},
}

// modelClient builds the model gateway from settings.
func modelClient() llm.Client {
	return llm.NewOpenAI(settings.OpenAIBaseURL, settings.OpenAIAPIKey)
}

func newCategorizer() *agent.Categorizer {
	return agent.NewCategorizer(modelClient(), settings.CategorizationModel, log)
}

func newSummarizer() *agent.Summarizer {
	return agent.NewSummarizer(modelClient(), store, settings.SummaryModel, log)
}

func newResponder() *agent.Responder {
	return agent.NewResponder(modelClient(), store, settings.ResponseModel, log)
}

func newExtractor() *agent.Extractor {
	return agent.NewExtractor(modelClient(), store, settings.CategorizationModel, log)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (default: from DB_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
