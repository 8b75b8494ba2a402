package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hannes/kanoon/src/backend/config"
)

// Version is set at build time
var Version = "1.0.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	cfgFile string
}

func newRootCmd() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "kanoon",
		Short: "Kanoon - AI legal aid assistant for Indian law",
		Long: `Kanoon serves the advocate.ai legal aid site and API: a legal chatbot,
notice and roadmap drafting, document analysis, case-law search, a lawyer
directory and legal news.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "path to a YAML config file")
	flags.String("provider", "", "text-generation provider (huggingface|openai|anthropic|gemini)")
	flags.String("db-driver", "", "storage driver (memory|sqlite|postgres)")
	flags.String("db-path", "", "SQLite database file")
	flags.String("cache-path", "", "response cache file (:memory: for in-memory)")
	flags.String("log-level", "", "log level (debug|info|warn|error)")
	flags.String("log-format", "", "log format (json|console)")
	flags.Bool("redact-prompts", true, "redact personal data from outbound prompts")

	_ = root.RegisterFlagCompletionFunc("provider", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.ProviderHuggingFace, config.ProviderOpenAI, config.ProviderAnthropic, config.ProviderGemini}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newClassifyCmd(),
		newLawsCmd(),
		newLawyersCmd(),
	)
	return root
}

// loadConfig layers .env, the config file, environment and flags, then
// validates the result
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	config.LoadDotEnv()

	cfg, err := config.Load(opts.cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}
