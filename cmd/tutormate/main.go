// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tutormate CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hewansirak/tutormate/internal/agent"
	"github.com/hewansirak/tutormate/internal/llm"
	"github.com/hewansirak/tutormate/internal/search"
	"github.com/hewansirak/tutormate/internal/secrets"
	"github.com/hewansirak/tutormate/internal/store"
	"github.com/hewansirak/tutormate/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "tutormate/0.1"
)

// rootCmd is the base command for the tutormate CLI.
var rootCmd = &cobra.Command{
	Use:   "tutormate",
	Short: "Conversational research tutor over academic paper search",
	Long: `tutormate is a conversational front-end over academic paper search and
summarization. It classifies chat messages into intents, searches arXiv,
caches results in a local SQLite database, generates LLM summaries, and
tracks per-user search history, interests, and downloads.

Run it as an HTTP service with "tutormate serve" or talk to it directly
with "tutormate chat".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tutormate.yaml or ~/.config/tutormate/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tutormate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tutormate"))
		}
	}

	viper.SetEnvPrefix("TUTORMATE")
	viper.AutomaticEnv()

	viper.SetDefault("store.path", filepath.Join("data", "tutormate.db"))
	viper.SetDefault("download.dir", "downloads")
	viper.SetDefault("search.max_results", 3)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the runtime configuration from viper and secrets.
func buildConfig() types.Config {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if httpCfg.Timeout == 0 {
		httpCfg.Timeout = defaultTimeout
	}
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = defaultUserAgent
	}

	return types.Config{
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
		Search: types.SearchConfig{
			HTTPConfig: httpCfg,
			MaxResults: viper.GetInt("search.max_results"),
		},
		LLM: types.LLMConfig{
			Model:   viper.GetString("llm.model"),
			APIKey:  secrets.Resolve(loadedSecrets, "gemini-api-key", "GEMINI_API_KEY"),
			BaseURL: secrets.Resolve(loadedSecrets, "llm-base-url", "TUTORMATE_LLM_BASE_URL"),
		},
		Download: types.DownloadConfig{
			HTTPConfig:  httpCfg,
			DownloadDir: viper.GetString("download.dir"),
		},
		Server: types.ServerConfig{
			Addr:           viper.GetString("server.addr"),
			HistoryLimit:   viper.GetInt("server.history_limit"),
			InterestsLimit: viper.GetInt("server.interests_limit"),
		},
	}
}

// buildAgent wires the store, LLM client, and search provider together.
// Callers own the returned store and must close it.
func buildAgent(cfg types.Config) (*agent.Agent, *store.Store, error) {
	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	client := llm.New(cfg.LLM)
	provider := search.NewDegrading(&search.ArxivProvider{
		Client: &http.Client{Timeout: cfg.Search.Timeout},
		Config: cfg.Search,
	})

	a := agent.New(st, client, provider, cfg.Search, cfg.Download)
	return a, st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
