package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"vocab-cli/internal/app"
	"vocab-cli/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

func loadApplication() (*app.Application, error) {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(&cfg)
	return app.NewApplication(cfg), nil
}

func applyEnvOverrides(cfg *app.Config) {
	if v := os.Getenv("VOCAB_PRIMARY_URL"); v != "" {
		cfg.PrimaryURL = app.NormalizeBaseURL(v)
	}
	if v := os.Getenv("VOCAB_ALTERNATE_URL"); v != "" {
		cfg.AlternateURL = app.NormalizeBaseURL(v)
	}
	if v := os.Getenv("VOCAB_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("VOCAB_TOPIC"); v != "" {
		cfg.Topic = app.NormalizeTopic(v)
	}
	if v := os.Getenv("VOCAB_STORAGE_ROOT"); v != "" {
		cfg.StorageRoot = v
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

func main() {
	root := &cobra.Command{
		Use:     "vocab",
		Short:   "VocabBuddy - chat-based vocabulary learning",
		Long:    "VocabBuddy is a chat client for learning English vocabulary.\n\nUse without arguments for the interactive TUI, or with subcommands for one-shot operations.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication()
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(application))
			_, err = p.Run()
			return err
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the backend, failing over if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			endpoint, err := application.Client.Health(ctx)
			if err != nil {
				return fmt.Errorf("backend unreachable: %w", err)
			}
			fmt.Printf("ok: %s\n", endpoint)
			return nil
		},
	}
	root.AddCommand(healthCmd)

	var recommendCount int
	recommendCmd := &cobra.Command{
		Use:   "recommend [topic]",
		Short: "List recommended words for a topic",
		Long:  "List recommended vocabulary for a topic.\n\nKnown topics: daily sport school travel technology art business food general health nature people science.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			topic := app.NormalizeTopic(args[0])
			words, err := application.Client.Recommend(ctx, topic, recommendCount)
			if err != nil {
				return err
			}
			for _, w := range words {
				fmt.Println(w)
			}
			return nil
		},
	}
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 5, "Number of words to recommend")
	root.AddCommand(recommendCmd)

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Start a new conversation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			id := application.NewSession(ctx)
			fmt.Printf("new session: %s\n", app.ShortForm(id))
			return nil
		},
	}
	root.AddCommand(resetCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved learning items",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication()
			if err != nil {
				return err
			}
			items := application.History.Items()
			if len(items) == 0 {
				fmt.Println("no words saved yet")
				return nil
			}
			for _, it := range items {
				fmt.Printf("%-16s %-12s %-12s %s\n", it.Word, it.Topic, it.Level, it.Hint)
			}
			fmt.Println(strconv.Itoa(len(items)) + " words")
			return nil
		},
	}
	historyClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved learning items",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication()
			if err != nil {
				return err
			}
			application.ClearHistory()
			fmt.Println("history cleared")
			return nil
		},
	}
	historyCmd.AddCommand(historyClearCmd)
	root.AddCommand(historyCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
