package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"docchat/internal/app"
	"docchat/internal/gateway"
	"docchat/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

var (
	flagConfig  string
	flagBaseURL string
	flagPersona string
	flagTheme   string
)

func loadEverything() (app.Config, *app.Session, *zap.Logger, error) {
	path := flagConfig
	if path == "" {
		path = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return cfg, nil, nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagPersona != "" {
		cfg.Persona = flagPersona
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}

	logger, err := app.NewLogger(cfg.LogFile)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("open log file: %w", err)
	}

	client := gateway.NewClient(cfg.BaseURL, logger)
	session := app.NewSession(client, logger)
	session.SelectPersona(cfg.Persona)
	logger.Info("session started",
		zap.String("session", session.ID()),
		zap.String("base_url", cfg.BaseURL),
		zap.String("persona", cfg.Persona))
	return cfg, session, logger, nil
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
		Use:     "docchat",
		Short:   "docchat - chat with your documents from the terminal",
		Long:    "docchat is a terminal client for a document-chat backend.\n\nUpload a document, pick an assistant persona, and ask questions about the content. Run without arguments for the interactive TUI, or use the one-shot subcommands for scripting.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, session, logger, err := loadEverything()
			if err != nil {
				return err
			}
			defer logger.Sync()

			p := tea.NewProgram(tui.NewMainModel(session, cfg), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (overrides config)")
	root.PersistentFlags().StringVar(&flagPersona, "persona", "", "assistant persona key")
	root.PersistentFlags().StringVar(&flagTheme, "theme", "", "theme: aurora|paper")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the reply",
		Long:  "Send one chat query and print the answer with its source references.\n\nExamples:\n  - docchat ask \"What is the summary?\"\n  - docchat ask --persona technical \"Explain section 3\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, session, logger, err := loadEverything()
			if err != nil {
				return err
			}
			defer logger.Sync()

			question := strings.TrimSpace(args[0])
			if question == "" {
				return fmt.Errorf("empty question")
			}

			session.LoadPersonas(ctx)
			if err := session.SubmitMessage(ctx, question); err != nil {
				return err
			}

			view := session.Snapshot()
			last := view.Messages[len(view.Messages)-1]
			fmt.Println(last.Content)
			if len(last.Sources) > 0 {
				fmt.Println("\nSources:")
				for _, src := range last.Sources {
					if chips := tui.SourceChips(src); len(chips) > 0 {
						fmt.Printf("  [%s]\n", strings.Join(chips, " | "))
					}
					fmt.Printf("  %s\n", src.Text)
				}
			}
			return nil
		},
	}
	root.AddCommand(askCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload [file]",
		Short: "Upload a document for ingestion",
		Long:  "Upload a local document to the backend. Supported types: .pdf .csv .txt .docx .doc .vtt .srt .json .xml, up to 50MB.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, session, logger, err := loadEverything()
			if err != nil {
				return err
			}
			defer logger.Sync()

			doc, err := app.StatDocument(args[0])
			if err != nil {
				return err
			}
			if err := session.SubmitUpload(ctx, doc); err != nil {
				return err
			}

			view := session.Snapshot()
			if view.UploadStatus != nil {
				fmt.Println(view.UploadStatus.Message)
				if detail := tui.StatsDetail(view.UploadStatus.Stats); detail != "" {
					fmt.Println(detail)
				}
			}
			return nil
		},
	}
	root.AddCommand(uploadCmd)

	personasCmd := &cobra.Command{
		Use:   "personas",
		Short: "List the available assistant personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			_, session, logger, err := loadEverything()
			if err != nil {
				return err
			}
			defer logger.Sync()

			session.LoadPersonas(ctx)
			view := session.Snapshot()
			for _, key := range view.PersonaKeys {
				p := view.Personas[key]
				marker := " "
				if key == view.Selected {
					marker = "*"
				}
				fmt.Printf("%s %-10s %s %s — %s\n", marker, key, p.Emoji, p.Name, tui.FirstSentence(p.Prompt))
			}
			return nil
		},
	}
	root.AddCommand(personasCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
