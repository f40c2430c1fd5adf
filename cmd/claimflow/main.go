package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/claimdesk/claimflow/directory"
	"github.com/claimdesk/claimflow/extract"
	"github.com/claimdesk/claimflow/httpapi"
	"github.com/claimdesk/claimflow/session"
	"github.com/claimdesk/claimflow/store"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	serve := flag.Bool("serve", false, "run the HTTP server instead of the REPL")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	_ = godotenv.Load()

	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelInfo)
	}

	if err := run(context.Background(), config, *serve); err != nil {
		log.Fatalf("claimflow: %v", err)
	}
}

func run(ctx context.Context, config *Config, serve bool) error {
	dir, err := directory.NewFileDirectory(config.PoliciesPath)
	if err != nil {
		return fmt.Errorf("open policy directory: %w", err)
	}
	claims := store.NewFileStore(config.ClaimsPath)

	extractor, err := buildExtractor(ctx, config)
	if err != nil {
		return err
	}

	flow := session.NewFlow(
		session.NewRepo(),
		dir,
		claims,
		extractor,
		session.WithStrictDates(config.StrictDates),
	)

	if serve {
		return serveHTTP(config, flow, claims)
	}
	return runREPL(ctx, flow)
}

// buildExtractor prefers the tool-based oracle with the rule-based
// label parser behind it; with no API key only the label parser runs.
func buildExtractor(ctx context.Context, config *Config) (extract.Extractor, error) {
	if config.APIKey == "" {
		slog.Warn("no api key configured, running with the rule-based extractor only")
		return extract.NewRuleBased(), nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	toolBased, err := extract.NewToolBased(cm)
	if err != nil {
		return nil, fmt.Errorf("create extractor: %w", err)
	}
	return extract.NewFailover(toolBased, extract.NewRuleBased()), nil
}

func serveHTTP(config *Config, flow *session.Flow, claims store.Store) error {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	handler := httpapi.NewHandler(flow, claims)
	httpapi.RegisterRoutes(r, handler)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	slog.Info("listening", "addr", config.Addr)
	return http.ListenAndServe(config.Addr, r)
}

func runREPL(ctx context.Context, flow *session.Flow) error {
	agent := session.NewAgent(
		"ClaimIntake",
		"An agent that collects insurance-claim details in conversation and files the claim",
		flow,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: agent,
	})

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Welcome to claim intake. Please enter your policy number to get started.")
	for {
		fmt.Print("you: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input closed, exiting.")
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		iter := runner.Run(ctx, []*schema.Message{schema.UserMessage(input)})
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				return event.Err
			}
			msg, err := event.Output.MessageOutput.GetMessage()
			if err != nil {
				return err
			}
			fmt.Printf("\nassistant: %v\n======\n", msg.Content)
		}
	}
	return nil
}
