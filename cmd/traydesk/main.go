// Command traydesk runs the assistant core from a terminal: one query
// per invocation, or an interactive prompt when no query is given.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/traydesk/agents"
	"github.com/traydesk/agents/history"
	"github.com/traydesk/agents/schema"
)

func main() {
	var (
		configPath  = flag.String("config", "config.toml", "path to the configuration file")
		agentID     = flag.String("agent", "", "skip routing and use this agent")
		historyPath = flag.String("history", defaultHistoryPath(), "path to the history file")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		listAgents  = flag.Bool("agents", false, "list configured agents and exit")
	)
	flag.Parse()

	log := newLogger(*logLevel)

	store, err := history.NewJSONStore(*historyPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open history")
	}

	assistant, err := agents.New(*configPath,
		agents.WithLogger(log),
		agents.WithHistory(store),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	if *listAgents {
		for _, info := range assistant.Agents() {
			fmt.Printf("%-12s %s (model %s, tools: %s)\n",
				info.ID, info.Description, info.Model, strings.Join(info.Tools, ", "))
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if query := strings.Join(flag.Args(), " "); query != "" {
		if err := ask(ctx, assistant, query, *agentID); err != nil {
			os.Exit(1)
		}
		return
	}

	interactive(ctx, assistant, *agentID)
}

func ask(ctx context.Context, assistant *agents.Assistant, query, agentID string) error {
	var opts []agents.AskOption
	if agentID != "" {
		opts = append(opts, agents.WithAgent(agentID))
	}

	turn, err := assistant.Ask(ctx, query, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Printf("[%s] %s\n", turn.AgentID, turn.FinalResponse)
	if turn.Status == schema.TurnTruncated {
		fmt.Fprintln(os.Stderr, "(answer truncated: round limit reached)")
	}
	return nil
}

func interactive(ctx context.Context, assistant *agents.Assistant, agentID string) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("traydesk ready. Type a query, or /quit to exit.")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return
		case line == "/clear":
			if err := assistant.ClearHistory(); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			} else {
				fmt.Println("history cleared")
			}
			continue
		}
		if ctx.Err() != nil {
			return
		}
		ask(ctx, assistant, line, agentID)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "traydesk_history.json"
	}
	return filepath.Join(home, ".traydesk", "history.json")
}
