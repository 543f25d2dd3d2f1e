// Command volley is a small interactive agent driven from the terminal.
//
// It connects to an OpenAI Responses-compatible endpoint, registers a few
// local tools, and runs a conversation loop. Tool calls are printed as they
// stream; calls to the shell tool require interactive approval. Press
// Ctrl+C during a turn to cancel it without losing the conversation.
//
// Configuration comes from the environment (a .env file is loaded if
// present):
//
//	OPENAI_API_KEY    API key (required)
//	OPENAI_BASE_URL   override the Responses endpoint
//	VOLLEY_MODEL      model name, default gpt-4.1-mini
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/volleyhq/volley"
	"github.com/volleyhq/volley/agent"
	"github.com/volleyhq/volley/event"
	"github.com/volleyhq/volley/responses"
	"github.com/volleyhq/volley/tool"
)

func main() {
	godotenv.Load()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY is not set")
		os.Exit(1)
	}

	model := os.Getenv("VOLLEY_MODEL")
	if model == "" {
		model = "gpt-4.1-mini"
	}

	var clientOpts []responses.ClientOption
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		clientOpts = append(clientOpts, responses.WithBaseURL(base))
	}
	client := responses.New(apiKey, clientOpts...)

	registry := tool.NewRegistry().Add(
		tool.Func("current_time", "Get the current date and time", timeHandler),
		tool.Func("shell", "Run a shell command and return its output", shellHandler),
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	events := event.NewChannel()
	go printEvents(events)

	session := agent.New(client,
		agent.WithModel(model),
		agent.WithInstructions("You are a helpful assistant running in a terminal."),
		agent.WithRequestOptions(ai.WithTools(registry.Tools())),
		agent.WithRegistry(registry),
		agent.WithApprover(approveFromStdin),
		agent.WithApprovalRequired("shell"),
		agent.WithEvents(events),
		agent.WithLogger(logger),
	)

	// Ctrl+C cancels the in-flight turn; the conversation survives.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		for range sigs {
			fmt.Fprintln(os.Stderr, "\n[cancelling]")
			session.Cancel()
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}

		result, err := session.Run(ctx, ai.NewUserMessage(line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println()
		if result.Termination == agent.TerminationCancelled {
			fmt.Println("[turn cancelled]")
			continue
		}
		fmt.Printf("[%d turns, %d tokens]\n",
			result.Turns, result.TotalUsage.Total())
	}
}

// printEvents renders streaming output and tool activity.
func printEvents(events <-chan event.Event) {
	for e := range events {
		switch e.Type {
		case event.MessageDelta:
			fmt.Print(e.Delta)
		case event.MessageEnd:
			fmt.Println()
		case event.ToolCallStart:
			fmt.Printf("\n[tool: %s]\n", e.ToolCall.Name)
		case event.ToolCallResult:
			out := e.Output
			if len(out) > 200 {
				out = out[:200] + "..."
			}
			fmt.Printf("[result: %s]\n", out)
		case event.Retrying:
			fmt.Fprintf(os.Stderr, "[retry %d/%d]\n", e.Attempt, e.MaxAttempts)
		}
	}
}

// approveFromStdin prompts for a y/n decision on the terminal.
func approveFromStdin(ctx context.Context, call ai.ToolCall) (bool, string) {
	fmt.Printf("\napprove %s(%s)? [y/N] ", call.Name, call.Arguments)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false, "no input"
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	if answer == "y" || answer == "yes" {
		return true, ""
	}
	return false, "rejected by user"
}

// TimeArgs are the arguments for the current_time tool.
type TimeArgs struct {
	Format string `json:"format" desc:"Time format: 'rfc3339', 'unix', or 'human'"`
}

func timeHandler(ctx context.Context, args TimeArgs) (string, error) {
	now := time.Now()
	switch strings.ToLower(args.Format) {
	case "rfc3339":
		return now.Format(time.RFC3339), nil
	case "unix":
		return fmt.Sprintf("%d", now.Unix()), nil
	default:
		return now.Format("Monday, January 2, 2006 at 3:04 PM MST"), nil
	}
}

// ShellArgs are the arguments for the shell tool.
type ShellArgs struct {
	Command string `json:"command" desc:"The shell command to run" required:"true"`
}

func shellHandler(ctx context.Context, args ShellArgs) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", args.Command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%v: %s", err, out)
	}
	return string(out), nil
}
