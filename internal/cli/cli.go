// Package cli implements the todo terminal commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/client"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/tui"
	"github.com/fastygo/todo/pkg/logger"
)

// Env carries the process streams and an optional transport override.
type Env struct {
	Stdout     io.Writer
	Stderr     io.Writer
	HTTPClient *fasthttp.Client
}

type app struct {
	env    Env
	ctrl   *client.Controller
	logger *zap.Logger
}

// Run parses global flags, then dispatches to a subcommand.
func Run(ctx context.Context, args []string, env Env) error {
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}

	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printUsage(fs, env.Stderr) }
	configPath := fs.String("config", config.DefaultClientConfigPath(), "Path to the TOML client config")
	baseURL := fs.String("url", "", "API base URL (overrides the config file)")
	logLevel := fs.String("log-level", "warn", "Log level for diagnostics on stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}

	log, err := logger.New(logger.Config{Level: *logLevel, Encoding: "console", Output: env.Stderr})
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	defer log.Sync()

	repo := client.NewHTTPRepository(cfg.BaseURL,
		client.WithTimeout(cfg.Timeout),
		client.WithHTTPClient(env.HTTPClient),
	)
	a := &app{
		env:    env,
		ctrl:   client.NewController(repo, cfg.PageSize, log),
		logger: log,
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(fs, env.Stderr)
		return errors.New("missing command")
	}

	switch rest[0] {
	case "list", "ls":
		return a.list(ctx, rest[1:])
	case "add":
		return a.add(ctx, rest[1:])
	case "toggle":
		return a.toggle(ctx, rest[1:])
	case "rm", "delete":
		return a.remove(ctx, rest[1:])
	case "ui":
		return tui.Run(ctx, a.ctrl)
	case "help":
		printUsage(fs, env.Stdout)
		return nil
	default:
		printUsage(fs, env.Stderr)
		return fmt.Errorf("unknown command: %s", rest[0])
	}
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("todo list", flag.ContinueOnError)
	fs.SetOutput(a.env.Stderr)
	page := fs.Int("page", 1, "Page to show")
	search := fs.String("search", "", "Only show todos whose content contains this text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.ctrl.Get(ctx, client.GetParams{Page: *page})
	if err != nil {
		return errors.New(client.ErrorMessage(err))
	}

	todos := result.Todos
	if *search != "" {
		todos = client.FilterTodosByContent(todos, *search)
	}
	if len(todos) == 0 {
		fmt.Fprintln(a.env.Stdout, "no todos found")
	}
	for _, todo := range todos {
		fmt.Fprintln(a.env.Stdout, formatTodo(todo))
	}
	fmt.Fprintf(a.env.Stdout, "page %d/%d, %d total\n", max(*page, 1), result.Pages, result.Total)
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	content := strings.Join(args, " ")

	var err error
	a.ctrl.Create(ctx, client.CreateParams{
		Content: content,
		OnSuccess: func(todo domain.Todo) {
			fmt.Fprintln(a.env.Stdout, "added "+formatTodo(todo))
		},
		OnError: func(e error) { err = e },
	})
	if err != nil {
		return errors.New(client.ErrorMessage(err))
	}
	return nil
}

func (a *app) toggle(ctx context.Context, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}

	a.ctrl.ToggleDone(ctx, client.ToggleDoneParams{
		ID: id,
		OnSuccess: func(todo domain.Todo) {
			fmt.Fprintln(a.env.Stdout, formatTodo(todo))
		},
		OnError: func(e error) { err = e },
	})
	if err != nil {
		return errors.New(client.ErrorMessage(err))
	}
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}

	a.ctrl.DeleteByID(ctx, client.DeleteParams{
		ID:      id,
		OnError: func(e error) { err = e },
	})
	if err != nil {
		return errors.New(client.ErrorMessage(err))
	}
	fmt.Fprintln(a.env.Stdout, "deleted "+id)
	return nil
}

func singleID(args []string) (string, error) {
	if len(args) != 1 {
		return "", errors.New("expected exactly one todo id")
	}
	return args[0], nil
}

func formatTodo(todo domain.Todo) string {
	box := "[ ]"
	if todo.Done {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s  %s", box, todo.ID, todo.Content)
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: todo [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list [--page N] [--search text]  List todos, newest first")
	fmt.Fprintln(w, "  add <content>                    Create a todo")
	fmt.Fprintln(w, "  toggle <id>                      Flip the done flag")
	fmt.Fprintln(w, "  rm <id>                          Delete a todo")
	fmt.Fprintln(w, "  ui                               Open the terminal UI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
