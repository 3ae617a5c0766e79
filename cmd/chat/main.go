// Command chat serves the persona chat endpoint over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/luinbytes/imgdedup/chat"
	"github.com/luinbytes/imgdedup/finder"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(finder.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		addr        string
		model       string
		personaFile string
	)

	cmd := &cobra.Command{
		Use:          "chat",
		Short:        "Serve the persona chat endpoint",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("error loading .env file: %w", err)
			}

			logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.TimeOnly,
				Prefix:          "chat",
			})

			persona, err := loadPersona(personaFile)
			if err != nil {
				return err
			}
			completer := newCompleter(logger, model)

			gin.SetMode(gin.ReleaseMode)
			router := chat.NewServer(persona, completer, logger).SetupRouter()
			return serve(cmd.Context(), addr, router, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", ":8080", "address to listen on")
	flags.StringVar(&model, "model", chat.DefaultModel, "chat model")
	flags.StringVar(&personaFile, "persona-file", "", "read the system prompt from this file instead of the built-in persona")
	return cmd
}

// newCompleter returns nil when no API key is configured. The server still
// starts and answers every chat with a configuration error.
func newCompleter(logger *log.Logger, model string) chat.Completer {
	completer, err := chat.NewOpenAICompleter(os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"), model)
	if err != nil {
		logger.Warn("chat requests will fail", "err", err)
		return nil
	}
	return completer
}

func loadPersona(path string) (string, error) {
	if path == "" {
		return chat.Ethan, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read persona: %w", err)
	}
	return string(data), nil
}

// serve runs handler on addr until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "route", chat.Route)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
