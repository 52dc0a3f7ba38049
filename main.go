package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/samber/do"

	"visionary/api/generation_api"
	"visionary/generation_form"
	"visionary/gui/form"
	"visionary/inject"
	"visionary/log"
	"visionary/web"
)

// Parameters
var (
	apiHost   = flag.String("host", "", "Base URL of the image generation API")
	port      = flag.String("port", "", "Port the web form listens on. Default is 8080")
	tuiFlag   = flag.Bool("tui", false, "Run the form in the terminal instead of serving it")
	historyDB = flag.String("history", "", "SQLite file to keep a generation history in. History is off when empty")
	logFile   = flag.String("log", "", "File to log to in terminal mode. Default is visionary.log")
	sessions  = flag.Int("sessions", 0, "How many browser sessions keep a form. Default is 256")
)

// loadEnv fills in every flag left unset from the environment.
func loadEnv() {
	if *apiHost == "" {
		*apiHost = os.Getenv("API_HOST")
	}
	if *apiHost == "" {
		*apiHost = os.Getenv("VITE_API_URL")
	}

	if *port == "" {
		*port = os.Getenv("PORT")
	}
	if *port == "" {
		*port = "8080"
	}

	if !*tuiFlag {
		*tuiFlag = os.Getenv("TUI") == "true"
	}

	if *historyDB == "" {
		*historyDB = os.Getenv("HISTORY_DB")
	}

	if *logFile == "" {
		*logFile = os.Getenv("LOG_FILE")
	}
	if *logFile == "" {
		*logFile = "visionary.log"
	}

	if *sessions == 0 {
		*sessions, _ = strconv.Atoi(os.Getenv("SESSIONS"))
	}
}

func main() {
	flag.Parse()

	envErr := godotenv.Load()
	loadEnv()

	var out io.Writer = os.Stdout
	if *tuiFlag {
		f, err := tea.LogToFile(*logFile, "visionary")
		if err != nil {
			os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out)

	if envErr != nil {
		logger.Info("no .env file loaded", "error", envErr)
	}

	if *apiHost == "" {
		logger.Error("API host flag is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	injector := inject.Setup(ctx, inject.Settings{
		Host:      *apiHost,
		HistoryDB: *historyDB,
		Sessions:  *sessions,
	})

	api, err := do.Invoke[generation_api.GenerationAPI](injector)
	if err != nil {
		logger.Error("failed to create generation API", "error", err)
		os.Exit(1)
	}
	if !generation_api.CheckAPIAlive(ctx, api) {
		logger.Warn(generation_api.DeadAPI, "host", api.Host())
	}

	if *tuiFlag {
		err = runTUI(ctx, injector)
	} else {
		err = serve(ctx, injector)
	}

	if shutdownErr := injector.Shutdown(); shutdownErr != nil {
		logger.Warn("shutdown", "error", shutdownErr)
	}
	if err != nil {
		logger.Error("exiting", "error", err)
		os.Exit(1)
	}

	logger.Info("Gracefully shutting down.")
}

func runTUI(ctx context.Context, injector *do.Injector) error {
	controller, err := do.Invoke[*generation_form.Controller](injector)
	if err != nil {
		return err
	}
	return form.Run(ctx, controller)
}

func serve(ctx context.Context, injector *do.Injector) error {
	server, err := do.Invoke[*web.Server](injector)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown()
	}()

	return server.Listen(":" + *port)
}
