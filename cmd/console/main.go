package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/valmeida/aetria/internal/app"
	"github.com/valmeida/aetria/internal/config"
	"github.com/valmeida/aetria/internal/logger"
	"github.com/valmeida/aetria/internal/persist"
	"github.com/valmeida/aetria/internal/services"
	"github.com/valmeida/aetria/internal/turn"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Stdout belongs to the terminal UI; logs go to a file next to the
	// save.
	logPath := filepath.Join(filepath.Dir(cfg.SavePath), "aetria.log")
	_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close()
	}()
	log := logger.Setup(cfg, logFile)

	llm := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, log)
	var image services.ImageService
	if cfg.ImageModel != "" {
		image = services.NewGeminiImageService(cfg.GeminiAPIKey, cfg.ImageModel, log)
	}
	exec := turn.NewExecutor(llm, image, log)

	var store persist.SaveStore
	if cfg.RedisAddr != "" {
		store = persist.NewRedisStore(cfg.RedisAddr, log)
	} else {
		store = persist.NewFileStore(cfg.SavePath, log)
	}
	defer func() {
		_ = store.Close()
	}()

	ctrl := app.NewController(exec, store, log)

	p := tea.NewProgram(NewConsoleUI(ctrl),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
