package main

import (
	"log/slog"
	"os"

	"github.com/dmforge/dmforge/internal/config"
	"github.com/dmforge/dmforge/internal/errors"
	"github.com/dmforge/dmforge/internal/llm"
	"github.com/dmforge/dmforge/internal/orchestrators/dungeonmaster"
	redisclient "github.com/dmforge/dmforge/internal/redis"
	"github.com/dmforge/dmforge/internal/repositories/gamestore"
	"github.com/dmforge/dmforge/internal/repositories/playerdata"
)

// deps holds the wired application stack
type deps struct {
	cfg        *config.Config
	playerData playerdata.Repository
	gameStore  gamestore.Repository
	service    dungeonmaster.Service
}

// buildDeps loads config and wires repositories, the model client, and the
// orchestrator. The game store is Redis-backed when DM_REDIS_ADDR is set,
// in-memory otherwise.
func buildDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})))

	playerData, err := playerdata.NewFile(&playerdata.FileConfig{Dir: cfg.PlayerDataDir})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open player data directory")
	}

	var store gamestore.Repository
	if cfg.RedisAddr != "" {
		client, err := redisclient.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis")
		}
		store, err = gamestore.NewRedis(&gamestore.RedisConfig{Client: client})
		if err != nil {
			return nil, err
		}
		slog.Info("using redis game store", "addr", cfg.RedisAddr)
	} else {
		store = gamestore.NewMemory(nil)
		slog.Info("using in-memory game store; world data lasts for this session only")
	}

	client, err := llm.NewOpenAI(&llm.OpenAIConfig{
		APIKey:  cfg.OpenRouterAPIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	service, err := dungeonmaster.NewOrchestrator(&dungeonmaster.Config{
		PlayerData:         playerData,
		GameStore:          store,
		LLM:                client,
		Temperature:        cfg.Temperature,
		MaxTokens:          cfg.MaxTokens,
		ConversationWindow: cfg.ConversationWindow,
	})
	if err != nil {
		return nil, err
	}

	return &deps{
		cfg:        cfg,
		playerData: playerData,
		gameStore:  store,
		service:    service,
	}, nil
}
