package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/glyphtide/glyphtide-backend/internal/config"
	"github.com/glyphtide/glyphtide-backend/internal/entity"
	"github.com/glyphtide/glyphtide-backend/internal/glyphtide"
	"github.com/glyphtide/glyphtide-backend/internal/repository"
	"github.com/glyphtide/glyphtide-backend/internal/repository/storage"
	"github.com/glyphtide/glyphtide-backend/internal/room"
	"github.com/glyphtide/glyphtide-backend/internal/usecase"
	"github.com/glyphtide/glyphtide-backend/transport/rest"
	"github.com/glyphtide/glyphtide-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisClient, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	resultRepo := repository.NewResultRepository(redisClient)
	recorder := usecase.NewResultRecorder(logger, resultRepo)

	rules := rulesFromConfig(&conf.Game)
	settings := settingsFromConfig(&conf.Game)

	manager := room.NewManager(logger, rules, conf.Game.TickInterval())
	defer manager.Shutdown()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		resultsHandler := rest.NewResultsHandler(logger, recorder)
		if httpErr := rest.Start(ctx, conf.HTTPPort, resultsHandler); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run WebSocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, manager, recorder, settings)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func rulesFromConfig(game *config.Game) glyphtide.Rules {
	rules := glyphtide.DefaultRules()
	rules.SymbolsPerPlayer = game.SymbolsPerPlayer
	rules.CollisionDistance = game.CollisionDistance
	rules.SpawnClearance = game.SpawnClearance
	rules.PlayfieldWidth = game.PlayfieldWidth
	rules.SpawnY = game.SpawnY
	rules.TentacleSpeed = game.TentacleSpeed
	rules.MinConfidence = game.MinConfidence

	return rules
}

func settingsFromConfig(game *config.Game) entity.Settings {
	return entity.Settings{
		HealthMode:   game.HealthMode,
		SharedHearts: game.SharedHearts,
		PlayerHearts: game.PlayerHearts,
		MaxRounds:    game.MaxRounds,
	}
}
