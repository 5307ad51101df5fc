package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Anirudh7090/collaborative-drawing-app-new/config"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/auth"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/handlers"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/hub"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/middleware"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/signaling"
	"github.com/Anirudh7090/collaborative-drawing-app-new/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer st.Close()
	log.Info().Msg("Redis connection established")

	verifier := auth.NewVerifier(cfg.JWTSecret)
	roomDir := hub.NewDirectory()
	signalDir := signaling.NewDirectory()

	ws := handlers.New(verifier, roomDir, signalDir, st, cfg.ReadLimit, cfg.PingPeriod)
	rooms := handlers.NewRoomsHandler(st)

	router := gin.Default()
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/rooms", middleware.JWTAuth(verifier), rooms.CreateRoom)
		apiGroup.GET("/rooms/:roomID", rooms.GetRoom)
		apiGroup.DELETE("/rooms/:roomID", middleware.JWTAuth(verifier), rooms.DeleteRoom)
	}

	// Both realtime channels authenticate with a token query parameter.
	router.GET("/ws/:roomID", ws.HandleDrawing)
	router.GET("/webrtc/:roomID", ws.HandleSignaling)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("collaborative drawing server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
