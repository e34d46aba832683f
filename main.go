package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "mahindaexpress/internal/config"
	router "mahindaexpress/internal/http"
	"mahindaexpress/internal/http/handlers"
	"mahindaexpress/internal/metrics"
	"mahindaexpress/internal/mq"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	intconfig.ConnectRedis(env)
	defer intconfig.CloseRedis()

	metrics.Register()

	var events *mq.Publisher
	if env.AmqpURL != "" {
		p, err := mq.NewPublisher(env.AmqpURL)
		if err != nil {
			log.Printf("warning: event publisher disabled: %v", err)
		} else {
			events = p
			defer events.Close()
		}
	}

	handlers.SetJWTSecret(env.JWTSecret)
	handlers.Configure(handlers.Deps{
		Events:        events,
		HoldTTL:       env.HoldTTL,
		UploadDir:     env.UploadDir,
		GatewayURL:    env.PaymentGatewayURL,
		GatewayKey:    env.PaymentGatewayKey,
		WebhookSecret: env.PaymentWebhookSecret,
	})

	r := router.NewRouter(env)
	handlers.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
