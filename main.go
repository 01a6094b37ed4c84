package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omkar2711/mediaConnect-b7/database"
	"github.com/omkar2711/mediaConnect-b7/helpers"
	"github.com/omkar2711/mediaConnect-b7/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	config := helpers.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init database
	var store database.Store
	if config.Store == "graph" {
		graph, err := database.NewGraph(ctx, config.GraphURL, config.GraphUsername, config.GraphPassword)
		if err != nil {
			log.Fatalf("Cannot connect to graph database: %v", err)
		}
		store = graph
	} else {
		log.Println("Using in-memory store, data is lost on restart")
		store = database.NewMemory()
	}

	rt := &router.Router{
		Store: store,
		Tokens: &helpers.Tokens{
			Secret: config.JWTSecret,
			Issuer: config.JWTIssuer,
			TTL:    config.TokenTTL,
		},
		Timeout:         config.RequestTimeout,
		SuggestionLimit: config.SuggestionLimit,
		TrustProxy:      config.TrustProxy,
	}

	if config.MemURL != "" {
		rt.Cache = database.NewMemCache(config.MemURL)
	}

	if config.NatsURL != "" {
		if connection := helpers.InitNATS(config.NatsURL); connection != nil {
			rt.Publisher = connection
			defer connection.Close()
		}
	}

	if config.RedisURL != "" {
		limiter, err := helpers.NewRedisLimiter(config.RedisURL, config.AuthRateLimit, time.Minute)
		if err != nil {
			log.Printf("Rate limiting disabled, cannot connect to Redis: %v", err)
		} else {
			rt.Limiter = limiter
			defer limiter.Close()
		}
	}

	// Repair follower counts drifting from the edges
	c := cron.New()
	c.AddFunc("@hourly", func() {
		repaired, err := store.RecountFollows(context.Background())
		if err != nil {
			log.Printf("(RecountFollows) %v", err)
			return
		}
		if repaired > 0 {
			log.Printf("Recounted follows of %d users", repaired)
		}
	})
	c.Start()
	defer c.Stop()

	// Create routes
	mux := http.NewServeMux()
	mux.Handle("/", rt.Handler())
	mux.Handle("GET /metrics", promhttp.HandlerFor(helpers.GetRegistery(), promhttp.HandlerOpts{}))

	handler := helpers.Metrics(mux)
	if config.ZipkinAddress != "" {
		tracing, err := helpers.InitTracer(config.ZipkinAddress, config.Port)
		if err != nil {
			log.Printf("Tracing disabled: %v", err)
		} else {
			handler = tracing.Middleware(handler)
			defer tracing.Reporter.Close()
		}
	}

	// Create web server
	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Println("Server is starting on port", config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdown); err != nil {
		log.Printf("(Shutdown) %v", err)
	}
	if err := store.Close(shutdown); err != nil {
		log.Printf("(Close) %v", err)
	}
}
