package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/cms/internal/ai"
	"github.com/emrgen/cms/internal/cache"
	"github.com/emrgen/cms/internal/compress"
	"github.com/emrgen/cms/internal/config"
	"github.com/emrgen/cms/internal/jobs"
	"github.com/emrgen/cms/internal/queue"
	"github.com/emrgen/cms/internal/service"
	"github.com/emrgen/cms/internal/store"
	"github.com/emrgen/cms/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/gobuffalo/packr"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the server
type Server struct {
	cfg *config.Config
}

// NewServer creates a new server
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start starts the server and blocks until it is interrupted.
func (s *Server) Start() {
	if err := Start(s.cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start builds every dependency from cfg, serves the HTTP API and shuts down gracefully on
// SIGINT or SIGTERM.
func Start(cfg *config.Config) (err error) {
	if err = cfg.Validate(); err != nil {
		return err
	}
	cfg.ConfigureLogging()

	// everything opened so far is released if a later step fails
	var opened closers
	defer func() {
		if err != nil {
			opened.close()
		}
	}()

	rdb := config.GetDb(cfg)
	contentStore := store.NewGormStore(rdb)
	if err = contentStore.Migrate(); err != nil {
		return err
	}

	compressor, err := compress.New(cfg.Cache.Compression)
	if err != nil {
		return err
	}

	var publicCache cache.PublicCache = cache.NewNop()
	if cfg.Redis.Addr != "" {
		redis, err := cache.NewRedis(context.Background(), cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		}, compressor)
		if err != nil {
			return err
		}
		publicCache = redis
		opened.add(func() {
			if err := redis.Close(); err != nil {
				logrus.Errorf("error closing cache: %v", err)
			}
		})
		logrus.Infof("public cache: redis at %s (%s)", cfg.Redis.Addr, cfg.Cache.Compression)
	} else {
		logrus.Info("public cache disabled")
	}

	var events queue.ContentEvents = queue.NewNop()
	if cfg.Kafka.Brokers != "" {
		kafka, err := queue.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		events = kafka
		opened.add(kafka.Close)
		logrus.Infof("content events: kafka topic %s", cfg.Kafka.Topic)
	}

	var model ai.Model
	if cfg.AI.APIKey != "" {
		model = ai.NewAnthropic(ai.AnthropicOptions{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
	} else {
		logrus.Warn("ai generation disabled: no api key configured")
	}
	gateway := ai.NewGateway(model, cfg.AI.MaxTokens)

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	contentService := service.NewContentService(contentStore, publicCache, events)
	authService := service.NewAuthService(contentStore, tokens)

	var cronJobs []jobs.CronJob
	if cfg.Jobs.CacheWarm != "" {
		cronJobs = append(cronJobs, jobs.NewCacheWarmTask(cfg.Jobs.CacheWarm, contentStore, contentService))
	}
	if cfg.Jobs.RevisionPrune != "" {
		cronJobs = append(cronJobs, jobs.NewRevisionPruneTask(cfg.Jobs.RevisionPrune, cfg.Jobs.RevisionKeep, contentStore))
	}
	executor := jobs.NewTaskExecutor(cronJobs)
	if err = executor.Run(); err != nil {
		return err
	}
	opened.add(executor.Stop)

	gin.SetMode(gin.ReleaseMode)
	openapiDocs := packr.NewBox("../../docs/v1")
	router := NewRouter(NewHandler(contentService, authService, gateway, tokens), openapiDocs)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpPort := ":" + cfg.Server.HTTPPort
	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	restServer := &http.Server{
		Addr:              httpPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting http server on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: http://localhost", httpPort, docsPath)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting http server: %v", err)
			}
		}
		logrus.Infof("http server stopped")
	}()

	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := restServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error stopping http server: %v", err)
	}

	opened.close()
	wg.Wait()

	return nil
}

// closers releases startup resources in the reverse order they were opened.
type closers []func()

func (c *closers) add(f func()) {
	*c = append(*c, f)
}

func (c closers) close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}
