package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docunet-ai/docunet/backend/internal/config"
	"github.com/docunet-ai/docunet/backend/internal/queue"
	"github.com/docunet-ai/docunet/backend/internal/storage"
	"github.com/docunet-ai/docunet/backend/internal/util"
	"github.com/docunet-ai/docunet/backend/pkg/chunk"
	"github.com/docunet-ai/docunet/backend/pkg/graphdb"
	"github.com/docunet-ai/docunet/backend/pkg/loader"
	"github.com/docunet-ai/docunet/backend/pkg/loader/file"
	ioloader "github.com/docunet-ai/docunet/backend/pkg/loader/io"
	"github.com/docunet-ai/docunet/backend/pkg/loader/web"
	"github.com/docunet-ai/docunet/backend/pkg/loader/wikipedia"
	"github.com/docunet-ai/docunet/backend/pkg/loader/youtube"
	"github.com/docunet-ai/docunet/backend/pkg/logger"
	"github.com/docunet-ai/docunet/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{})
		logger.Init(consoleLogger)
		logger.Fatal("Invalid configuration", "err", err)
	}

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := loader.NewRegistry()
	registry.Register(loader.SourceTypeLocal, file.NewPageLoader(ioloader.NewFileFetcher()))
	registry.Register(loader.SourceTypeWeb, web.NewPageLoader(nil))
	registry.Register(loader.SourceTypeWikipedia, wikipedia.NewPageLoader(wikipedia.NewPageLoaderParams{
		Language: cfg.Loader.WikipediaLanguage,
	}))
	registry.Register(loader.SourceTypeYouTube, youtube.NewPageLoader(youtube.NewPageLoaderParams{
		Language: cfg.Loader.TranscriptLanguage,
	}))

	if cfg.S3.Bucket != "" {
		s3Client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		registry.Register(loader.SourceTypeS3, file.NewPageLoader(storage.NewS3Fetcher(s3Client, cfg.S3.Bucket)))
	}

	var resolver chunk.DurationResolver
	if cfg.Loader.YouTubeAPIKey != "" {
		resolver, err = youtube.NewDurationResolver(youtube.NewDurationResolverParams{
			APIKey: cfg.Loader.YouTubeAPIKey,
		})
		if err != nil {
			logger.Fatal("Failed to create duration resolver", "err", err)
		}
	}

	builder, err := chunk.NewBuilder(chunk.NewBuilderParams{
		Resolver:          resolver,
		TokenChunkSize:    cfg.Chunking.TokenChunkSize,
		ChunkOverlap:      cfg.Chunking.ChunkOverlap,
		MaxTokenChunkSize: cfg.Chunking.MaxTokenChunkSize,
	})
	if err != nil {
		logger.Fatal("Failed to create chunk builder", "err", err)
	}

	graph, err := graphdb.NewClient(graphdb.NewClientParams{
		Neo4j:           cfg.Neo4j,
		GraphChunkLimit: cfg.Query.GraphChunkLimit,
		ChunkPageSize:   cfg.Query.ChunkTextPageSize,
	})
	if err != nil {
		logger.Fatal("Failed to create graph client", "err", err)
	}

	processor, err := queue.NewIngestProcessor(queue.NewIngestProcessorParams{
		Registry: registry,
		Builder:  builder,
		Graph:    graph,
	})
	if err != nil {
		logger.Fatal("Failed to create ingest processor", "err", err)
	}

	conn, err := queue.Init(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	// One unacked message at a time keeps ingestion strictly sequential.
	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.IngestQueue,
		"ingest_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.IngestQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.IngestQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed")
					return
				}

				startTime := time.Now()
				logger.Info("Received message", "queue", queue.IngestQueue)

				if err := processor.ProcessIngestMessage(ctx, string(msg.Body)); err != nil {
					logger.Error("Error processing message", "queue", queue.IngestQueue, "err", err)
					queue.HandleProcessingError(consumerCh, msg, queue.IngestQueue)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", queue.IngestQueue)
				}

				logger.Info(
					"Processing time",
					"duration", time.Since(startTime).Round(time.Millisecond).String(),
				)
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}
