package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lehakot-create/LCT2023-13Case-Dash/config"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/kafka"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/usage"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARNING: load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("kafka brokers are not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ApplyTopic)
	defer consumer.Close()

	aggregator := usage.NewAggregator(5)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			if event, ok := kafka.DecodeApplyEvent(msg); ok {
				aggregator.Add(event)
			}
			return nil
		}); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	reportTicker := time.NewTicker(time.Minute)
	defer reportTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-reportTicker.C:
			log.Printf("usage: %s", aggregator.Snapshot())
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			log.Printf("usage: %s", aggregator.Snapshot())
			return
		}
	}
}
