package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"voice-servo/config"
	"voice-servo/internal/infra/mqtt"
	"voice-servo/internal/logging"
)

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "path to config file")
	envFile := flag.StringP("env", "e", ".env", "env file loaded before the config")
	topic := flag.StringP("topic", "t", "", "topic filter, overrides mqtt.monitor_topic")
	host := flag.StringP("host", "H", "", "broker host, overrides mqtt.monitor_host")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("loading env file", "path", *envFile, "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	filter := cfg.MQTT.MonitorTopic
	if *topic != "" {
		filter = *topic
	}
	broker := cfg.MQTT.MonitorHost
	if *host != "" {
		broker = *host
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	monitor := mqtt.NewMonitor(mqtt.Config{
		Host:      broker,
		Port:      cfg.MQTT.Port,
		ClientID:  cfg.MQTT.ClientID,
		KeepAlive: config.Duration(cfg.MQTT.KeepAlive),
		Timeout:   config.Duration(cfg.MQTT.Timeout),
	}, filter, logger)

	err = monitor.Run(ctx, func(topic string, payload []byte) {
		fmt.Printf("%s: %s\n", topic, payload)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("monitor error", "error", err)
		os.Exit(1)
	}
}
