package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"voice-servo/config"
	"voice-servo/internal/application"
	"voice-servo/internal/infra/audio"
	"voice-servo/internal/infra/leds"
	"voice-servo/internal/infra/metrics"
	"voice-servo/internal/infra/mqtt"
	"voice-servo/internal/infra/openai"
	"voice-servo/internal/infra/whisper"
	"voice-servo/internal/logging"
)

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "path to config file")
	envFile := flag.StringP("env", "e", ".env", "env file loaded before the config")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("loading env file", "path", *envFile, "error", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	indicator := leds.Open(leds.Config{
		Enabled: *cfg.LEDs.Enabled,
		Port:    cfg.LEDs.Port,
		SpeedHz: cfg.LEDs.SpeedHz,
		Count:   cfg.LEDs.Count,
	}, logger)
	defer indicator.Close()

	stt, closeSTT := createTranscriber(cfg.Transcription, logger)
	defer closeSTT()

	publisher := mqtt.NewPublisher(mqttConfig(cfg.MQTT), cfg.MQTT.Topic, logger)

	var recorder application.Metrics = &application.NoopMetrics{}
	if cfg.Metrics.Addr != "" {
		prom := metrics.NewPrometheus()
		prom.Serve(ctx, cfg.Metrics.Addr, logger)
		recorder = prom
	}

	assistant := application.NewAssistant(
		createAudioSource(cfg.Audio, logger),
		stt,
		publisher,
		indicator,
		recorder,
		logger,
		application.Options{
			ErrorPause:   config.Duration(cfg.Loop.ErrorPause),
			StartupPulse: config.Duration(cfg.Loop.StartupPulse),
		},
	)

	logger.Info("starting voice servo control",
		"audio_source", cfg.Audio.Source,
		"transcription", cfg.Transcription.Backend,
		"broker", cfg.MQTT.Host,
		"topic", cfg.MQTT.Topic,
		"leds", indicator.Available(),
	)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("assistant error", "error", err)
		os.Exit(1)
	}
}

func createAudioSource(cfg config.AudioConfig, logger *slog.Logger) application.AudioSource {
	settings := audio.CaptureSettings{
		Calibration:   config.Duration(cfg.Calibration),
		ListenTimeout: config.Duration(cfg.ListenTimeout),
		Pause:         config.Duration(cfg.Pause),
		PhraseLimit:   config.Duration(cfg.PhraseLimit),
		EnergyFloor:   cfg.EnergyFloor,
		EnergyRatio:   cfg.EnergyRatio,
	}

	switch cfg.Source {
	case "http":
		source := audio.NewHTTPSource(cfg.HTTPAddr, cfg.AuthToken, settings.ListenTimeout, logger)
		if err := source.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Error("ignoring trusted proxies", "error", err)
		}
		return source
	case "file":
		return audio.NewFileSource(afero.NewOsFs(), cfg.FileDir, settings.ListenTimeout)
	default:
		return audio.NewMicrophoneSource(cfg.SampleRate, settings, logger)
	}
}

func createTranscriber(cfg config.TranscriptionConfig, logger *slog.Logger) (application.SpeechToText, func()) {
	switch cfg.Backend {
	case "whisper":
		local, err := whisper.NewLocalTranscriber(cfg.ModelPath, cfg.Language, cfg.Threads)
		if err != nil {
			logger.Error("local whisper unavailable", "error", err)
			return &application.NoopSTT{}, func() {}
		}
		return local, func() { local.Close() }
	default:
		if cfg.APIKey == "" {
			logger.Warn("transcription.api_key is empty, every utterance will fail")
		}
		return openai.NewWhisperClient(cfg.APIKey, cfg.Language, *cfg.MaxRetries), func() {}
	}
}

func mqttConfig(cfg config.MQTTConfig) mqtt.Config {
	return mqtt.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		ClientID:  cfg.ClientID,
		KeepAlive: config.Duration(cfg.KeepAlive),
		Timeout:   config.Duration(cfg.Timeout),
	}
}
