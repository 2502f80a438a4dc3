package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Audio         AudioConfig         `yaml:"audio"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	LEDs          LEDConfig           `yaml:"leds"`
	Loop          LoopConfig          `yaml:"loop"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Log           LogConfig           `yaml:"log"`
}

type AudioConfig struct {
	Source         string   `yaml:"source"`
	FileDir        string   `yaml:"file_dir"`
	HTTPAddr       string   `yaml:"http_addr"`
	AuthToken      string   `yaml:"auth_token"`
	TrustedProxies []string `yaml:"trusted_proxies"`
	SampleRate     int      `yaml:"sample_rate"`
	Calibration    string   `yaml:"calibration"`
	ListenTimeout  string   `yaml:"listen_timeout"`
	Pause          string   `yaml:"pause"`
	PhraseLimit    string   `yaml:"phrase_limit"`
	EnergyFloor    float64  `yaml:"energy_floor"`
	EnergyRatio    float64  `yaml:"energy_ratio"`
}

type TranscriptionConfig struct {
	Backend    string `yaml:"backend"`
	APIKey     string `yaml:"api_key"`
	Language   string `yaml:"language"`
	MaxRetries *int   `yaml:"max_retries"`
	ModelPath  string `yaml:"model_path"`
	Threads    int    `yaml:"threads"`
}

type MQTTConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Topic        string `yaml:"topic"`
	ClientID     string `yaml:"client_id"`
	KeepAlive    string `yaml:"keep_alive"`
	Timeout      string `yaml:"timeout"`
	MonitorTopic string `yaml:"monitor_topic"`
	MonitorHost  string `yaml:"monitor_host"`
}

type LEDConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Port    string `yaml:"port"`
	SpeedHz int64  `yaml:"speed_hz"`
	Count   int    `yaml:"count"`
}

type LoopConfig struct {
	ErrorPause   string `yaml:"error_pause"`
	StartupPulse string `yaml:"startup_pulse"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads path, expanding ${VAR} references from the environment. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Audio.Source == "" {
		c.Audio.Source = "microphone"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.HTTPAddr == "" {
		c.Audio.HTTPAddr = ":8080"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Calibration == "" {
		c.Audio.Calibration = "300ms"
	}
	if c.Audio.ListenTimeout == "" {
		c.Audio.ListenTimeout = "5s"
	}
	if c.Audio.Pause == "" {
		c.Audio.Pause = "800ms"
	}
	if c.Audio.PhraseLimit == "" {
		c.Audio.PhraseLimit = "4s"
	}
	if c.Audio.EnergyFloor == 0 {
		c.Audio.EnergyFloor = 300
	}
	if c.Audio.EnergyRatio == 0 {
		c.Audio.EnergyRatio = 1.5
	}
	if c.Transcription.Backend == "" {
		c.Transcription.Backend = "openai"
	}
	if c.Transcription.Language == "" {
		c.Transcription.Language = "en"
	}
	if c.Transcription.MaxRetries == nil {
		retries := 2
		c.Transcription.MaxRetries = &retries
	}
	if c.MQTT.Host == "" {
		c.MQTT.Host = "10.136.186.56"
	}
	if c.MQTT.Port == 0 {
		c.MQTT.Port = 1883
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "servo/control"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "voice-servo"
	}
	if c.MQTT.KeepAlive == "" {
		c.MQTT.KeepAlive = "60s"
	}
	if c.MQTT.Timeout == "" {
		c.MQTT.Timeout = "5s"
	}
	if c.MQTT.MonitorTopic == "" {
		c.MQTT.MonitorTopic = "esp32/#"
	}
	if c.MQTT.MonitorHost == "" {
		c.MQTT.MonitorHost = "localhost"
	}
	if c.LEDs.Enabled == nil {
		enabled := true
		c.LEDs.Enabled = &enabled
	}
	if c.LEDs.Port == "" {
		c.LEDs.Port = "SPI0.0"
	}
	if c.LEDs.SpeedHz == 0 {
		c.LEDs.SpeedHz = 8_000_000
	}
	if c.LEDs.Count == 0 {
		c.LEDs.Count = 3
	}
	if c.Loop.ErrorPause == "" {
		c.Loop.ErrorPause = "500ms"
	}
	if c.Loop.StartupPulse == "" {
		c.Loop.StartupPulse = "500ms"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks that every duration parses and enumerations are known.
func (c *Config) Validate() error {
	durations := map[string]string{
		"audio.calibration":    c.Audio.Calibration,
		"audio.listen_timeout": c.Audio.ListenTimeout,
		"audio.pause":          c.Audio.Pause,
		"audio.phrase_limit":   c.Audio.PhraseLimit,
		"mqtt.keep_alive":      c.MQTT.KeepAlive,
		"mqtt.timeout":         c.MQTT.Timeout,
		"loop.error_pause":     c.Loop.ErrorPause,
		"loop.startup_pulse":   c.Loop.StartupPulse,
	}
	var errs []error
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	switch c.Audio.Source {
	case "microphone", "file", "http":
	default:
		errs = append(errs, fmt.Errorf("audio.source: unknown source %q", c.Audio.Source))
	}
	for _, cidr := range c.Audio.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Errorf("audio.trusted_proxies: %w", err))
		}
	}

	switch c.Transcription.Backend {
	case "openai", "whisper":
	default:
		errs = append(errs, fmt.Errorf("transcription.backend: unknown backend %q", c.Transcription.Backend))
	}

	if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
		errs = append(errs, fmt.Errorf("mqtt.port: %d out of range", c.MQTT.Port))
	}
	if c.LEDs.Count < 0 {
		errs = append(errs, fmt.Errorf("leds.count: %d is negative", c.LEDs.Count))
	}

	return errors.Join(errs...)
}

// Duration returns the parsed value of a field already checked by Validate.
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
