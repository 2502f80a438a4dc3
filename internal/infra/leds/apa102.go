// Package leds drives the three APA102 LEDs on a ReSpeaker 2-Mics HAT over SPI.
package leds

import (
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"voice-servo/internal/domain"
)

// Full global brightness: 3 marker bits plus 5 brightness bits.
const brightness = 0xE0 | 0x1F

var (
	startFrame = []byte{0x00, 0x00, 0x00, 0x00}
	endFrame   = []byte{0xFF, 0xFF, 0xFF, 0xFF}
)

type Config struct {
	Enabled bool
	Port    string
	SpeedHz int64
	Count   int
}

type Driver struct {
	conn   conn.Conn
	closer io.Closer
	count  int
	logger *slog.Logger
}

// Open connects to the SPI port in cfg. When the port cannot be opened the
// returned driver is a no-op and the failure is only logged.
func Open(cfg Config, logger *slog.Logger) *Driver {
	d := NewDriver(nil, cfg.Count, logger)

	if !cfg.Enabled {
		logger.Info("indicator LEDs disabled")
		return d
	}

	c, port, err := openSPI(cfg)
	if err != nil {
		logger.Warn("LED initialization failed, continuing without indicator", "error", err)
		return d
	}

	d.conn = c
	d.closer = port
	logger.Info("LEDs initialized", "port", cfg.Port, "speedHz", cfg.SpeedHz, "count", cfg.Count)
	return d
}

func openSPI(cfg Config) (conn.Conn, io.Closer, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("%w: initializing host: %w", domain.ErrHardwareInit, err)
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: opening %s: %w", domain.ErrHardwareInit, cfg.Port, err)
	}

	c, err := port.Connect(physic.Frequency(cfg.SpeedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, nil, fmt.Errorf("%w: connecting %s: %w", domain.ErrHardwareInit, cfg.Port, err)
	}

	return c, port, nil
}

// NewDriver wraps an already connected bus. A nil conn yields a no-op driver.
func NewDriver(c conn.Conn, count int, logger *slog.Logger) *Driver {
	return &Driver{conn: c, count: count, logger: logger}
}

func (d *Driver) Available() bool {
	return d.conn != nil
}

// SetAll writes one start frame, one frame per LED and one end frame, each as
// its own transaction.
func (d *Driver) SetAll(r, g, b uint8) error {
	if d.conn == nil {
		return nil
	}

	if err := d.conn.Tx(startFrame, nil); err != nil {
		return fmt.Errorf("writing start frame: %w", err)
	}

	for i := 0; i < d.count; i++ {
		if err := d.conn.Tx([]byte{brightness, b, g, r}, nil); err != nil {
			return fmt.Errorf("writing led %d: %w", i, err)
		}
	}

	if err := d.conn.Tx(endFrame, nil); err != nil {
		return fmt.Errorf("writing end frame: %w", err)
	}

	return nil
}

func (d *Driver) Off() error {
	return d.SetAll(0, 0, 0)
}

// Show sets every LED to the color of state. Bus errors are logged, not returned.
func (d *Driver) Show(state domain.IndicatorState) {
	c := state.Color()
	if err := d.SetAll(c.R, c.G, c.B); err != nil {
		d.logger.Warn("LED error", "state", state, "error", err)
	}
}

func (d *Driver) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.conn = nil
	d.closer = nil
	return err
}
