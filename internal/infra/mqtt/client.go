// Package mqtt publishes servo commands and watches device topics over MQTT.
package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type Config struct {
	Host      string
	Port      int
	ClientID  string
	KeepAlive time.Duration
	Timeout   time.Duration
}

// ClientFactory builds an unconnected client from options.
type ClientFactory func(opts *paho.ClientOptions) paho.Client

func (c Config) brokerURL() string {
	return fmt.Sprintf("tcp://%s:%d", c.Host, c.Port)
}

func (c Config) options(suffix string) *paho.ClientOptions {
	clientID := c.ClientID
	if suffix != "" {
		clientID = fmt.Sprintf("%s-%s", clientID, suffix)
	}
	return paho.NewClientOptions().
		AddBroker(c.brokerURL()).
		SetClientID(clientID).
		SetKeepAlive(c.KeepAlive).
		SetConnectTimeout(c.Timeout).
		SetAutoReconnect(false)
}

// wait blocks until token completes or timeout elapses.
func wait(token paho.Token, timeout time.Duration, op string) error {
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("%s: timed out after %s", op, timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
