package mqtt_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err     error
	pending bool
}

func (t *fakeToken) Wait() bool                     { return !t.pending }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.pending }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.pending {
		close(ch)
	}
	return ch
}

type published struct {
	topic   string
	qos     byte
	payload string
}

type fakeMessage struct {
	paho.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

// fakeClient records calls; methods not overridden panic via the nil embed.
type fakeClient struct {
	paho.Client

	mu           sync.Mutex
	opts         *paho.ClientOptions
	connectErr   error
	publishErr   error
	connected    bool
	disconnects  int
	published    []published
	subscribed   []string
	unsubscribed []string
	callback     paho.MessageHandler
	onSubscribe  func()
}

func (c *fakeClient) Connect() paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connectErr == nil {
		c.connected = true
	}
	return &fakeToken{err: c.connectErr}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.disconnects++
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.publishErr != nil {
		return &fakeToken{err: c.publishErr}
	}
	c.published = append(c.published, published{topic: topic, qos: qos, payload: payload.(string)})
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback paho.MessageHandler) paho.Token {
	c.mu.Lock()
	c.subscribed = append(c.subscribed, topic)
	c.callback = callback
	hook := c.onSubscribe
	c.mu.Unlock()
	if hook != nil {
		go hook()
	}
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribed = append(c.unsubscribed, topics...)
	return &fakeToken{}
}

func (c *fakeClient) deliver(topic, payload string) {
	c.mu.Lock()
	cb := c.callback
	c.mu.Unlock()
	cb(c, &fakeMessage{topic: topic, payload: []byte(payload)})
}

type fakeFactory struct {
	clients []*fakeClient
	next    func() *fakeClient
}

func (f *fakeFactory) build(opts *paho.ClientOptions) paho.Client {
	c := &fakeClient{}
	if f.next != nil {
		c = f.next()
	}
	c.opts = opts
	f.clients = append(f.clients, c)
	return c
}

var errRefused = errors.New("connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
