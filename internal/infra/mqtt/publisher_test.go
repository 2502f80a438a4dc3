package mqtt_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"voice-servo/internal/domain"
	"voice-servo/internal/infra/mqtt"
)

var testConfig = mqtt.Config{
	Host:      "10.136.186.56",
	Port:      1883,
	ClientID:  "voice-servo",
	KeepAlive: 60 * time.Second,
	Timeout:   time.Second,
}

func TestPublisher_Publish(t *testing.T) {
	factory := &fakeFactory{}
	publisher := mqtt.NewPublisherWithFactory(testConfig, "servo/control", factory.build, discardLogger())

	if err := publisher.Publish(context.Background(), domain.Command90Right); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if len(factory.clients) != 1 {
		t.Fatalf("clients: got %d, want 1", len(factory.clients))
	}
	client := factory.clients[0]

	if got := client.opts.Servers[0].String(); got != "tcp://10.136.186.56:1883" {
		t.Errorf("broker: got %s", got)
	}
	if !strings.HasPrefix(client.opts.ClientID, "voice-servo-") {
		t.Errorf("client id: got %s", client.opts.ClientID)
	}
	if len(client.published) != 1 {
		t.Fatalf("published: got %d, want 1", len(client.published))
	}
	msg := client.published[0]
	if msg.topic != "servo/control" || msg.payload != "90_right" || msg.qos != 0 {
		t.Errorf("published: got %+v", msg)
	}
	if client.disconnects != 1 {
		t.Errorf("disconnects: got %d, want 1", client.disconnects)
	}
}

func TestPublisher_ConnectionPerPublish(t *testing.T) {
	factory := &fakeFactory{}
	publisher := mqtt.NewPublisherWithFactory(testConfig, "servo/control", factory.build, discardLogger())

	for _, cmd := range []domain.Command{domain.CommandOpen, domain.CommandClose} {
		if err := publisher.Publish(context.Background(), cmd); err != nil {
			t.Fatalf("Publish %s: %v", cmd, err)
		}
	}

	if len(factory.clients) != 2 {
		t.Fatalf("clients: got %d, want 2", len(factory.clients))
	}
	for i, c := range factory.clients {
		if c.connected {
			t.Errorf("client %d left connected", i)
		}
	}
}

func TestPublisher_ConnectError(t *testing.T) {
	factory := &fakeFactory{next: func() *fakeClient { return &fakeClient{connectErr: errRefused} }}
	publisher := mqtt.NewPublisherWithFactory(testConfig, "servo/control", factory.build, discardLogger())

	err := publisher.Publish(context.Background(), domain.CommandOpen)
	if !errors.Is(err, errRefused) {
		t.Fatalf("got %v, want connection refused", err)
	}
	if len(factory.clients[0].published) != 0 {
		t.Error("published despite connect failure")
	}
}

func TestPublisher_PublishError(t *testing.T) {
	factory := &fakeFactory{next: func() *fakeClient { return &fakeClient{publishErr: errors.New("not authorized")} }}
	publisher := mqtt.NewPublisherWithFactory(testConfig, "servo/control", factory.build, discardLogger())

	if err := publisher.Publish(context.Background(), domain.CommandDance); err == nil {
		t.Fatal("expected publish error")
	}
	if factory.clients[0].disconnects != 1 {
		t.Error("client not disconnected after publish failure")
	}
}
