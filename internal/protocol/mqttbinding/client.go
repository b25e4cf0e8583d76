// Package mqttbinding provides the MQTT protocol client for Thing
// Description discovery. Target URIs name a broker and a topic:
//
//	mqtt://broker.local:1883/things/lamp
//
// The URI path (without its leading slash) is the topic; query
// parameters are ignored. Direct discovery subscribes, takes the
// first publication (Things keep their description as a retained
// message), and unsubscribes. Link-format discovery subscribes to the
// discovery topic and streams every publication until the context
// ends, which makes it the one true multi-responder flow: each
// responder publishes its own payload whenever it likes.
package mqttbinding

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wotscout/wotscout/internal/content"
	"github.com/wotscout/wotscout/internal/logging"
	"github.com/wotscout/wotscout/internal/protocol"
)

const (
	// DefaultConnectTimeout is the default broker connect timeout
	DefaultConnectTimeout = 10 * time.Second

	// qos for discovery subscriptions; retained descriptions arrive
	// regardless of the level
	qos byte = 0

	// disconnectQuiesce is how long Disconnect waits for in-flight
	// work, in milliseconds
	disconnectQuiesce = 250

	// unsubscribeWait bounds the wait for an unsubscribe ack
	unsubscribeWait = 5 * time.Second
)

// Client discovers Thing Descriptions over MQTT. Connections are kept
// per broker and shared by subscriptions against that broker.
type Client struct {
	// ConnectTimeout bounds the initial broker connection
	ConnectTimeout time.Duration

	mu      sync.Mutex
	clients map[string]paho.Client
}

// NewClient creates an MQTT discovery client with default settings
func NewClient() *Client {
	return &Client{
		ConnectTimeout: DefaultConnectTimeout,
		clients:        make(map[string]paho.Client),
	}
}

// Schemes returns the URI schemes this client serves
func (c *Client) Schemes() []string {
	return []string{"mqtt", "mqtts"}
}

// DiscoverDirectly subscribes to the target topic and delivers the
// first publication, then unsubscribes.
func (c *Client) DiscoverDirectly(ctx context.Context, target *url.URL, opts protocol.DirectOptions) (<-chan protocol.Delivery, error) {
	topic, err := topicOf(target)
	if err != nil {
		return nil, err
	}
	client, err := c.connection(brokerAddress(target))
	if err != nil {
		return nil, err
	}

	// Buffer one: only the first publication matters.
	msgs := make(chan paho.Message, 1)
	handler := func(_ paho.Client, m paho.Message) {
		select {
		case msgs <- m:
		default:
		}
	}

	if token := client.Subscribe(topic, qos, handler); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to subscribe to %q: %w", topic, token.Error())
	}

	out := make(chan protocol.Delivery, 1)
	go func() {
		defer close(out)
		defer c.unsubscribe(client, topic)

		select {
		case m := <-msgs:
			logging.LogContent("MQTT discovery message", "application/td+json", m.Payload())
			out <- protocol.Delivery{Content: content.Content{Type: "application/td+json", Data: m.Payload()}}
		case <-ctx.Done():
		}
	}()

	return out, nil
}

// DiscoverCoreLinkFormat subscribes to the discovery topic and
// streams every publication until the context ends.
func (c *Client) DiscoverCoreLinkFormat(ctx context.Context, target *url.URL) (<-chan protocol.Delivery, error) {
	topic, err := topicOf(target)
	if err != nil {
		return nil, err
	}
	client, err := c.connection(brokerAddress(target))
	if err != nil {
		return nil, err
	}

	msgs := make(chan paho.Message)
	handler := func(_ paho.Client, m paho.Message) {
		select {
		case msgs <- m:
		case <-ctx.Done():
		}
	}

	if token := client.Subscribe(topic, qos, handler); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to subscribe to %q: %w", topic, token.Error())
	}

	out := make(chan protocol.Delivery)
	go func() {
		defer close(out)
		defer c.unsubscribe(client, topic)

		for {
			select {
			case m := <-msgs:
				logging.LogContent("MQTT discovery message", "application/link-format", m.Payload())
				select {
				case out <- protocol.Delivery{Content: content.Content{Type: "application/link-format", Data: m.Payload()}}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Stop disconnects from every broker the client is connected to.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	clients := make([]paho.Client, 0, len(c.clients))
	for _, client := range c.clients {
		clients = append(clients, client)
	}
	c.clients = make(map[string]paho.Client)
	c.mu.Unlock()

	for _, client := range clients {
		client.Disconnect(disconnectQuiesce)
	}
	return nil
}

// connection returns the shared connection for a broker, dialing it
// on first use.
func (c *Client) connection(broker string) (paho.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[broker]; ok && client.IsConnected() {
		return client, nil
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(fmt.Sprintf("wotscout-%s", uuid.NewString()[:8]))
	opts.SetConnectTimeout(c.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	// Handlers run on their own goroutines so slow consumers only
	// stall their own subscription.
	opts.SetOrderMatters(false)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logging.Warn("MQTT connection lost",
			zap.String("broker", broker),
			zap.Error(err),
		)
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to broker %s: %w", broker, token.Error())
	}
	c.clients[broker] = client
	return client, nil
}

func (c *Client) unsubscribe(client paho.Client, topic string) {
	token := client.Unsubscribe(topic)
	if token.WaitTimeout(unsubscribeWait) && token.Error() != nil {
		logging.Warn("MQTT unsubscribe failed",
			zap.String("topic", topic),
			zap.Error(token.Error()),
		)
	}
}

// brokerAddress maps a discovery target to a paho broker address:
// mqtt becomes tcp, mqtts becomes ssl, default ports filled in.
func brokerAddress(target *url.URL) string {
	scheme := "tcp"
	port := "1883"
	if target.Scheme == "mqtts" {
		scheme = "ssl"
		port = "8883"
	}
	host := target.Host
	if target.Port() == "" {
		host = net.JoinHostPort(target.Hostname(), port)
	}
	return scheme + "://" + host
}

// topicOf extracts the topic from a discovery target's path.
func topicOf(target *url.URL) (string, error) {
	topic := strings.TrimPrefix(target.Path, "/")
	if topic == "" {
		return "", fmt.Errorf("target %s names no topic", target)
	}
	return topic, nil
}
