package broker

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	defaultNATSURL    = nats.DefaultURL
	defaultNATSStream = "QUOTATIONS"

	// Window in which JetStream drops publishes with an already seen Nats-Msg-Id.
	natsDuplicateWindow = 2 * time.Minute
)

// ConnectNATS connects to NATS_URL (default nats://127.0.0.1:4222) and ensures
// the stream NATS_STREAM (default QUOTATIONS) captures the given subjects.
func ConnectNATS(name string, subjects ...string) (*nats.Conn, nats.JetStreamContext, error) {
	url := getenvDefault("NATS_URL", defaultNATSURL)

	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("[broker][nats] disconnected err=%v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("[broker][nats] reconnected url=%s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("could not open JetStream context: %w", err)
	}

	stream := getenvDefault("NATS_STREAM", defaultNATSStream)
	if err := EnsureStream(js, stream, subjects...); err != nil {
		nc.Close()
		return nil, nil, err
	}
	log.Printf("[broker][nats] connected url=%s stream=%s", url, stream)
	return nc, js, nil
}

// EnsureStream creates the stream, or adds missing subjects to an existing one.
func EnsureStream(js nats.JetStreamContext, name string, subjects ...string) error {
	info, err := js.StreamInfo(name)
	if err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return fmt.Errorf("could not read stream %s: %w", name, err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       name,
			Subjects:   subjects,
			Storage:    nats.FileStorage,
			Retention:  nats.LimitsPolicy,
			Duplicates: natsDuplicateWindow,
		})
		if err != nil {
			return fmt.Errorf("could not create stream %s: %w", name, err)
		}
		return nil
	}

	cfg := info.Config
	missing := false
	for _, s := range subjects {
		if !contains(cfg.Subjects, s) {
			cfg.Subjects = append(cfg.Subjects, s)
			missing = true
		}
	}
	if !missing {
		return nil
	}
	if _, err := js.UpdateStream(&cfg); err != nil {
		return fmt.Errorf("could not update stream %s: %w", name, err)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
