// Package sink builds an eventstream.Publisher from configuration.
package sink

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/llmstream/pkg/eventstream"
	"github.com/papercomputeco/llmstream/pkg/eventstream/jsonl"
	"github.com/papercomputeco/llmstream/pkg/eventstream/kafka"
	"github.com/papercomputeco/llmstream/pkg/eventstream/nop"
)

const (
	KindNone  = "none"
	KindJSONL = "jsonl"
	KindKafka = "kafka"
)

// ErrUnknownKind is returned for an unsupported sink kind.
var ErrUnknownKind = errors.New("unknown sink kind")

// Kinds lists the supported sink kinds.
func Kinds() []string {
	return []string{KindNone, KindJSONL, KindKafka}
}

// IsValidKind reports whether kind names a supported sink. Matching is case
// insensitive and the empty string selects KindNone.
func IsValidKind(kind string) bool {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindNone, KindJSONL, KindKafka:
		return true
	}
	return false
}

// Config selects a sink. Target is a file path ("-" for stdout) for jsonl and
// a comma separated broker list for kafka.
type Config struct {
	Kind   string
	Target string
	Topic  string
}

// New returns the publisher described by cfg. stdout receives jsonl output
// when Target is "-".
func New(cfg Config, stdout io.Writer) (eventstream.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindNone:
		return nop.NewPublisher(), nil
	case KindJSONL:
		if cfg.Target == "" || cfg.Target == "-" {
			return jsonl.NewPublisher(stdout), nil
		}
		p, err := jsonl.Open(cfg.Target)
		if err != nil {
			return nil, err
		}
		return p, nil
	case KindKafka:
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: splitBrokers(cfg.Target),
			Topic:   cfg.Topic,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownKind, cfg.Kind, strings.Join(Kinds(), ", "))
}

func splitBrokers(target string) []string {
	var brokers []string
	for _, b := range strings.Split(target, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
