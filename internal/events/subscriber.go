package events

import (
	"encoding/json"
	"fmt"
)

// Message is one event received from the bus.
type Message struct {
	Topic string
	Data  []byte
}

// Decode unmarshals the payload into the typed event for its topic, e.g. a
// NodeCreated for TopicNodeCreated.
func (m Message) Decode() (any, error) {
	var ev any
	switch m.Topic {
	case TopicNodeCreated:
		ev = &NodeCreated{}
	case TopicNodeUpdated:
		ev = &NodeUpdated{}
	case TopicNodeDeleted:
		ev = &NodeDeleted{}
	case TopicConnectionAdded:
		ev = &ConnectionAdded{}
	case TopicConnectionDeleted:
		ev = &ConnectionDeleted{}
	case TopicGraphReset:
		ev = &GraphReset{}
	case TopicModeChanged:
		ev = &ModeChanged{}
	default:
		return nil, fmt.Errorf("unknown event topic %q", m.Topic)
	}
	if err := json.Unmarshal(m.Data, ev); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", m.Topic, err)
	}
	return ev, nil
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers messages for topic, which may use wildcards, on the
	// returned channel until the cancel function is called.
	Subscribe(topic string) (<-chan Message, func(), error)
	Close() error
}
