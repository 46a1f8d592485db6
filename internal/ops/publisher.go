package ops

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// MessageType for recommendation envelopes.
const MessageType = "fuel_optimization_recommendation"

// Envelope wraps a recommendation for transport to operational systems.
type Envelope struct {
	MessageID              string         `json:"message_id"`
	MessageType            string         `json:"message_type"`
	FlightID               string         `json:"flight_id"`
	Timestamp              time.Time      `json:"timestamp"`
	Payload                Recommendation `json:"payload"`
	Priority               int            `json:"priority"` // 1-10, 10 highest
	RequiresAcknowledgment bool           `json:"requires_acknowledgment"`
}

// PublicationRecord is one entry of the publication history.
type PublicationRecord struct {
	MessageID string    `json:"message_id"`
	FlightID  string    `json:"flight_id"`
	Timestamp time.Time `json:"timestamp"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
}

// Publisher delivers recommendations to an operational channel.
type Publisher interface {
	Publish(ctx context.Context, rec Recommendation) (PublicationRecord, error)
}

// NewEnvelope wraps a recommendation in a transport envelope.
func NewEnvelope(rec Recommendation) Envelope {
	return Envelope{
		MessageID:              uuid.NewString(),
		MessageType:            MessageType,
		FlightID:               rec.FlightID,
		Timestamp:              time.Now().UTC(),
		Payload:                rec,
		Priority:               PriorityLevel(rec.Priority),
		RequiresAcknowledgment: true,
	}
}

// NATSPublisher publishes recommendation envelopes to a NATS subject
// per flight.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string

	mu      sync.Mutex
	history []PublicationRecord
}

// NewNATSPublisher connects to the NATS server at url. Subjects are
// formed as "<prefix>.<flight_id>".
func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	if subjectPrefix == "" {
		subjectPrefix = "ops.fuel"
	}

	conn, err := nats.Connect(url,
		nats.Name("fuel_optimizer"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Publish sends the recommendation and records it in the history.
func (p *NATSPublisher) Publish(ctx context.Context, rec Recommendation) (PublicationRecord, error) {
	env := NewEnvelope(rec)

	data, err := json.Marshal(env)
	if err != nil {
		return PublicationRecord{}, fmt.Errorf("marshal envelope: %w", err)
	}

	subject := p.subjectPrefix + "." + rec.FlightID
	if err := p.conn.Publish(subject, data); err != nil {
		return PublicationRecord{}, fmt.Errorf("publish %s: %w", subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return PublicationRecord{}, fmt.Errorf("flush: %w", err)
	}

	record := PublicationRecord{
		MessageID: env.MessageID,
		FlightID:  rec.FlightID,
		Timestamp: time.Now().UTC(),
		Priority:  rec.Priority,
		Status:    "published",
	}

	p.mu.Lock()
	p.history = append(p.history, record)
	p.mu.Unlock()

	return record, nil
}

// History returns a copy of the publication history.
func (p *NATSPublisher) History() []PublicationRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublicationRecord, len(p.history))
	copy(out, p.history)
	return out
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// MemoryPublisher retains envelopes in memory. Used for local runs
// without a broker and in tests.
type MemoryPublisher struct {
	mu        sync.Mutex
	envelopes []Envelope
	history   []PublicationRecord
}

// Publish records the recommendation without sending it anywhere.
func (p *MemoryPublisher) Publish(_ context.Context, rec Recommendation) (PublicationRecord, error) {
	env := NewEnvelope(rec)

	record := PublicationRecord{
		MessageID: env.MessageID,
		FlightID:  rec.FlightID,
		Timestamp: time.Now().UTC(),
		Priority:  rec.Priority,
		Status:    "published",
	}

	p.mu.Lock()
	p.envelopes = append(p.envelopes, env)
	p.history = append(p.history, record)
	p.mu.Unlock()

	return record, nil
}

// Envelopes returns a copy of the captured envelopes.
func (p *MemoryPublisher) Envelopes() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Envelope, len(p.envelopes))
	copy(out, p.envelopes)
	return out
}

// History returns a copy of the publication history.
func (p *MemoryPublisher) History() []PublicationRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublicationRecord, len(p.history))
	copy(out, p.history)
	return out
}
