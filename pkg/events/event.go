package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Event         string    `json:"event"`
	Version       string    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       any       `json:"payload"`
	TraceID       string    `json:"traceId"`
	CorrelationID string    `json:"correlationId"`
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

func NewEvent(eventName, version string, payload any, headers Headers) *Event {
	return &Event{
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}
}

func NewHeaders(service string) Headers {
	return Headers{
		TraceID:       GenerateTraceID(),
		CorrelationID: GenerateCorrelationID(),
		Service:       service,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

// DecodePayload re-decodes a payload that went through JSON (and so arrived
// as a generic map) into out.
func (e *Event) DecodePayload(out any) error {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("malformed payload - marshal failed: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("malformed payload - unmarshal failed: %w", err)
	}
	return nil
}

func GenerateTraceID() string {
	return uuid.New().String()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}
