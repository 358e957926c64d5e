package mapsync

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Envelope is the frame every message travels in, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound is a message sent by the map view.
type Inbound interface {
	inbound()
}

type IframeReady struct {
	Status string `json:"status"`
}

type RequestDateData struct {
	Date string `json:"date"`
}

func (IframeReady) inbound()     {}
func (RequestDateData) inbound() {}

// Outbound is a message sent to the map view.
type Outbound interface {
	Type() string
}

type SessionOpened struct {
	SessionID string `json:"sessionId"`
}

type LoadMapData struct {
	domain.MapData
}

type MapLoading struct{}

type MapDataError struct {
	Message string `json:"message"`
}

type SetMarketDates struct {
	Dates []domain.DateOption `json:"dates"`
}

type SearchText struct {
	Term string `json:"term"`
}

type SetHighlight struct {
	Kind string `json:"type"`
	ID   string `json:"id"`
}

type ClearHighlight struct{}

func (SessionOpened) Type() string  { return "session" }
func (LoadMapData) Type() string    { return "loadMapData" }
func (MapLoading) Type() string     { return "mapLoading" }
func (MapDataError) Type() string   { return "mapDataError" }
func (SetMarketDates) Type() string { return "setMarketDates" }
func (SearchText) Type() string     { return "searchText" }
func (SetHighlight) Type() string   { return "setHighlight" }
func (ClearHighlight) Type() string { return "clearHighlight" }

func Decode(data []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	var msg Inbound
	switch env.Type {
	case "iframeReady":
		m := IframeReady{}
		if err := unmarshalPayload(env.Payload, &m); err != nil {
			return nil, err
		}
		msg = m
	case "requestDateData":
		m := RequestDateData{}
		if err := unmarshalPayload(env.Payload, &m); err != nil {
			return nil, err
		}
		msg = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}

	return msg, nil
}

func unmarshalPayload(payload json.RawMessage, v interface{}) error {
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("json.Unmarshal payload -> %w", err)
	}

	return nil
}

// Encode wraps msg in its envelope. Messages without fields are sent with
// no payload.
func Encode(msg Outbound) ([]byte, error) {
	env := Envelope{Type: msg.Type()}

	switch msg.(type) {
	case MapLoading, ClearHighlight:
	default:
		payload, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal -> %w", err)
		}
		env.Payload = payload
	}

	return json.Marshal(env)
}
