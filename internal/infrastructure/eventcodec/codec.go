// Package eventcodec maps pull request events to their stored form: a stable
// type discriminator plus a JSON payload.
package eventcodec

import (
	"fmt"

	"github.com/goccy/go-json"

	"prlifecycle/internal/domain/pr"
)

func Encode(e pr.Event) (string, []byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s: %w", e.EventType(), err)
	}
	return string(e.EventType()), payload, nil
}

func Decode(eventType string, payload []byte) (pr.Event, error) {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	e, err := pr.DecodeEvent(pr.EventType(eventType), func(v any) error {
		return json.Unmarshal(payload, v)
	})
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventType, err)
	}
	return e, nil
}
