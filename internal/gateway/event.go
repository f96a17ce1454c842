// Package gateway parses Evolution API webhook envelopes and sends WhatsApp
// text messages back through the same gateway.
package gateway

import (
	"encoding/json"
	"strings"
)

// Outcome tags the result of normalizing a raw webhook body. Every outcome
// is acknowledged with HTTP 200 upstream; only OutcomeOK continues into the
// pipeline.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeBadPayload Outcome = "bad_payload"
	OutcomeOwnMessage Outcome = "own_message_ignored"
	OutcomeNoMessage  Outcome = "no_message_ignored"
	OutcomeNonUser    Outcome = "non_user_ignored"
	OutcomeNoText     Outcome = "no_text_ignored"
)

const userJIDSuffix = "@s.whatsapp.net"

// Event is the canonical inbound record extracted from one webhook call.
type Event struct {
	// SenderID is the normalized sender identity used as the session key.
	SenderID string
	// Number is the raw phone number (JID without suffix) used for
	// outbound sends and backend lookups.
	Number string
	// MessageID is the gateway message id; empty when the envelope
	// carried none, in which case the event is never deduplicated.
	MessageID string
	// PushName is the contact display name, when present.
	PushName string
	Text     string
}

// envelope mirrors the subset of the Evolution messages-upsert payload the
// bot consumes. Providers disagree on the outer shape, so ParseEvent
// unwraps "data" and single-element lists before decoding into it.
type envelope struct {
	Key struct {
		RemoteJID string `json:"remoteJid"`
		FromMe    bool   `json:"fromMe"`
		ID        string `json:"id"`
	} `json:"key"`
	IDMessage   string          `json:"idMessage"`
	Participant string          `json:"participant"`
	PushName    string          `json:"pushName"`
	Message     json.RawMessage `json:"message"`
}

// message holds the per-type text carriers, checked in priority order:
// plain conversation, quoted/extended text, then media captions.
type message struct {
	Conversation        string `json:"conversation"`
	ExtendedTextMessage struct {
		Text string `json:"text"`
	} `json:"extendedTextMessage"`
	ImageMessage    caption `json:"imageMessage"`
	VideoMessage    caption `json:"videoMessage"`
	DocumentMessage caption `json:"documentMessage"`
	AudioMessage    caption `json:"audioMessage"`
}

type caption struct {
	Caption string `json:"caption"`
}

// ParseEvent normalizes a raw webhook body into an Event. It fails closed:
// malformed, self-sent, bodyless, non-user, and textless envelopes yield a
// non-OK outcome and a zero Event, never an error.
func ParseEvent(body []byte, normalize NormalizeFunc) (Event, Outcome) {
	if normalize == nil {
		normalize = DefaultNormalize
	}

	raw := unwrap(body)
	if raw == nil {
		return Event{}, OutcomeBadPayload
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, OutcomeBadPayload
	}

	// Acks and state updates sent by the bot itself come back through the
	// same webhook; replying to them would loop forever.
	if env.Key.FromMe {
		return Event{}, OutcomeOwnMessage
	}

	if len(env.Message) == 0 || string(env.Message) == "null" {
		return Event{}, OutcomeNoMessage
	}

	jid := strings.TrimSpace(env.Key.RemoteJID)
	if jid == "" {
		jid = strings.TrimSpace(env.Participant)
	}
	if !strings.HasSuffix(jid, userJIDSuffix) {
		return Event{}, OutcomeNonUser
	}
	number := strings.TrimSuffix(jid, userJIDSuffix)

	var msg message
	if err := json.Unmarshal(env.Message, &msg); err != nil {
		return Event{}, OutcomeNoMessage
	}
	text := extractText(msg)
	if text == "" {
		return Event{}, OutcomeNoText
	}

	messageID := strings.TrimSpace(env.Key.ID)
	if messageID == "" {
		messageID = strings.TrimSpace(env.IDMessage)
	}

	return Event{
		SenderID:  normalize(jid),
		Number:    number,
		MessageID: messageID,
		PushName:  strings.TrimSpace(env.PushName),
		Text:      text,
	}, OutcomeOK
}

// unwrap peels the provider-specific outer layers: a {"event","data"}
// wrapper and a one-element list. Returns nil unless the result is a JSON
// object.
func unwrap(body []byte) json.RawMessage {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Data) > 0 && string(wrapper.Data) != "null" {
		raw = wrapper.Data
	}

	if isJSONArray(raw) {
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
			return nil
		}
		raw = list[0]
	}

	if !isJSONObject(raw) {
		return nil
	}
	return raw
}

func extractText(msg message) string {
	if t := strings.TrimSpace(msg.Conversation); t != "" {
		return t
	}
	if t := strings.TrimSpace(msg.ExtendedTextMessage.Text); t != "" {
		return t
	}
	for _, c := range []caption{msg.ImageMessage, msg.VideoMessage, msg.DocumentMessage, msg.AudioMessage} {
		if t := strings.TrimSpace(c.Caption); t != "" {
			return t
		}
	}
	return ""
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}
