// internal/domain/entity/message.go
package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Embed limits enforced by the chat platform.
const (
	maxEmbedTitle       = 256
	maxEmbedDescription = 4096
	maxEmbedFields      = 25
	maxEmbedFieldName   = 256
	maxEmbedFieldValue  = 1024
	maxEmbedFooter      = 2048
	maxEmbedColor       = 0xFFFFFF
)

// EmbedField is one name/value row of an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed is a rich message card.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer,omitempty"`
}

// OutboundMessage is a channel message with optional embeds.
type OutboundMessage struct {
	Content string
	Embeds  []*Embed
}

// Validate checks the embed against the platform limits.
func (e *Embed) Validate() error {
	if e.Title == "" && e.Description == "" && len(e.Fields) == 0 {
		return NewValidationError("embed", "must have a title, description or fields")
	}
	if len(e.Title) > maxEmbedTitle {
		return NewValidationError("embed.title", fmt.Sprintf("longer than %d characters", maxEmbedTitle))
	}
	if len(e.Description) > maxEmbedDescription {
		return NewValidationError("embed.description", fmt.Sprintf("longer than %d characters", maxEmbedDescription))
	}
	if len(e.Fields) > maxEmbedFields {
		return NewValidationError("embed.fields", fmt.Sprintf("more than %d fields", maxEmbedFields))
	}
	for i, field := range e.Fields {
		if strings.TrimSpace(field.Name) == "" || strings.TrimSpace(field.Value) == "" {
			return NewValidationError(fmt.Sprintf("embed.fields[%d]", i), "name and value are required")
		}
		if len(field.Name) > maxEmbedFieldName || len(field.Value) > maxEmbedFieldValue {
			return NewValidationError(fmt.Sprintf("embed.fields[%d]", i), "name or value too long")
		}
	}
	if len(e.Footer) > maxEmbedFooter {
		return NewValidationError("embed.footer", fmt.Sprintf("longer than %d characters", maxEmbedFooter))
	}
	if e.Color < 0 || e.Color > maxEmbedColor {
		return NewValidationError("embed.color", "must be between 0 and 0xFFFFFF")
	}
	if e.URL != "" && !strings.HasPrefix(e.URL, "https://") && !strings.HasPrefix(e.URL, "http://") {
		return NewValidationError("embed.url", "must be an http(s) URL")
	}
	return nil
}

// ParseEmbedJSON parses user-supplied embed JSON strictly: exactly one JSON
// object, no unknown fields, within platform limits.
func ParseEmbedJSON(raw string) (*Embed, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.DisallowUnknownFields()

	var embed Embed
	if err := decoder.Decode(&embed); err != nil {
		return nil, NewValidationError("embed_json", err.Error())
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, NewValidationError("embed_json", "trailing data after the JSON object")
	}
	if err := embed.Validate(); err != nil {
		return nil, err
	}
	return &embed, nil
}
