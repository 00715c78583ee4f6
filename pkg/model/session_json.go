package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

var sessionKeys = map[string]struct{}{
	"id":                {},
	"title":             {},
	"createdAt":         {},
	"updatedAt":         {},
	"problem":           {},
	"whys":              {},
	"followUpQuestions": {},
	"currentStep":       {},
	"currentWhyStep":    {},
	"fiveWhysAnalysis":  {},
	"solutions":         {},
	"smartGoals":        {},
	"implementations":   {},
}

type sessionAlias Session

// UnmarshalJSON decodes the known fields and keeps every other key in Extra.
func (s *Session) UnmarshalJSON(data []byte) error {
	var alias sessionAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode session fields: %w", err)
	}
	for k := range sessionKeys {
		delete(raw, k)
	}
	*s = Session(alias)
	if len(raw) > 0 {
		s.Extra = raw
	} else {
		s.Extra = nil
	}
	return nil
}

// MarshalJSON writes the known fields plus Extra. Known fields win on conflict.
func (s Session) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(sessionAlias(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(s.Extra)+len(sessionKeys))
	for k, v := range s.Extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// MarshalYAML renders the session with the keys of its JSON form, Extra
// included, in block style.
func (s Session) MarshalYAML() (any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("convert session to yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("convert session to yaml: empty document")
	}
	clearStyle(doc.Content[0])
	return doc.Content[0], nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
