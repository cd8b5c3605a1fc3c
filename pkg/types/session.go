// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package types

import "time"

// Session is a calendar appointment for a client.
type Session struct {
	ID         string    `json:"id" mapstructure:"id"`
	ClientID   string    `json:"clientId" mapstructure:"clientid"`
	ClientName string    `json:"clientName" mapstructure:"clientname"`
	Date       time.Time `json:"date" mapstructure:"date"`
	Time       string    `json:"time,omitempty" mapstructure:"time"`
	// Duration is the appointment length in minutes.
	Duration int    `json:"duration,omitempty" mapstructure:"duration"`
	Type     string `json:"type,omitempty" mapstructure:"type"`
}

// Relationship is a one-directional edge from the owning client to another.
// A relationship is only "complete" when the reverse edge exists too.
type Relationship struct {
	RelatedClientID string `json:"relatedClientId" mapstructure:"relatedclientid"`
	Type            string `json:"type" mapstructure:"type"`
}

// Client is a client record with its outgoing relationship edges.
type Client struct {
	ID            string         `json:"id" mapstructure:"id"`
	Name          string         `json:"name" mapstructure:"name"`
	Relationships []Relationship `json:"relationships,omitempty" mapstructure:"relationships"`
}

// References reports whether the client already has an edge to clientID.
func (c Client) References(clientID string) bool {
	for _, r := range c.Relationships {
		if r.RelatedClientID == clientID {
			return true
		}
	}
	return false
}

// ReciprocalTask asks the user to confirm the missing reverse edge of a
// one-directional relationship. Transient; consumed one at a time.
type ReciprocalTask struct {
	SourceID      string `json:"sourceId"`
	SourceName    string `json:"sourceName,omitempty"`
	TargetID      string `json:"targetId"`
	TargetName    string `json:"targetName,omitempty"`
	SuggestedType string `json:"suggestedType"`
}
