// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

// TaskShowFact asks the viewer to select a fact.
const TaskShowFact = "SHOW_FACT"

// Message is a task request from another window or process.
type Message struct {
	Task   string `json:"task"`
	FactID string `json:"factId,omitempty"`
}

// ShowFact returns a SHOW_FACT message for id.
func ShowFact(id string) Message {
	return Message{Task: TaskShowFact, FactID: id}
}
