// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package postmessage carries viewer task messages over a Unix socket.
//
// The wire format is newline-delimited JSON: a client connects, writes
// one or more messages each terminated by '\n', and closes. The
// [Listener] hands every non-empty line to a [Handler] without parsing
// it; interpreting the task is the receiver's job, so malformed input
// is reported where the selection lives rather than here.
//
// [Send] is the matching client, used by "factview show".
package postmessage
