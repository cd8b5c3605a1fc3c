// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package internal_recognizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	internal_type "github.com/delloop-lab/mypracticehelper-sub000/api/session-api/internal/type"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/commons"
	"github.com/delloop-lab/mypracticehelper-sub000/pkg/utils"
)

// wireMessage is the recognizer's websocket envelope. The engine emits
// transcript segments, warnings, and a terminal "ended" event when it shuts
// itself off after silence.
type wireMessage struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
	Message string `json:"message"`
}

type liveRecognizer struct {
	logger commons.Logger
	host   string
	key    string
	opts   utils.Option

	mu       sync.Mutex
	conn     *websocket.Conn
	explicit bool // explicit Stop in flight; suppresses the ended event
}

// NewLiveRecognizer returns a Recognizer streaming audio to the live speech
// engine over a websocket. The engine self-terminates after short silence;
// callers restart it by calling Start again.
func NewLiveRecognizer(logger commons.Logger, host, key string, opts utils.Option) internal_type.Recognizer {
	return &liveRecognizer{
		logger: logger,
		host:   host,
		key:    key,
		opts:   opts,
	}
}

func (r *liveRecognizer) connectionString() string {
	params := url.Values{}
	params.Add("sample_rate", "16000")
	params.Add("encoding", "linear16")
	params.Add("interim_results", "true")
	if language, err := r.opts.GetString("listen.language"); err == nil {
		params.Add("language", language)
	}
	if model, err := r.opts.GetString("listen.model"); err == nil {
		params.Add("model", model)
	}
	return fmt.Sprintf("%s?%s", r.host, params.Encode())
}

func (r *liveRecognizer) Start(ctx context.Context, callbacks internal_type.RecognizerCallbacks) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	header := http.Header{}
	if r.key != "" {
		header.Set("Authorization", "Token "+r.key)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.connectionString(), header)
	if err != nil {
		return fmt.Errorf("recognizer: failed to connect: %w", err)
	}
	r.conn = conn
	r.explicit = false
	go r.readLoop(conn, callbacks)
	return nil
}

// readLoop runs for the lifetime of the connection, not of the context that
// dialed it. The ctx passed to Start is request-scoped and may be canceled
// long before the engine stops emitting results; the loop ends only when the
// connection closes.
func (r *liveRecognizer) readLoop(conn *websocket.Conn, callbacks internal_type.RecognizerCallbacks) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			r.mu.Lock()
			explicit := r.explicit
			r.mu.Unlock()
			if !explicit && callbacks.OnEnded != nil {
				// Connection dropped without an explicit Stop: report it
				// as the engine ending itself so the supervisor restarts.
				callbacks.OnEnded()
			}
			return
		}
		r.dispatch(msg, callbacks)
	}
}

func (r *liveRecognizer) dispatch(msg []byte, callbacks internal_type.RecognizerCallbacks) {
	var wire wireMessage
	if err := json.Unmarshal(msg, &wire); err != nil {
		r.logger.Debugf("recognizer: unparseable message: %v", err)
		return
	}
	switch wire.Type {
	case "transcript":
		if callbacks.OnResult != nil {
			callbacks.OnResult(wire.Text, wire.IsFinal)
		}
	case "warning":
		if strings.Contains(strings.ToLower(wire.Message), "no speech") {
			// Benign: the engine has just not heard anything yet.
			r.logger.Debugf("recognizer: %s", wire.Message)
			return
		}
		if callbacks.OnError != nil {
			callbacks.OnError(errors.New(wire.Message))
		}
	case "ended":
		r.mu.Lock()
		explicit := r.explicit
		r.mu.Unlock()
		if !explicit && callbacks.OnEnded != nil {
			callbacks.OnEnded()
		}
	}
}

func (r *liveRecognizer) Feed(_ context.Context, audio []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return fmt.Errorf("recognizer: connection is not initialized")
	}
	if err := r.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("recognizer: failed to send audio data: %w", err)
	}
	return nil
}

func (r *liveRecognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.explicit = true
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	if err != nil {
		return fmt.Errorf("recognizer: error closing connection: %w", err)
	}
	r.logger.Info("recognizer: websocket connection closed")
	return nil
}
