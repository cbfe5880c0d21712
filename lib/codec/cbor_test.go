// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"testing"
)

// envelope uses cbor tags, the convention for socket-only types.
type envelope struct {
	Action string `cbor:"action"`
	Port   int    `cbor:"port,omitempty"`
}

// portView uses json tags, the convention for types that are also
// printed as JSON.
type portView struct {
	Port       int    `json:"port"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Bound      bool   `json:"bound"`
}

func TestMarshalDeterministic(t *testing.T) {
	t.Parallel()
	value := map[string]int{"ports": 16, "inputs": 8, "outputs": 8, "connections": 2}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestJSONTagFallback(t *testing.T) {
	t.Parallel()
	data, err := Marshal(portView{Port: 3, Bound: true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := generic["remote_addr"]; ok {
		t.Error("omitempty field present in encoding")
	}
	if generic["bound"] != true {
		t.Errorf("bound = %v, want true", generic["bound"])
	}
	if _, ok := generic["Port"]; ok {
		t.Error("field encoded under its Go name instead of its json tag")
	}
}

func TestAnyDecodesToStringKeyedMaps(t *testing.T) {
	t.Parallel()
	data, err := Marshal(map[string]any{
		"ports": []any{map[string]any{"port": 0, "bound": false}},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// map[any]any would make this fail.
	if _, err := json.Marshal(decoded); err != nil {
		t.Fatalf("decoded value is not JSON-encodable: %v", err)
	}
}

func TestStreamRoundTrip(t *testing.T) {
	t.Parallel()
	messages := []envelope{
		{Action: "status"},
		{Action: "status", Port: 4},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, message := range messages {
		if err := encoder.Encode(message); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range messages {
		var got envelope
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode %d: %v", i, err)
		}
		if got != want {
			t.Errorf("message %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestRawMessageDefersDecoding(t *testing.T) {
	t.Parallel()
	inner, err := Marshal(portView{Port: 1})
	if err != nil {
		t.Fatalf("Marshal inner: %v", err)
	}
	outer, err := Marshal(struct {
		Data RawMessage `cbor:"data"`
	}{Data: inner})
	if err != nil {
		t.Fatalf("Marshal outer: %v", err)
	}

	var decoded struct {
		Data RawMessage `cbor:"data"`
	}
	if err := Unmarshal(outer, &decoded); err != nil {
		t.Fatalf("Unmarshal outer: %v", err)
	}
	if !bytes.Equal(decoded.Data, inner) {
		t.Fatalf("raw data = %x, want %x", []byte(decoded.Data), inner)
	}
}
