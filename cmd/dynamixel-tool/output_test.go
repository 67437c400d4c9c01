package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEmitTextJoinsFoundIDs(t *testing.T) {
	var buf bytes.Buffer
	cfg := &toolConfig{}
	if err := emit(&buf, cfg, result{Found: []byte{1, 2, 3}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "1,2,3" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestEmitJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	cfg := &toolConfig{jsonOut: true}
	in := result{Found: []byte{5, 6}}
	if err := emit(&buf, cfg, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out result
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Found) != 2 || out.Found[0] != 5 || out.Found[1] != 6 {
		t.Fatalf("got %+v", out)
	}
}

func TestEmitTextValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := &toolConfig{}
	if err := emit(&buf, cfg, result{Values: []readResult{{ID: 1, Data: "abcd"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "1: abcd" {
		t.Fatalf("got %q", buf.String())
	}
}
