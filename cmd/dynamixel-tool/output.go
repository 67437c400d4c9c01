package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xzz53/dynamixel-tool/internal/registry"
)

// result is the uniform shape every subcommand renders, either as
// newline-separated text or as a single JSON document (spec.md §6: "stdout
// carries results (newline-separated or JSON per --json)").
type result struct {
	Models    []string        `json:"models,omitempty"`
	Registers []registry.Reg  `json:"registers,omitempty"`
	Found     []byte          `json:"found,omitempty"`
	Values    []readResult    `json:"values,omitempty"`
}

type readResult struct {
	ID   byte   `json:"id"`
	Data string `json:"data"`
}

func emit(w io.Writer, cfg *toolConfig, r result) error {
	if cfg.jsonOut {
		enc := json.NewEncoder(w)
		return enc.Encode(r)
	}
	for _, m := range r.Models {
		fmt.Fprintln(w, m)
	}
	for _, reg := range r.Registers {
		fmt.Fprintln(w, reg.String())
	}
	if len(r.Found) > 0 {
		ids := make([]string, len(r.Found))
		for i, id := range r.Found {
			ids[i] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintln(w, strings.Join(ids, ","))
	}
	for _, v := range r.Values {
		fmt.Fprintf(w, "%d: %s\n", v.ID, v.Data)
	}
	return nil
}

func bytesToHex(b []byte) string { return hex.EncodeToString(b) }
