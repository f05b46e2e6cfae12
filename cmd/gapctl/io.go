package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"careergap/internal/bootstrap"
	"careergap/internal/llm"
	"careergap/internal/records"
)

func readRecord(path string) (records.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rec records.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if rec == nil {
		rec = records.Record{}
	}
	return rec, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// completer honors --offline by skipping client construction entirely.
func completer(offline bool) (llm.Completer, *llm.Templates, error) {
	templates := llm.NewTemplates(cfg.LLM.PromptDir)
	if offline {
		return llm.Unavailable{}, templates, nil
	}
	c, err := bootstrap.NewCompleter(cfg.LLM)
	if err != nil {
		return nil, nil, err
	}
	return c, templates, nil
}
