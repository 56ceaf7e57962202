package policy

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePolicyFile(t *testing.T, doc Document) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "policy.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadValidDocument(t *testing.T) {
	loaded, err := Load(writePolicyFile(t, testDocument()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Document.PolicyVersion != "2026-08-01" {
		t.Fatalf("unexpected version %q", loaded.Document.PolicyVersion)
	}
	if !strings.HasPrefix(loaded.Hash, "sha256:") {
		t.Fatalf("missing hash prefix: %q", loaded.Hash)
	}
	if len(loaded.Bytes) == 0 {
		t.Fatalf("raw bytes not retained")
	}
}

func TestLoadHashCoversRawBytes(t *testing.T) {
	path := writePolicyFile(t, testDocument())
	first, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Whitespace-only edits change the raw bytes and therefore the hash.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	second, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if first.Hash == second.Hash {
		t.Fatalf("hash must track the raw document bytes")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidateRejectsIncompleteDocuments(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"missing version", func(d *Document) { d.PolicyVersion = "" }},
		{"missing phase", func(d *Document) { d.Phase.Current = "" }},
		{"zero stability window", func(d *Document) { d.PhaseBTransition.StabilityWindowWeeks = 0 }},
		{"zero max ttl", func(d *Document) { d.DecisionEnforcement.Override.MaxTTLHours = 0 }},
		{"unmapped reason code", func(d *Document) {
			delete(d.DecisionEnforcement.ReasonCodeActions, CodeGeoWarnRed)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := testDocument()
			tc.mutate(&doc)
			err := Validate(doc)
			if !errors.Is(err, ErrPolicyConfig) {
				t.Fatalf("expected ErrPolicyConfig, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsDefaultDocument(t *testing.T) {
	if err := Validate(testDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
