package tools

import (
	"testing"
)

func TestParseArguments(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{"object", `{"amount":100,"from":"COP","to":"USD"}`, false, 3},
		{"empty string", "", false, 0},
		{"empty object", "{}", false, 0},
		{"array", `[1,2]`, true, 0},
		{"string", `"COP"`, true, 0},
		{"truncated", `{"amount":`, true, 0},
		{"not json", `amount=100`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := ParseArguments(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(args) != tt.wantLen {
				t.Errorf("Expected %d args, got %d", tt.wantLen, len(args))
			}
		})
	}
}

func TestParseArguments_Types(t *testing.T) {
	args, err := ParseArguments(`{"amount":100,"from":"COP","nested":{"a":1}}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if args["amount"] != float64(100) {
		t.Errorf("Expected amount float64(100), got %#v", args["amount"])
	}
	if args["from"] != "COP" {
		t.Errorf("Expected from COP, got %#v", args["from"])
	}
	if _, ok := args["nested"].(map[string]interface{}); !ok {
		t.Errorf("Expected nested object, got %#v", args["nested"])
	}
}

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"ok": " USD ", "empty": "  ", "num": 1.0}

	if got, err := StringArg(args, "ok"); err != nil || got != "USD" {
		t.Errorf("Expected trimmed 'USD', got %q (%v)", got, err)
	}
	for _, name := range []string{"empty", "num", "missing"} {
		if _, err := StringArg(args, name); err == nil {
			t.Errorf("Expected error for %s", name)
		}
	}
}

func TestNumberArg(t *testing.T) {
	args := map[string]interface{}{"f": 2.5, "s": "100", "bad": "abc", "b": true}

	if got, err := NumberArg(args, "f"); err != nil || got != 2.5 {
		t.Errorf("Expected 2.5, got %v (%v)", got, err)
	}
	if got, err := NumberArg(args, "s"); err != nil || got != 100 {
		t.Errorf("Expected quoted number to parse, got %v (%v)", got, err)
	}
	for _, name := range []string{"bad", "b", "missing"} {
		if _, err := NumberArg(args, name); err == nil {
			t.Errorf("Expected error for %s", name)
		}
	}
}
