package genjson

import "testing"

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestDecodeFencedAndPlainAreIdentical(t *testing.T) {
	plain := `{"name":"Modern Minimal","items":["a","b"]}`
	cases := map[string]string{
		"plain":          plain,
		"fenced":         "```json\n" + plain + "\n```",
		"fenced upper":   "```JSON\n" + plain + "\n```",
		"fenced bare":    "```\n" + plain + "\n```",
		"prose wrapped":  "Here is the result:\n" + plain + "\nHope that helps!",
		"fenced + prose": "Sure!\n```json\n" + plain + "\n```",
	}

	want, err := Decode[payload](plain)
	if err != nil {
		t.Fatalf("decode plain: %v", err)
	}

	for name, raw := range cases {
		got, err := Decode[payload](raw)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if got.Name != want.Name || len(got.Items) != len(want.Items) {
			t.Fatalf("%s: got %+v want %+v", name, got, want)
		}
	}
}

func TestExtractFragmentIdempotent(t *testing.T) {
	raw := "```json\n{\"name\":\"x\"}\n```"
	once := ExtractFragment(raw)
	twice := ExtractFragment(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}

func TestDecodeArray(t *testing.T) {
	raw := "```json\n[{\"name\":\"a\"},{\"name\":\"b\"},{\"name\":\"c\"}]\n```"
	got, err := Decode[[]payload](raw)
	if err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
}

func TestDecodeFailures(t *testing.T) {
	if _, err := Decode[payload](""); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := Decode[payload]("no json here"); err == nil {
		t.Fatal("expected error for non-json payload")
	}
}
