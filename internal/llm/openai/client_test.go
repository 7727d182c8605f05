package openai

import (
	"testing"
)

func TestParseSearchResults(t *testing.T) {
	plain := `[{"title": "IMD update", "snippet": "rain ahead", "url": "https://example.in/imd"}]`

	results, err := parseSearchResults(plain)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "IMD update" || results[0].URL != "https://example.in/imd" {
		t.Errorf("results = %+v", results)
	}
}

func TestParseSearchResults_Fenced(t *testing.T) {
	fenced := "```json\n[{\"title\": \"A\", \"snippet\": \"B\", \"url\": \"C\"}]\n```"

	results, err := parseSearchResults(fenced)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(results) != 1 || results[0].Title != "A" {
		t.Errorf("results = %+v", results)
	}

	bare := "```\n[]\n```"
	results, err = parseSearchResults(bare)
	if err != nil || len(results) != 0 {
		t.Errorf("bare fence: %v, %v", results, err)
	}
}

func TestParseSearchResults_Invalid(t *testing.T) {
	if _, err := parseSearchResults("sorry, I cannot search"); err == nil {
		t.Error("prose content should fail to parse")
	}
}
