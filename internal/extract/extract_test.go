package extract

import (
	"reflect"
	"testing"

	"github.com/techiral/go-content-backend/internal/domain"
)

// ---------- JSONSubstring ----------

func TestJSONSubstring_ObjectWrappedInProse(t *testing.T) {
	in := `Sure! Here you go: {"faqs":[{"question":"Q","answer":"A"}]} Hope that helps.`
	got, ok := JSONSubstring(in, '{')
	if !ok {
		t.Fatalf("expected a substring")
	}
	want := `{"faqs":[{"question":"Q","answer":"A"}]}`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestJSONSubstring_CodeFence(t *testing.T) {
	in := "```json\n{\"metaTitle\":\"t\"}\n```"
	got, ok := JSONSubstring(in, '{')
	if !ok || got != `{"metaTitle":"t"}` {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestJSONSubstring_CitationBeforeObject(t *testing.T) {
	// Bracketed prose ahead of the payload must not derail an object scan.
	in := `Sure! [1] Here you go: {"faqs":[{"question":"Q","answer":"A"}]}`
	got, ok := JSONSubstring(in, '{')
	if !ok || got != `{"faqs":[{"question":"Q","answer":"A"}]}` {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestJSONSubstring_ArrayDocument(t *testing.T) {
	in := `reply: [{"question":"Q","answer":"A"}] done`
	got, ok := JSONSubstring(in, '[')
	if !ok || got != `[{"question":"Q","answer":"A"}]` {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestJSONSubstring_NoBrackets(t *testing.T) {
	if _, ok := JSONSubstring("no json here at all", '{'); ok {
		t.Fatalf("expected no substring")
	}
}

func TestJSONSubstring_OpenWithoutClose(t *testing.T) {
	if _, ok := JSONSubstring(`prefix { "unterminated": true`, '{'); ok {
		t.Fatalf("expected no substring for unterminated object")
	}
}

// ---------- Bundle ----------

func TestBundle_ScenarioFromContract(t *testing.T) {
	raw := `Sure! Here you go: {"faqs":[{"question":"Q","answer":"A"}]}`
	res := Bundle(raw, ContractFAQs)
	if !res.OK() {
		t.Fatalf("expected OK, got status %v missing %v", res.Status, res.Missing)
	}
	want := []domain.FAQ{{Question: "Q", Answer: "A"}}
	if !reflect.DeepEqual(res.Bundle.FAQs, want) {
		t.Fatalf("faqs mismatch: %#v", res.Bundle.FAQs)
	}
}

func TestBundle_CitationBeforeJSON(t *testing.T) {
	raw := `Sure! [1] Here you go: {"faqs":[{"question":"Q","answer":"A"}]}`
	res := Bundle(raw, ContractFAQs)
	if !res.OK() {
		t.Fatalf("expected OK, got status %v missing %v", res.Status, res.Missing)
	}
	if len(res.Bundle.FAQs) != 1 || res.Bundle.FAQs[0].Question != "Q" {
		t.Fatalf("faqs: %#v", res.Bundle.FAQs)
	}
}

func TestBundle_MalformedWhenNoBraces(t *testing.T) {
	res := Bundle("I could not produce an answer.", ContractFAQs)
	if res.Status != StatusMalformed {
		t.Fatalf("expected StatusMalformed, got %v", res.Status)
	}
}

func TestBundle_MalformedWhenSubstringInvalid(t *testing.T) {
	res := Bundle(`prose {"faqs": [}} trailing`, ContractFAQs)
	if res.Status != StatusMalformed {
		t.Fatalf("expected StatusMalformed, got %v", res.Status)
	}
}

func TestBundle_IncompleteFullMetadata(t *testing.T) {
	raw := `{"description":["d"],"faqs":[{"question":"Q","answer":"A"}],"keyMoments":[],"metaTitle":"","metaDescription":"md"}`
	res := Bundle(raw, ContractFullMetadata)
	if res.Status != StatusIncomplete {
		t.Fatalf("expected StatusIncomplete, got %v", res.Status)
	}
	want := []string{"keyMoments", "metaTitle"}
	if !reflect.DeepEqual(res.Missing, want) {
		t.Fatalf("missing fields: got %v want %v", res.Missing, want)
	}
}

func TestBundle_FullMetadata_AllFields(t *testing.T) {
	raw := `Here is the JSON you asked for:
{
  "description": "A single-paragraph summary.",
  "faqs": [{"question":"Q1","answer":"A1"}],
  "keyMoments": [{"label":"The Magic of useState","summary":"s"}],
  "metaTitle": "Compelling title",
  "metaDescription": "Enticing summary",
  "cta": {"headline":"Get the checklist","description":"prompt list"}
}
Let me know if you need anything else!`
	res := Bundle(raw, ContractFullMetadata)
	if !res.OK() {
		t.Fatalf("expected OK, got %v missing %v", res.Status, res.Missing)
	}
	if !reflect.DeepEqual(res.Bundle.Description, domain.Description{"A single-paragraph summary."}) {
		t.Fatalf("description: %#v", res.Bundle.Description)
	}
	if res.Bundle.CTA == nil || res.Bundle.CTA.Headline != "Get the checklist" {
		t.Fatalf("cta: %#v", res.Bundle.CTA)
	}
}

func TestBundle_Idempotent(t *testing.T) {
	raw := `noise {"faqs":[{"question":"Q","answer":"A"}],"description":["d"],"keyMoments":[{"label":"l","summary":"s"}],"metaTitle":"t","metaDescription":"m"} noise`
	a := Bundle(raw, ContractFullMetadata)
	b := Bundle(raw, ContractFullMetadata)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("extraction is not idempotent:\n%#v\n%#v", a, b)
	}
}

// ---------- Merge ----------

func TestMergeFAQs_DedupePreservesOrder(t *testing.T) {
	existing := []domain.FAQ{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}
	generated := []domain.FAQ{
		{Question: "Q1", Answer: "different answer"}, // duplicate, dropped
		{Question: "Q3", Answer: "A3"},
	}
	got := MergeFAQs(existing, generated)
	want := []domain.FAQ{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
		{Question: "Q3", Answer: "A3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestMergeFAQs_CaseAndSpaceInsensitive(t *testing.T) {
	existing := []domain.FAQ{{Question: "What is Go?", Answer: "a language"}}
	generated := []domain.FAQ{{Question: "  what is go? ", Answer: "dup"}}
	if got := MergeFAQs(existing, generated); len(got) != 1 {
		t.Fatalf("expected duplicate to be dropped, got %#v", got)
	}
}

func TestMergeFAQs_DoesNotMutateInputs(t *testing.T) {
	existing := []domain.FAQ{{Question: "Q1", Answer: "A1"}}
	generated := []domain.FAQ{{Question: "Q2", Answer: "A2"}}
	_ = MergeFAQs(existing, generated)
	if len(existing) != 1 || len(generated) != 1 {
		t.Fatalf("inputs mutated")
	}
}

func TestMergeKeyMoments(t *testing.T) {
	existing := []domain.KeyMoment{{Label: "(1:40)", Summary: "intro"}}
	generated := []domain.KeyMoment{
		{Label: "(1:40)", Summary: "dup"},
		{Label: "(3:05)", Summary: "demo"},
	}
	got := MergeKeyMoments(existing, generated)
	if len(got) != 2 || got[1].Label != "(3:05)" {
		t.Fatalf("got %#v", got)
	}
}
