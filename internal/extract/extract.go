// Package extract converts raw LLM completions into validated structured
// values. Upstream output is not trusted to be well-formed JSON: models wrap
// the payload in prose, code fences, or commentary, so the extractor locates
// a JSON substring first and only then parses it.
//
// Callers branch on an explicit Status discriminant instead of catching
// errors for control flow:
//
//	res := extract.Bundle(raw, extract.ContractFullMetadata)
//	switch res.Status {
//	case extract.StatusOK:          // res.Bundle is usable
//	case extract.StatusMalformed:   // no parseable JSON substring
//	case extract.StatusIncomplete:  // res.Missing names the absent fields
//	}
package extract

import (
	"encoding/json"
	"strings"

	"github.com/techiral/go-content-backend/internal/domain"
)

// Status discriminates extraction outcomes.
type Status int

const (
	// StatusOK means a JSON substring was found, parsed, and validated.
	StatusOK Status = iota
	// StatusMalformed means no parseable JSON substring exists in the input.
	StatusMalformed
	// StatusIncomplete means the JSON parsed but a mandatory field is
	// missing or empty. The whole bundle is rejected; nothing is persisted.
	StatusIncomplete
)

// Contract selects which fields a task marks mandatory.
type Contract int

const (
	// ContractFAQs requires a non-empty faqs array and nothing else.
	ContractFAQs Contract = iota
	// ContractFullMetadata requires description, faqs, keyMoments,
	// metaTitle, and metaDescription to all be present and non-empty.
	ContractFullMetadata
)

// documentBracket returns the bracket that opens the JSON document the
// contract decodes. Every current contract decodes to an object; an
// array-shaped contract would answer '['.
func (c Contract) documentBracket() byte {
	return '{'
}

// Result is the tagged outcome of a bundle extraction.
type Result struct {
	Status  Status
	Bundle  domain.MetadataBundle
	Missing []string // populated only for StatusIncomplete
}

// OK reports whether the extraction produced a usable bundle.
func (r Result) OK() bool { return r.Status == StatusOK }

// JSONSubstring locates the candidate JSON document inside a completion.
// It uses a deliberately lenient greedy scan: the first open bracket through
// the last matching close. The caller anchors the scan on the bracket of the
// shape it expects to decode, so bracketed prose ahead of an object payload
// (a "[1]" citation, "[source]") is skipped rather than mistaken for the
// document. Upstream text outside the range is ignored; text inside it must
// parse or the extraction fails outright.
func JSONSubstring(s string, open byte) (string, bool) {
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}
	start := strings.IndexByte(s, open)
	if start == -1 {
		return "", false
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// Bundle extracts and validates a metadata bundle from a raw completion
// according to the given contract. The operation is idempotent: the same
// input always yields a deep-equal Result.
func Bundle(raw string, c Contract) Result {
	sub, ok := JSONSubstring(raw, c.documentBracket())
	if !ok {
		return Result{Status: StatusMalformed}
	}
	var b domain.MetadataBundle
	if err := json.Unmarshal([]byte(sub), &b); err != nil {
		return Result{Status: StatusMalformed}
	}
	if missing := missingFields(b, c); len(missing) > 0 {
		return Result{Status: StatusIncomplete, Missing: missing}
	}
	return Result{Status: StatusOK, Bundle: b}
}

// missingFields returns the mandatory fields absent from b under contract c,
// in a stable order.
func missingFields(b domain.MetadataBundle, c Contract) []string {
	var missing []string
	switch c {
	case ContractFAQs:
		if len(b.FAQs) == 0 {
			missing = append(missing, "faqs")
		}
	case ContractFullMetadata:
		if b.Description.Empty() {
			missing = append(missing, "description")
		}
		if len(b.FAQs) == 0 {
			missing = append(missing, "faqs")
		}
		if len(b.KeyMoments) == 0 {
			missing = append(missing, "keyMoments")
		}
		if strings.TrimSpace(b.MetaTitle) == "" {
			missing = append(missing, "metaTitle")
		}
		if strings.TrimSpace(b.MetaDescription) == "" {
			missing = append(missing, "metaDescription")
		}
	}
	return missing
}

// MergeFAQs appends the generated FAQs that are not already present in
// existing, comparing questions case-insensitively after trimming. The
// model is told to avoid recreating existing questions, but its compliance
// is not trusted; this re-verification is authoritative. Existing entries
// and their order are preserved.
func MergeFAQs(existing, generated []domain.FAQ) []domain.FAQ {
	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[faqKey(f.Question)] = struct{}{}
	}
	out := make([]domain.FAQ, len(existing), len(existing)+len(generated))
	copy(out, existing)
	for _, f := range generated {
		k := faqKey(f.Question)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	return out
}

// MergeKeyMoments appends generated key moments whose labels are novel,
// with the same semantics as MergeFAQs.
func MergeKeyMoments(existing, generated []domain.KeyMoment) []domain.KeyMoment {
	seen := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		seen[faqKey(m.Label)] = struct{}{}
	}
	out := make([]domain.KeyMoment, len(existing), len(existing)+len(generated))
	copy(out, existing)
	for _, m := range generated {
		k := faqKey(m.Label)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}

// faqKey normalizes an insight label/question for set comparison.
func faqKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
