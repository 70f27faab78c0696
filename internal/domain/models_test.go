package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTableNames(t *testing.T) {
	if (Video{}).TableName() != "videos" {
		t.Fatalf("Video table name unexpected")
	}
	if (Blog{}).TableName() != "blogs" {
		t.Fatalf("Blog table name unexpected")
	}
}

func TestDescription_UnmarshalString(t *testing.T) {
	var d Description
	if err := json.Unmarshal([]byte(`"a plain summary"`), &d); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if !reflect.DeepEqual(d, Description{"a plain summary"}) {
		t.Fatalf("got %#v", d)
	}
}

func TestDescription_UnmarshalList(t *testing.T) {
	var d Description
	if err := json.Unmarshal([]byte(`["**Craft** ads","**Ship** fast"]`), &d); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(d) != 2 || d[1] != "**Ship** fast" {
		t.Fatalf("got %#v", d)
	}
}

func TestDescription_UnmarshalInvalid(t *testing.T) {
	var d Description
	if err := json.Unmarshal([]byte(`42`), &d); err == nil {
		t.Fatalf("expected error for numeric description")
	}
}

func TestDescription_Empty(t *testing.T) {
	cases := []struct {
		in   Description
		want bool
	}{
		{nil, true},
		{Description{}, true},
		{Description{""}, true},
		{Description{"", "x"}, false},
		{Description{"x"}, false},
	}
	for i, c := range cases {
		if got := c.in.Empty(); got != c.want {
			t.Fatalf("case %d: Empty() = %v, want %v", i, got, c.want)
		}
	}
}

func TestVideo_ApplyBundle_ReplacesInsightsAndKeepsCTA(t *testing.T) {
	v := Video{
		ID:         "72KcZewI0Ns",
		Title:      "CGI ads",
		Transcript: "…",
		FAQs:       []FAQ{{Question: "old?", Answer: "old"}},
		CTA:        &CallToAction{Headline: "keep me"},
	}
	v.ApplyBundle(MetadataBundle{
		Description:     Description{"bullet"},
		FAQs:            []FAQ{{Question: "new?", Answer: "new"}},
		KeyMoments:      []KeyMoment{{Label: "(1:40)", Summary: "intro"}},
		MetaTitle:       "t",
		MetaDescription: "d",
	})
	if len(v.FAQs) != 1 || v.FAQs[0].Question != "new?" {
		t.Fatalf("FAQs not replaced: %#v", v.FAQs)
	}
	if v.CTA == nil || v.CTA.Headline != "keep me" {
		t.Fatalf("nil bundle CTA must not clear existing CTA")
	}
	if v.MetaTitle != "t" || v.MetaDescription != "d" {
		t.Fatalf("meta fields not applied")
	}
}

func TestBlog_ApplyBundle_SetsCTAWhenPresent(t *testing.T) {
	b := Blog{ID: "my-post", Title: "t", Content: "c"}
	b.ApplyBundle(MetadataBundle{
		Description: Description{"summary"},
		CTA:         &CallToAction{Headline: "h", Description: "d"},
	})
	if b.CTA == nil || b.CTA.Headline != "h" {
		t.Fatalf("CTA not applied: %#v", b.CTA)
	}
}

func TestVideo_JSONContract(t *testing.T) {
	v := Video{
		ID:         "id1",
		Title:      "t",
		Transcript: "tr",
		FAQs:       []FAQ{{Question: "Q", Answer: "A"}},
		KeyMoments: []KeyMoment{{Label: "(0:10)", Summary: "s"}},
	}
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	faqs, ok := m["faqs"].([]any)
	if !ok || len(faqs) != 1 {
		t.Fatalf("faqs shape unexpected: %#v", m["faqs"])
	}
	faq := faqs[0].(map[string]any)
	if faq["question"] != "Q" || faq["answer"] != "A" {
		t.Fatalf("faq keys must be question/answer, got %#v", faq)
	}
	km := m["keyMoments"].([]any)[0].(map[string]any)
	if km["label"] != "(0:10)" || km["summary"] != "s" {
		t.Fatalf("key moment keys must be label/summary, got %#v", km)
	}
	if _, present := m["cta"]; present {
		t.Fatalf("empty CTA must be omitted")
	}
}
