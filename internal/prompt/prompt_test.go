package prompt

import (
	"strings"
	"testing"
)

func TestFAQs_EmbedsSchemaAndMaterial(t *testing.T) {
	p := FAQs("Build a CGI ad", "the full transcript body")
	for _, want := range []string{
		`"Build a CGI ad"`,
		`"faqs"`,
		`"question"`,
		`"answer"`,
		"strictly limited to the provided transcript",
		"the full transcript body",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("FAQ prompt missing %q", want)
		}
	}
}

func TestFAQs_Deterministic(t *testing.T) {
	a := FAQs("t", "tr")
	b := FAQs("t", "tr")
	if a != b {
		t.Fatalf("prompt builder is not deterministic")
	}
}

func TestMoreFAQs_SerializesExclusionList(t *testing.T) {
	p := MoreFAQs("t", "tr", []string{"What is Go?", "Why modules?"})
	if !strings.Contains(p, "- What is Go?\n") || !strings.Contains(p, "- Why modules?\n") {
		t.Fatalf("exclusion list not serialized:\n%s", p)
	}
	if !strings.Contains(p, "Do NOT repeat") {
		t.Fatalf("exclusion instruction missing")
	}
}

func TestMoreFAQs_NoExclusionBlockWhenEmpty(t *testing.T) {
	p := MoreFAQs("t", "tr", nil)
	if strings.Contains(p, "already exist") {
		t.Fatalf("unexpected exclusion block for empty list")
	}
}

func TestVideoMetadata_EmbedsFullContract(t *testing.T) {
	p := VideoMetadata("My Video", "transcript text")
	for _, want := range []string{
		`"description"`, `"targetAudience"`, `"faqs"`, `"keyMoments"`,
		`"metaTitle"`, `"metaDescription"`, `"cta"`,
		"under 60 characters", "under 160 characters",
		"strictly limited to the provided transcript",
		"transcript text",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("video metadata prompt missing %q", want)
		}
	}
}

func TestBlogMetadata_EmbedsContract(t *testing.T) {
	p := BlogMetadata("My Post", "article body")
	for _, want := range []string{
		`"description"`, `"faqs"`, `"keyMoments"`, `"metaTitle"`, `"metaDescription"`,
		`"label"`, `"summary"`,
		"strictly limited to the provided content",
		"article body",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("blog metadata prompt missing %q", want)
		}
	}
	if strings.Contains(p, "ctaHeadline") {
		t.Fatalf("blog prompt must not request a CTA")
	}
}

func TestChatSystem_VideoVsBlogVocabulary(t *testing.T) {
	v := ChatSystem("video", "My Video", "the transcript")
	if !strings.Contains(v, "video's transcript") || !strings.Contains(v, "the transcript") {
		t.Fatalf("video chat system prompt wrong:\n%s", v)
	}
	b := ChatSystem("blog", "My Post", "the article text")
	if !strings.Contains(b, "article's content") || !strings.Contains(b, "the article text") {
		t.Fatalf("blog chat system prompt wrong:\n%s", b)
	}
}
