// Package prompt builds the instruction text sent to the upstream model for
// each generation task. Builders are pure functions of their inputs: the same
// title, source material, and exclusion list always produce the same string.
//
// Every prompt embeds two contracts the rest of the pipeline depends on:
// the exact JSON shape the extractor validates (field names and nesting), and
// a restriction to the supplied source material so the model does not invent
// content the transcript or article cannot support.
package prompt

import (
	"fmt"
	"strings"
)

// FAQs builds the prompt for the standalone FAQ generation task.
func FAQs(title, transcript string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the transcript of the YouTube video titled %q, generate a list of 3-5 frequently asked questions (FAQs) that the video answers. ", title)
	b.WriteString("The questions should be concise and relevant to the video's main topics. ")
	b.WriteString("The answers should be clear summaries derived directly from the transcript content. ")
	b.WriteString("Your knowledge is strictly limited to the provided transcript; do not use any external knowledge.\n\n")
	b.WriteString("Return ONLY a single, valid JSON object with this structure:\n")
	b.WriteString(`{ "faqs": [{ "question": "string", "answer": "string" }] }`)
	b.WriteString("\n\nTranscript:\n---\n")
	b.WriteString(transcript)
	b.WriteString("\n---\n")
	return b.String()
}

// MoreFAQs builds the prompt for the additive "generate more" FAQ task.
// The existing questions are serialized into the instructions as an exclusion
// list. The model is told not to recreate them, but the caller still
// re-verifies locally after extraction (extract.MergeFAQs); the prompt is a
// hint, the merge is the guarantee.
func MoreFAQs(title, transcript string, existingQuestions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the transcript of the YouTube video titled %q, generate 3-5 NEW frequently asked questions that the video answers. ", title)
	b.WriteString("Your knowledge is strictly limited to the provided transcript; do not use any external knowledge.\n\n")
	if len(existingQuestions) > 0 {
		b.WriteString("The following questions already exist. Do NOT repeat or rephrase any of them:\n")
		for _, q := range existingQuestions {
			b.WriteString("- ")
			b.WriteString(q)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Return ONLY a single, valid JSON object with this structure:\n")
	b.WriteString(`{ "faqs": [{ "question": "string", "answer": "string" }] }`)
	b.WriteString("\n\nTranscript:\n---\n")
	b.WriteString(transcript)
	b.WriteString("\n---\n")
	return b.String()
}

// VideoMetadata builds the full metadata-generation prompt for a video.
func VideoMetadata(title, transcript string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical writer and content strategist for the YouTube channel 'Techiral'. ")
	b.WriteString("Your task is to analyze a video transcript and generate a comprehensive set of metadata to enhance its presentation and discoverability. ")
	b.WriteString("Your knowledge is strictly limited to the provided transcript.\n\n")
	b.WriteString("Based on the following video title and transcript, perform these five tasks:\n\n")
	b.WriteString("1. **Generate Scannable Summary:** Convert the video's description into a bulleted list. Each bullet point should be a concise, benefit-oriented sentence starting with a bolded keyword (e.g., \"**Craft** viral CGI ads...\").\n\n")
	b.WriteString("2. **Identify Target Audience:** Write a short, explicit sub-heading identifying the intended audience (e.g., \"A step-by-step guide for solopreneurs and indie creators.\").\n\n")
	b.WriteString("3. **Generate FAQs:** Create a list of 3-5 insightful FAQs that a curious developer might ask. Answers must be detailed and directly supported by the transcript.\n\n")
	b.WriteString("4. **Identify Key Moments:** Identify the most crucial segments. For each, provide the exact timestamp (e.g., \"(1:40)\") and a concise, action-oriented summary.\n\n")
	b.WriteString("5. **Generate SEO Metadata & CTA:**\n")
	b.WriteString("   - metaTitle: A compelling title under 60 characters.\n")
	b.WriteString("   - metaDescription: An enticing summary under 160 characters.\n")
	b.WriteString("   - ctaHeadline: A clear, unmistakable call-to-action headline for acquiring resources.\n")
	b.WriteString("   - ctaDescription: A short description of what the user will get (e.g., \"prompt list,\" \"checklist\").\n\n")
	b.WriteString("Return ONLY a single, valid JSON object with seven top-level keys: \"description\", \"targetAudience\", \"faqs\", \"keyMoments\", \"metaTitle\", \"metaDescription\", \"cta\". The structure must be:\n")
	b.WriteString(`{
  "description": ["string"],
  "targetAudience": "string",
  "faqs": [{ "question": "string", "answer": "string" }],
  "keyMoments": [{ "label": "string", "summary": "string" }],
  "metaTitle": "string",
  "metaDescription": "string",
  "cta": { "headline": "string", "description": "string" }
}`)
	fmt.Fprintf(&b, "\n\nVideo Title: %q\n\nTranscript:\n---\n%s\n---\n", title, transcript)
	return b.String()
}

// BlogMetadata builds the full metadata-generation prompt for a blog post.
func BlogMetadata(title, content string) string {
	var b strings.Builder
	b.WriteString("You are an expert technical writer and content strategist for the YouTube channel 'Techiral'. ")
	b.WriteString("Your task is to analyze a blog post and generate a comprehensive set of metadata to enhance its presentation and discoverability. ")
	b.WriteString("Your knowledge is strictly limited to the provided content.\n\n")
	b.WriteString("Based on the following blog title and content, perform these four tasks:\n\n")
	b.WriteString("1. **Generate Description:** Write an engaging, one-paragraph summary for the \"About this article\" section. It should hook the reader, explain the problem the article solves, and highlight the key takeaways.\n\n")
	b.WriteString("2. **Generate FAQs:** Create a list of 3-5 insightful FAQs that a curious developer might ask after reading. Questions should address potential ambiguities or explore related concepts mentioned in the article. Answers must be detailed, practical, and directly supported by the content.\n\n")
	b.WriteString("3. **Identify Key Takeaways:** Identify the most crucial sections or ideas. For each, provide a short, descriptive label (e.g., \"The Magic of useState\") and a concise summary of that idea.\n\n")
	b.WriteString("4. **Generate SEO Metadata:**\n")
	b.WriteString("   - metaTitle: A compelling title under 60 characters that is descriptive and highly clickable.\n")
	b.WriteString("   - metaDescription: An enticing summary under 160 characters that encourages users to click through from a search engine results page.\n\n")
	b.WriteString("Return ONLY a single, valid JSON object with five top-level keys: \"description\", \"faqs\", \"keyMoments\", \"metaTitle\", and \"metaDescription\". The \"keyMoments\" array objects should have \"label\" and \"summary\" keys. The structure must be:\n")
	b.WriteString(`{
  "description": "string",
  "faqs": [{ "question": "string", "answer": "string" }],
  "keyMoments": [{ "label": "string", "summary": "string" }],
  "metaTitle": "string",
  "metaDescription": "string"
}`)
	fmt.Fprintf(&b, "\n\nBlog Title: %q\n\nContent:\n---\n%s\n---\n", title, content)
	return b.String()
}

// ChatSystem builds the system instruction for the contextual chat widget.
// kind is "video" or "blog"; the stored transcript/article is injected
// server-side so the client cannot substitute its own context.
func ChatSystem(kind, title, material string) string {
	noun := "video"
	source := "transcript"
	if kind == "blog" {
		noun = "article"
		source = "content"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert AI assistant for the YouTube channel \"Techiral\". You are answering questions about a specific %s. ", noun)
	fmt.Fprintf(&b, "Your knowledge is strictly limited to the information provided in the %s's %s. Do not use any external knowledge. ", noun, source)
	fmt.Fprintf(&b, "If the answer cannot be found in the %s, clearly state that the %s does not cover that topic. ", source, noun)
	b.WriteString("Be friendly, concise, and helpful.\n\n")
	fmt.Fprintf(&b, "Here is the %s for the %s titled %q:\n---\n%s\n---", source, noun, title, material)
	return b.String()
}
