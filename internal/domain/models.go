// Package domain defines the content entities (videos, blog posts) and the
// AI-generated metadata attached to them, along with the chat conversation
// types. The persistence models are mapped with GORM for the relational
// backend; the KV backend serializes the same structs as JSON documents.
package domain

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// FAQ is a single generated question/answer pair attached to a video or blog.
// Immutable after extraction; field names follow the site's JSON contract.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// KeyMoment is a single generated highlight. For videos the label carries the
// timestamp (e.g. "(1:40)"); for blogs it is a short section label.
type KeyMoment struct {
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

// CallToAction holds the generated CTA copy for a video page.
type CallToAction struct {
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

// Description is a summary that the upstream model may return either as a
// plain string or as an ordered list of bullet points. It unmarshals from
// both shapes and always marshals as a list.
type Description []string

// UnmarshalJSON accepts both `"text"` and `["a","b"]` payload shapes.
func (d *Description) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*d = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = nil
		return nil
	}
	*d = Description{s}
	return nil
}

// Empty reports whether the description carries no usable text.
func (d Description) Empty() bool {
	for _, s := range d {
		if s != "" {
			return false
		}
	}
	return true
}

// MetadataBundle is the complete set of generated fields for one entity.
// A bundle is only ever persisted whole: validation rejects it entirely when
// a mandatory field is missing (see the extract package).
type MetadataBundle struct {
	Description     Description   `json:"description"`
	TargetAudience  string        `json:"targetAudience,omitempty"`
	FAQs            []FAQ         `json:"faqs"`
	KeyMoments      []KeyMoment   `json:"keyMoments"`
	MetaTitle       string        `json:"metaTitle"`
	MetaDescription string        `json:"metaDescription"`
	CTA             *CallToAction `json:"cta,omitempty"`
}

// Video represents a published YouTube video with its transcript and the
// generated metadata bundle merged into its own fields.
//
// Fields:
//   - ID: the YouTube video id (e.g. "72KcZewI0Ns"), primary key.
//   - Title / Transcript: admin-supplied source material for generation.
//   - Description..CTA: the merged MetadataBundle.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (relational backend only).
type Video struct {
	ID              string         `json:"id"               gorm:"type:varchar(64);primaryKey"`
	Title           string         `json:"title"            gorm:"type:varchar(255);not null"`
	Transcript      string         `json:"transcript"       gorm:"type:text;not null"`
	Description     Description    `json:"description"      gorm:"serializer:json"`
	TargetAudience  string         `json:"targetAudience,omitempty" gorm:"type:varchar(255)"`
	FAQs            []FAQ          `json:"faqs"             gorm:"serializer:json"`
	KeyMoments      []KeyMoment    `json:"keyMoments"       gorm:"serializer:json"`
	MetaTitle       string         `json:"metaTitle,omitempty"       gorm:"type:varchar(255)"`
	MetaDescription string         `json:"metaDescription,omitempty" gorm:"type:varchar(512)"`
	CTA             *CallToAction  `json:"cta,omitempty"    gorm:"serializer:json"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"                gorm:"index"`
}

// TableName returns the database table name for Video.
func (Video) TableName() string { return "videos" }

// ApplyBundle merges a validated metadata bundle into the video's fields.
// Existing insight collections are replaced, not appended; callers that want
// additive behavior de-duplicate first (see extract.MergeFAQs).
func (v *Video) ApplyBundle(b MetadataBundle) {
	v.Description = b.Description
	if b.TargetAudience != "" {
		v.TargetAudience = b.TargetAudience
	}
	v.FAQs = b.FAQs
	v.KeyMoments = b.KeyMoments
	v.MetaTitle = b.MetaTitle
	v.MetaDescription = b.MetaDescription
	if b.CTA != nil {
		v.CTA = b.CTA
	}
}

// Blog represents an imported article (typically mirrored from Medium) with
// its generated metadata bundle merged into its own fields.
type Blog struct {
	ID              string         `json:"id"               gorm:"type:varchar(128);primaryKey"`
	MediumURL       string         `json:"mediumUrl"        gorm:"type:varchar(512)"`
	Title           string         `json:"title"            gorm:"type:varchar(255);not null"`
	Content         string         `json:"content"          gorm:"type:text;not null"`
	ThumbnailURL    string         `json:"thumbnailUrl,omitempty" gorm:"type:varchar(512)"`
	Description     Description    `json:"description"      gorm:"serializer:json"`
	TargetAudience  string         `json:"targetAudience,omitempty" gorm:"type:varchar(255)"`
	FAQs            []FAQ          `json:"faqs"             gorm:"serializer:json"`
	KeyMoments      []KeyMoment    `json:"keyMoments"       gorm:"serializer:json"`
	MetaTitle       string         `json:"metaTitle,omitempty"       gorm:"type:varchar(255)"`
	MetaDescription string         `json:"metaDescription,omitempty" gorm:"type:varchar(512)"`
	CTA             *CallToAction  `json:"cta,omitempty"    gorm:"serializer:json"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-"                gorm:"index"`
}

// TableName returns the database table name for Blog.
func (Blog) TableName() string { return "blogs" }

// ApplyBundle merges a validated metadata bundle into the blog's fields.
func (b *Blog) ApplyBundle(m MetadataBundle) {
	b.Description = m.Description
	if m.TargetAudience != "" {
		b.TargetAudience = m.TargetAudience
	}
	b.FAQs = m.FAQs
	b.KeyMoments = m.KeyMoments
	b.MetaTitle = m.MetaTitle
	b.MetaDescription = m.MetaDescription
	if m.CTA != nil {
		b.CTA = m.CTA
	}
}

// Chat speaker roles. "model" is the legacy client-side alias for the
// assistant and is normalized before any upstream call.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleModel     = "model"
)

// ChatTurn is a single utterance within a conversation. Turns are append-only
// and strictly ordered by submission time for the lifetime of the session.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatSession owns the ordered turn sequence for one conversation, scoped to
// a single video or blog. Sessions live in memory and die with the process or
// an explicit delete; they are never persisted.
type ChatSession struct {
	ID          string     `json:"id"`
	SubjectKind string     `json:"subjectKind"` // "video" or "blog"
	SubjectID   string     `json:"subjectId"`
	Title       string     `json:"title,omitempty"` // derived from the first user message
	Turns       []ChatTurn `json:"turns"`
	CreatedAt   time.Time  `json:"created_at"`
}
