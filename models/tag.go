package models

import "strings"

// Tag labels the state of a version inside its draft. Every tag except
// TagDraft is exclusive: a draft holds at most one version per exclusive tag.
type Tag string

const (
	TagDraft          Tag = "draft"
	TagFinal          Tag = "final"
	TagReadyForReview Tag = "ready_for_review"
	TagWorking        Tag = "working"
)

var tagLabels = map[Tag]string{
	TagDraft:          "Draft",
	TagFinal:          "Final",
	TagReadyForReview: "Ready for review",
	TagWorking:        "Working",
}

// ParseTag normalizes s and reports whether it names a known tag.
func ParseTag(s string) (Tag, bool) {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t Tag) Valid() bool {
	_, ok := tagLabels[t]
	return ok
}

func (t Tag) Exclusive() bool {
	return t != TagDraft
}

func (t Tag) Label() string {
	if l, ok := tagLabels[t]; ok {
		return l
	}
	return string(t)
}

// Tags lists every known tag in display order.
func Tags() []Tag {
	return []Tag{TagDraft, TagWorking, TagReadyForReview, TagFinal}
}
