package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		input string
		want  Tag
		ok    bool
	}{
		{"draft", TagDraft, true},
		{"FINAL", TagFinal, true},
		{" ready_for_review ", TagReadyForReview, true},
		{"working", TagWorking, true},
		{"published", Tag("published"), false},
		{"", Tag(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTag(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTags(t *testing.T) {
	tags := Tags()
	assert.Equal(t, []Tag{TagDraft, TagWorking, TagReadyForReview, TagFinal}, tags)
	for _, tag := range tags {
		assert.True(t, tag.Valid(), tag)
	}
	assert.False(t, Tag("published").Valid())
	assert.False(t, Tag("").Valid())
}

func TestTagExclusive(t *testing.T) {
	assert.False(t, TagDraft.Exclusive())
	assert.True(t, TagFinal.Exclusive())
	assert.True(t, TagReadyForReview.Exclusive())
	assert.True(t, TagWorking.Exclusive())
}

func TestVersionDisplayName(t *testing.T) {
	v := &Version{Name: "v2.0", Tag: TagDraft}
	assert.Equal(t, "v2.0", v.DisplayName())
	assert.False(t, v.IsFinal())

	v.Tag = TagFinal
	assert.Equal(t, "v2.0 [Final]", v.DisplayName())
	assert.True(t, v.IsFinal())

	v.Tag = TagReadyForReview
	assert.Equal(t, "v2.0 [Ready for review]", v.DisplayName())
}

func TestVersionIsShared(t *testing.T) {
	v := &Version{}
	assert.False(t, v.IsShared())

	token := "abc"
	v.ShareToken = &token
	assert.True(t, v.IsShared())
}
