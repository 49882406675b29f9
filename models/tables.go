package models

import "time"

type User struct {
	ID           int       `gorm:"primary_key;autoIncrement" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // always stored lower-cased
	PasswordHash string    `gorm:"not null" json:"-"`                 // json:"-" prevents password from being exposed in API
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Drafts       []Draft   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Draft struct {
	ID          int       `gorm:"primary_key;autoIncrement" json:"id"`
	UserID      int       `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	User        *User     `json:"-"`
	Versions    []Version `gorm:"constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

type Version struct {
	ID         int       `gorm:"primary_key;autoIncrement" json:"id"`
	DraftID    int       `gorm:"not null;index" json:"draft_id"`
	Name       string    `gorm:"not null" json:"name"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsCurrent  bool      `gorm:"not null;index" json:"is_current"`
	ShareToken *string   `gorm:"uniqueIndex;size:32" json:"-"` // nil until shared, never reassigned
	Tag        Tag       `gorm:"type:varchar(20);not null;default:draft" json:"tag"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Draft      *Draft    `json:"-"`
}

// IsFinal reports whether the version carries the final tag.
func (v *Version) IsFinal() bool {
	return v.Tag == TagFinal
}

func (v *Version) IsShared() bool {
	return v.ShareToken != nil && *v.ShareToken != ""
}

// DisplayName is the version name followed by its tag annotation, e.g. "v2.0 [Final]".
// Untagged versions show the bare name.
func (v *Version) DisplayName() string {
	if v.Tag == "" || v.Tag == TagDraft {
		return v.Name
	}
	return v.Name + " [" + v.Tag.Label() + "]"
}
