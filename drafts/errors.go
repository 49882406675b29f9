package drafts

import "errors"

var (
	ErrValidation      = errors.New("required field is empty")
	ErrNotFound        = errors.New("not found")
	ErrLastVersion     = errors.New("cannot delete the only version of a draft")
	ErrInvalidTag      = errors.New("invalid tag")
	ErrDifferentDrafts = errors.New("versions belong to different drafts")
)
