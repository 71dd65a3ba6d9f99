// Package content resolves which CourseContent row is "current" for a
// course and how it should be rendered or saved.
package content

import (
	"github.com/trainhub/trainhub-backend/internal/types"
)

// RenderMode is the rendering affordance dispatched purely on content type.
type RenderMode string

const (
	ModeText  RenderMode = "text"
	ModeVideo RenderMode = "video"
	ModeImage RenderMode = "image"
	ModeFile  RenderMode = "file"
	// ModeEmpty is the neutral empty state for missing content or an
	// unknown type; it never errors.
	ModeEmpty RenderMode = "empty"
)

// Current picks the course's single current content row. The schema allows
// several rows per course but the application treats content as one-to-one;
// when more than one exists, the most recent by creation wins. This is a
// documented simplification of the source model, kept until it is clear
// whether multiple rows mean an ordered syllabus or an accident.
func Current(contents []types.CourseContent) *types.CourseContent {
	var current *types.CourseContent
	for i := range contents {
		c := &contents[i]
		if current == nil {
			current = c
			continue
		}
		if c.CreatedAt.After(current.CreatedAt) {
			current = c
			continue
		}
		if c.CreatedAt.Equal(current.CreatedAt) && c.ID.String() > current.ID.String() {
			current = c
		}
	}
	return current
}

// Mode maps a content row to its render mode.
func Mode(c *types.CourseContent) RenderMode {
	if c == nil {
		return ModeEmpty
	}
	switch c.Type {
	case types.ContentText:
		return ModeText
	case types.ContentVideo:
		return ModeVideo
	case types.ContentImage:
		return ModeImage
	case types.ContentFile:
		return ModeFile
	default:
		return ModeEmpty
	}
}

// SaveAction is the create-vs-update branch: saving against a course with no
// content must create, never update.
type SaveAction string

const (
	SaveCreate SaveAction = "create"
	SaveUpdate SaveAction = "update"
)

func DecideSave(existing *types.CourseContent) SaveAction {
	if existing == nil {
		return SaveCreate
	}
	return SaveUpdate
}
