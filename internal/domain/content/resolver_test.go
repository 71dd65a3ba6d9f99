package content

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trainhub/trainhub-backend/internal/types"
)

func TestCurrentPicksMostRecent(t *testing.T) {
	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	older := types.CourseContent{ID: uuid.New(), Type: types.ContentText, CreatedAt: base}
	newer := types.CourseContent{ID: uuid.New(), Type: types.ContentVideo, CreatedAt: base.Add(time.Hour)}

	got := Current([]types.CourseContent{older, newer})
	if got == nil || got.ID != newer.ID {
		t.Fatalf("Current picked %+v, want the newer row", got)
	}

	// Input order must not matter.
	got = Current([]types.CourseContent{newer, older})
	if got == nil || got.ID != newer.ID {
		t.Fatalf("Current is order-dependent")
	}
}

func TestCurrentEmpty(t *testing.T) {
	if got := Current(nil); got != nil {
		t.Fatalf("Current(nil)=%+v, want nil", got)
	}
}

func TestCurrentTieBreaksDeterministically(t *testing.T) {
	at := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	a := types.CourseContent{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000a"), CreatedAt: at}
	b := types.CourseContent{ID: uuid.MustParse("00000000-0000-0000-0000-00000000000b"), CreatedAt: at}

	first := Current([]types.CourseContent{a, b})
	second := Current([]types.CourseContent{b, a})
	if first.ID != second.ID {
		t.Fatalf("tie broken differently depending on order: %s vs %s", first.ID, second.ID)
	}
}

func TestMode(t *testing.T) {
	cases := []struct {
		name    string
		content *types.CourseContent
		want    RenderMode
	}{
		{"text", &types.CourseContent{Type: types.ContentText}, ModeText},
		{"video", &types.CourseContent{Type: types.ContentVideo}, ModeVideo},
		{"image", &types.CourseContent{Type: types.ContentImage}, ModeImage},
		{"file", &types.CourseContent{Type: types.ContentFile}, ModeFile},
		{"unknown_type", &types.CourseContent{Type: types.ContentType("hologram")}, ModeEmpty},
		{"missing", nil, ModeEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Mode(tc.content); got != tc.want {
				t.Fatalf("Mode=%s, want %s", got, tc.want)
			}
		})
	}
}

func TestDecideSave(t *testing.T) {
	if got := DecideSave(nil); got != SaveCreate {
		t.Fatalf("no existing content must create, got %s", got)
	}
	if got := DecideSave(&types.CourseContent{ID: uuid.New()}); got != SaveUpdate {
		t.Fatalf("existing content must update, got %s", got)
	}
}
