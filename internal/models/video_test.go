package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewVideoLesson(t *testing.T) {
	req := CreateVideoRequest{
		Title:       "Sharpening 101",
		Description: "Keep your knives keen",
		VideoURL:    "https://example.com/v.mp4",
		Duration:    300,
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	now := time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC)
	v := NewVideoLesson("v1", req, now)

	if v.Views != 0 || v.Likes != 0 {
		t.Errorf("Expected zeroed counters, got views=%d likes=%d", v.Views, v.Likes)
	}
	if v.CreatedAt != "2024-03-09" {
		t.Errorf("Expected createdAt 2024-03-09, got %s", v.CreatedAt)
	}
	if v.Difficulty != SkillBeginner {
		t.Errorf("Expected default Beginner, got %s", v.Difficulty)
	}
	if v.Category != DefaultVideoCategory {
		t.Errorf("Expected default category, got %s", v.Category)
	}
	if v.CookID != DefaultCookID || v.CookName != DefaultCookName {
		t.Errorf("Expected default cook, got %s/%s", v.CookID, v.CookName)
	}
	if v.Tags == nil {
		t.Error("Expected non-nil tags")
	}
}

func TestCreateVideoRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateVideoRequest
		ok   bool
	}{
		{"valid", CreateVideoRequest{Title: "a", Description: "b", VideoURL: "https://x/y.mp4", Duration: 1}, true},
		{"path url", CreateVideoRequest{Title: "a", Description: "b", VideoURL: "/videos/y.mp4", Duration: 1}, true},
		{"missing url", CreateVideoRequest{Title: "a", Description: "b", Duration: 1}, false},
		{"relative url", CreateVideoRequest{Title: "a", Description: "b", VideoURL: "y.mp4", Duration: 1}, false},
		{"zero duration", CreateVideoRequest{Title: "a", Description: "b", VideoURL: "https://x/y.mp4"}, false},
		{"bad level", CreateVideoRequest{Title: "a", Description: "b", VideoURL: "https://x/y.mp4", Duration: 1, Difficulty: "Hard"}, false},
	}

	for _, tt := range tests {
		err := tt.req.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tt.name, err)
		}
	}
}

func TestVideoPatch_Apply(t *testing.T) {
	orig := VideoLesson{ID: "1", Title: "Old", Duration: 60, Difficulty: SkillBeginner, Tags: []string{"a"}, Views: 9}
	title := "New"
	level := "advanced"
	tags := []string{"b", " "}

	got, err := VideoPatch{Title: &title, Difficulty: &level, Tags: &tags}.Apply(orig)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Title != "New" || got.Difficulty != SkillAdvanced {
		t.Errorf("Expected patched fields, got %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "b" {
		t.Errorf("Expected tags [b], got %v", got.Tags)
	}
	if got.ID != "1" || got.Views != 9 {
		t.Error("Expected identity and counters to be preserved")
	}
	if orig.Title != "Old" || orig.Tags[0] != "a" {
		t.Error("Expected original to be untouched")
	}

	bad := 0
	if _, err := (VideoPatch{Duration: &bad}).Apply(orig); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for zero duration, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{480, "8:00"},
		{725, "12:05"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.expected {
			t.Errorf("FormatDuration(%d): expected %s, got %s", tt.seconds, tt.expected, got)
		}
	}
}

func TestVideoLesson_ContentTier(t *testing.T) {
	free := VideoLesson{IsPremium: false}
	paid := VideoLesson{IsPremium: true}

	if free.ContentTier() != TierFree {
		t.Errorf("Expected free tier, got %s", free.ContentTier())
	}
	if paid.ContentTier() != TierPremium {
		t.Errorf("Expected premium tier, got %s", paid.ContentTier())
	}
}
