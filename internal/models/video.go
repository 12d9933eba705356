package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SkillLevel grades a video lesson
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

// AllSkillLevels returns video difficulties in display order
func AllSkillLevels() []SkillLevel {
	return []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}
}

// ParseSkillLevel matches a skill level case-insensitively
func ParseSkillLevel(s string) (SkillLevel, bool) {
	for _, l := range AllSkillLevels() {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}

// DateLayout is the calendar date format used for createdAt/joinedAt
const DateLayout = "2006-01-02"

// VideoLesson is a cooking lesson published by a cook
type VideoLesson struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Thumbnail   string     `json:"thumbnail" yaml:"thumbnail"`
	VideoURL    string     `json:"videoUrl" yaml:"videoUrl"`
	Duration    int        `json:"duration" yaml:"duration"` // seconds
	Difficulty  SkillLevel `json:"difficulty" yaml:"difficulty"`
	Category    string     `json:"category" yaml:"category"`
	Tags        []string   `json:"tags" yaml:"tags"`
	CookID      string     `json:"cookId" yaml:"cookId"`
	CookName    string     `json:"cookName" yaml:"cookName"`
	CookAvatar  string     `json:"cookAvatar" yaml:"cookAvatar"`
	IsPremium   bool       `json:"isPremium" yaml:"isPremium"`
	Views       int64      `json:"views" yaml:"views"`
	Likes       int64      `json:"likes" yaml:"likes"`
	CreatedAt   string     `json:"createdAt" yaml:"createdAt"`
	RecipeID    string     `json:"recipeId,omitempty" yaml:"recipeId,omitempty"`
}

// Clone returns a deep copy
func (v VideoLesson) Clone() VideoLesson {
	v.Tags = cloneStrings(v.Tags)
	return v
}

// ContentTier returns the access tier required to watch the lesson
func (v *VideoLesson) ContentTier() ContentTier {
	if v.IsPremium {
		return TierPremium
	}
	return TierFree
}

// FormattedDuration renders the duration as m:ss
func (v *VideoLesson) FormattedDuration() string {
	return FormatDuration(v.Duration)
}

// FormatDuration renders seconds as m:ss
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Cook is a published author of video lessons
type Cook struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Email            string   `json:"email" yaml:"email"`
	Avatar           string   `json:"avatar" yaml:"avatar"`
	Bio              string   `json:"bio" yaml:"bio"`
	Specialties      []string `json:"specialties" yaml:"specialties"`
	TotalVideos      int      `json:"totalVideos" yaml:"totalVideos"`
	TotalSubscribers int      `json:"totalSubscribers" yaml:"totalSubscribers"`
	IsVerified       bool     `json:"isVerified" yaml:"isVerified"`
	JoinedAt         string   `json:"joinedAt" yaml:"joinedAt"`
}

// Clone returns a deep copy
func (c Cook) Clone() Cook {
	c.Specialties = cloneStrings(c.Specialties)
	return c
}

// Defaults applied to optional video fields on creation
const (
	DefaultVideoThumbnail = "/placeholder.svg?height=300&width=400"
	DefaultVideoCategory  = "Cooking Basics"
	DefaultCookID         = "cook1"
	DefaultCookName       = "Chef User"
	DefaultCookAvatar     = "/placeholder.svg"
)

// CreateVideoRequest carries the fields accepted when publishing a lesson
type CreateVideoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	VideoURL    string   `json:"videoUrl"`
	Duration    int      `json:"duration"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CookID      string   `json:"cookId,omitempty"`
	CookName    string   `json:"cookName,omitempty"`
	CookAvatar  string   `json:"cookAvatar,omitempty"`
	IsPremium   bool     `json:"isPremium,omitempty"`
	RecipeID    string   `json:"recipeId,omitempty"`
}

// Validate checks required fields
func (req *CreateVideoRequest) Validate() error {
	var problems []string
	if strings.TrimSpace(req.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		problems = append(problems, "videoUrl is required")
	} else if u, err := url.Parse(req.VideoURL); err != nil || (u.Scheme == "" && !strings.HasPrefix(req.VideoURL, "/")) {
		problems = append(problems, "videoUrl must be an absolute URL or path")
	}
	if req.Duration <= 0 {
		problems = append(problems, "duration must be positive")
	}
	if req.Difficulty != "" {
		if _, ok := ParseSkillLevel(req.Difficulty); !ok {
			problems = append(problems, fmt.Sprintf("unknown difficulty %q", req.Difficulty))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// NewVideoLesson builds a lesson from a validated request with zeroed
// counters and createdAt stamped from now.
func NewVideoLesson(id string, req CreateVideoRequest, now time.Time) VideoLesson {
	level, ok := ParseSkillLevel(req.Difficulty)
	if !ok {
		level = SkillBeginner
	}
	return VideoLesson{
		ID:          id,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Thumbnail:   orDefault(req.Thumbnail, DefaultVideoThumbnail),
		VideoURL:    strings.TrimSpace(req.VideoURL),
		Duration:    req.Duration,
		Difficulty:  level,
		Category:    orDefault(req.Category, DefaultVideoCategory),
		Tags:        nonBlank(req.Tags),
		CookID:      orDefault(req.CookID, DefaultCookID),
		CookName:    orDefault(req.CookName, DefaultCookName),
		CookAvatar:  orDefault(req.CookAvatar, DefaultCookAvatar),
		IsPremium:   req.IsPremium,
		Views:       0,
		Likes:       0,
		CreatedAt:   now.UTC().Format(DateLayout),
		RecipeID:    strings.TrimSpace(req.RecipeID),
	}
}

// VideoPatch is a partial update; nil fields are left untouched
type VideoPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	VideoURL    *string   `json:"videoUrl,omitempty"`
	Duration    *int      `json:"duration,omitempty"`
	Difficulty  *string   `json:"difficulty,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	IsPremium   *bool     `json:"isPremium,omitempty"`
	RecipeID    *string   `json:"recipeId,omitempty"`
}

// Apply returns a copy of v with the patch merged in. Identity, cook and
// counters are never patched.
func (p VideoPatch) Apply(v VideoLesson) (VideoLesson, error) {
	out := v.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Thumbnail != nil {
		out.Thumbnail = *p.Thumbnail
	}
	if p.VideoURL != nil {
		out.VideoURL = *p.VideoURL
	}
	if p.Duration != nil {
		if *p.Duration <= 0 {
			return v, fmt.Errorf("%w: duration must be positive", ErrValidation)
		}
		out.Duration = *p.Duration
	}
	if p.Difficulty != nil {
		level, ok := ParseSkillLevel(*p.Difficulty)
		if !ok {
			return v, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, *p.Difficulty)
		}
		out.Difficulty = level
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Tags != nil {
		out.Tags = nonBlank(*p.Tags)
	}
	if p.IsPremium != nil {
		out.IsPremium = *p.IsPremium
	}
	if p.RecipeID != nil {
		out.RecipeID = *p.RecipeID
	}
	return out, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
