// Package cooking implements interactive cooking mode: a step cursor over a
// recipe's instructions, per-step completion, an ingredient checklist and a
// countdown timer, plus the machinery to host many such sessions behind an
// HTTP API.
//
// Session and Timer are plain state machines with no locking and no clock.
// Indices outside the recipe's bounds are caller bugs and panic; nothing
// else can fail.
package cooking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/findosh/myrecipes/internal/models"
)

// Sentinel errors.
var (
	ErrNoInstructions  = errors.New("recipe has no instructions")
	ErrSessionNotFound = errors.New("cooking session not found")
)

// Notification texts.
const (
	TitleRecipeComplete = "Recipe Complete!"
	TitleTimerFinished  = "Timer Finished!"
	msgRecipeComplete   = "Congratulations! You've finished cooking this recipe."
	msgTimerFinished    = "Time's up for this cooking step!"
)

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets where completion and timer notifications go.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithLogger sets the logger used for swallowed notification failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// Session tracks progress through one recipe.
type Session struct {
	recipeID    string
	title       string
	steps       []string
	ingredients []string

	current   int
	completed []bool
	checked   []bool
	timer     *Timer

	notifier Notifier
	log      *slog.Logger
}

// NewSession binds a session to recipe. The recipe must have at least one
// instruction.
func NewSession(recipe models.Recipe, opts ...Option) (*Session, error) {
	if len(recipe.Instructions) == 0 {
		return nil, fmt.Errorf("recipe %s: %w", recipe.ID, ErrNoInstructions)
	}
	r := recipe.Clone()
	s := &Session{
		recipeID:    r.ID,
		title:       r.Title,
		steps:       r.Instructions,
		ingredients: r.Ingredients,
		completed:   make([]bool, len(r.Instructions)),
		checked:     make([]bool, len(r.Ingredients)),
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timer = NewTimer(func(ctx context.Context) {
		s.notify(ctx, TitleTimerFinished, msgTimerFinished)
	})
	return s, nil
}

// Advance moves to the next step, stopping at the last one.
func (s *Session) Advance() {
	if s.current < len(s.steps)-1 {
		s.current++
	}
}

// Retreat moves to the previous step, stopping at the first one.
func (s *Session) Retreat() {
	if s.current > 0 {
		s.current--
	}
}

// JumpTo selects step i directly. Panics if i is out of range.
func (s *Session) JumpTo(i int) {
	s.mustStep(i)
	s.current = i
}

// CompleteStep marks step i done. Completing the last step for the first
// time sends the recipe-complete notification. Panics if i is out of range.
func (s *Session) CompleteStep(ctx context.Context, i int) {
	s.mustStep(i)
	if s.completed[i] {
		return
	}
	s.completed[i] = true
	if i == len(s.steps)-1 {
		s.notify(ctx, TitleRecipeComplete, msgRecipeComplete)
	}
}

// ToggleIngredient flips the checked flag of ingredient j and returns the
// new value. Panics if j is out of range.
func (s *Session) ToggleIngredient(j int) bool {
	if j < 0 || j >= len(s.checked) {
		panic(fmt.Sprintf("cooking: ingredient index %d out of range [0,%d)", j, len(s.checked)))
	}
	s.checked[j] = !s.checked[j]
	return s.checked[j]
}

// Tick forwards one elapsed second to the timer.
func (s *Session) Tick(ctx context.Context) {
	s.timer.Tick(ctx)
}

// Timer returns the session's countdown timer.
func (s *Session) Timer() *Timer { return s.timer }

// CurrentStep returns the zero-based index of the displayed step.
func (s *Session) CurrentStep() int { return s.current }

// StepCount returns the number of instructions.
func (s *Session) StepCount() int { return len(s.steps) }

// IngredientCount returns the number of ingredients.
func (s *Session) IngredientCount() int { return len(s.ingredients) }

// ProgressPercent is the cursor position as a percentage of the recipe.
func (s *Session) ProgressPercent() float64 {
	return float64(s.current+1) / float64(len(s.steps)) * 100
}

// StepsCompleted counts completed steps.
func (s *Session) StepsCompleted() int { return countTrue(s.completed) }

// IngredientsChecked counts checked ingredients.
func (s *Session) IngredientsChecked() int { return countTrue(s.checked) }

// IsStepCompleted reports whether step i is done.
func (s *Session) IsStepCompleted(i int) bool {
	s.mustStep(i)
	return s.completed[i]
}

// AllComplete reports whether every step is done.
func (s *Session) AllComplete() bool {
	return s.StepsCompleted() == len(s.steps)
}

// State is a JSON-friendly snapshot of a session.
type State struct {
	ID                 string        `json:"id,omitempty"`
	RecipeID           string        `json:"recipeId"`
	RecipeTitle        string        `json:"recipeTitle"`
	CurrentStep        int           `json:"currentStep"`
	StepCount          int           `json:"stepCount"`
	Instruction        string        `json:"instruction"`
	CompletedSteps     []bool        `json:"completedSteps"`
	CheckedIngredients []bool        `json:"checkedIngredients"`
	StepsCompleted     int           `json:"stepsCompleted"`
	IngredientsChecked int           `json:"ingredientsChecked"`
	ProgressPercent    float64       `json:"progressPercent"`
	Complete           bool          `json:"complete"`
	Timer              TimerSnapshot `json:"timer"`
}

// Snapshot copies the session into a State.
func (s *Session) Snapshot() State {
	return State{
		RecipeID:           s.recipeID,
		RecipeTitle:        s.title,
		CurrentStep:        s.current,
		StepCount:          len(s.steps),
		Instruction:        s.steps[s.current],
		CompletedSteps:     append([]bool(nil), s.completed...),
		CheckedIngredients: append([]bool{}, s.checked...),
		StepsCompleted:     s.StepsCompleted(),
		IngredientsChecked: s.IngredientsChecked(),
		ProgressPercent:    s.ProgressPercent(),
		Complete:           s.AllComplete(),
		Timer:              s.timer.Snapshot(),
	}
}

func (s *Session) mustStep(i int) {
	if i < 0 || i >= len(s.steps) {
		panic(fmt.Sprintf("cooking: step index %d out of range [0,%d)", i, len(s.steps)))
	}
}

func (s *Session) notify(ctx context.Context, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, title, message); err != nil {
		s.log.WarnContext(ctx, "notification dropped", "recipe", s.recipeID, "title", title, "error", err)
	}
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
