// Package validate checks records before they reach a store. The stores
// trust their input; callers that accept user input run it through here
// first.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/balkashynov/daybook/internal/models"
)

// ErrInvalid is wrapped by every error this package returns.
var ErrInvalid = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("calendardate", layoutRule(models.DateLayout))
	_ = v.RegisterValidation("clock", layoutRule(models.ClockLayout))
	v.RegisterStructValidation(sessionRules, models.Session{})
	v.RegisterStructValidation(newTaskRules, models.NewTask{})
	v.RegisterStructValidation(taskUpdateRules, models.TaskUpdate{})
	return v
}

// layoutRule accepts strings that parse with the given time layout.
func layoutRule(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, fl.Field().String())
		return err == nil
	}
}

// sessionRules keeps breaks inside the session they belong to.
func sessionRules(sl validator.StructLevel) {
	s := sl.Current().Interface().(models.Session)
	for i, b := range s.Breaks {
		if b.Start.Before(s.StartTime) || b.End.After(s.EndTime) {
			sl.ReportError(s.Breaks[i], fmt.Sprintf("Breaks[%d]", i), "Breaks", "withinsession", "")
		}
	}
}

func newTaskRules(sl validator.StructLevel) {
	t := sl.Current().Interface().(models.NewTask)
	if t.RecurringPattern != "" && !t.IsRecurring {
		sl.ReportError(t.RecurringPattern, "RecurringPattern", "RecurringPattern", "recurringonly", "")
	}
}

func taskUpdateRules(sl validator.StructLevel) {
	u := sl.Current().Interface().(models.TaskUpdate)
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		sl.ReportError(*u.Title, "Title", "Title", "required", "")
	}
}

// Todo validates a todo before it is added or replaced.
func Todo(item models.TodoItem) error {
	item.Title = strings.TrimSpace(item.Title)
	return check(item)
}

// NewTask validates a task creation request, sessions included.
func NewTask(t models.NewTask) error {
	t.Title = strings.TrimSpace(t.Title)
	return check(t)
}

// TaskUpdate validates a partial task update.
func TaskUpdate(u models.TaskUpdate) error {
	return check(u)
}

// Session validates one tracked session and its breaks.
func Session(s models.Session) error {
	return check(s)
}

// Category validates a category creation request.
func Category(c models.NewCategory) error {
	c.Name = strings.TrimSpace(c.Name)
	return check(c)
}

func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, describe(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(messages, "; "))
}

func describe(e validator.FieldError) string {
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "calendardate":
		return fmt.Sprintf("%s %q is not a YYYY-MM-DD date", field, e.Value())
	case "clock":
		return fmt.Sprintf("%s %q is not an HH:MM time", field, e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "unique":
		return field + " contains duplicates"
	case "gtefield":
		return fmt.Sprintf("%s is before %s", field, e.Param())
	case "withinsession":
		return field + " falls outside the session"
	case "recurringonly":
		return field + " is set on a task that does not recur"
	case "hexcolor":
		return fmt.Sprintf("%s %q is not a hex colour", field, e.Value())
	default:
		return fmt.Sprintf("%s failed rule '%s'", field, e.Tag())
	}
}
