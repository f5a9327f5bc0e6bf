// Package settings holds the three persisted display options of the debug bar and the
// admin form that edits them.
//
// A Store can be empty: nothing was ever saved, or the options were cleared on uninstall.
// Callers treat an empty store as "do not render the bar".
package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalid is returned when a Settings value fails validation.
	ErrInvalid = errors.New("settings: invalid")
	// ErrEmpty is returned by MustLoad-style helpers when the store holds nothing.
	ErrEmpty = errors.New("settings: empty")
)

// Position is the docked corner of the bar.
type Position string

const (
	TopLeft     Position = "top_left"
	TopRight    Position = "top_right"
	BottomLeft  Position = "bottom_left"
	BottomRight Position = "bottom_right"
)

// Positions lists every valid Position in form order.
var Positions = []Position{TopLeft, TopRight, BottomLeft, BottomRight}

// IsLeft reports whether the position is on the left edge.
func (p Position) IsLeft() bool { return strings.Contains(string(p), "left") }

// Label is the human-readable form label.
func (p Position) Label() string {
	switch p {
	case TopLeft:
		return "Top left"
	case TopRight:
		return "Top right"
	case BottomLeft:
		return "Bottom left"
	case BottomRight:
		return "Bottom right"
	default:
		return string(p)
	}
}

// Appearance selects icons, text or both for each link.
type Appearance string

const (
	Both  Appearance = "both"
	Icons Appearance = "icons"
	Text  Appearance = "text"
)

// Appearances lists every valid Appearance in form order.
var Appearances = []Appearance{Both, Icons, Text}

// Label is the human-readable form label.
func (a Appearance) Label() string {
	switch a {
	case Both:
		return "Icons and text"
	case Icons:
		return "Icons only"
	case Text:
		return "Text only"
	default:
		return string(a)
	}
}

// Settings is the persisted configuration.
type Settings struct {
	// Float detaches the bar from the page edge and lets the user drag it.
	Float      bool       `toml:"float" json:"float"`
	Position   Position   `toml:"position" json:"position" validate:"oneof=top_left top_right bottom_left bottom_right"`
	Appearance Appearance `toml:"appearance" json:"appearance" validate:"oneof=both icons text"`
}

// Default returns the settings installed on first use.
func Default() Settings {
	return Settings{Float: false, Position: TopLeft, Appearance: Both}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks s. The returned error wraps ErrInvalid and, when produced by field checks,
// a *FieldErrors listing every offending field.
func (s Settings) Validate() error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fe := &FieldErrors{}
	for _, v := range verrs {
		fe.Fields = append(fe.Fields, FieldError{Field: strings.ToLower(v.Field()), Value: fmt.Sprint(v.Value())})
	}
	return fmt.Errorf("%w: %w", ErrInvalid, fe)
}

// FieldError is a single rejected field.
type FieldError struct {
	Field string
	Value string
}

// FieldErrors lists the rejected fields of one Validate call.
type FieldErrors struct {
	Fields []FieldError
}

func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s=%q", f.Field, f.Value))
	}
	return "bad value for " + strings.Join(parts, ", ")
}

// Has reports whether field was rejected.
func (e *FieldErrors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
