// Package generate runs batches of layered art generation: load a layer
// stack once, then derive a palette, recolour and composite per output.
package generate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/layertint/internal/palette"
	"github.com/jmylchreest/layertint/internal/security"
)

// Parameters configures one generation batch. Build it once, validate it,
// and treat it as read-only.
type Parameters struct {
	// InputDir is a directory of layer images or a layer archive bundle.
	InputDir  string `validate:"required"`
	OutputDir string `validate:"required"`
	// Count is the number of images to generate.
	Count int `validate:"min=1"`
	// Basename is the output filename stem: {Basename}_{n}.png.
	Basename string `validate:"required,basename"`

	// BaseColor is an optional "#rrggbb" base. Unparsable values fall back
	// to a random base per image.
	BaseColor   string
	Harmony     palette.Harmony `validate:"harmony"`
	Temperature float64         `validate:"gte=0,lte=1"`
	// Seed makes the batch reproducible; output i uses Seed+i.
	Seed *int64

	// Scale enlarges each output by an integer factor (nearest neighbour);
	// zero means 1.
	Scale     int `validate:"omitempty,min=1,max=64"`
	Overwrite bool
	// Manifest writes {Basename}_palettes.json describing every output.
	Manifest bool
}

// DefaultParameters returns the defaults used by the CLI.
func DefaultParameters() Parameters {
	return Parameters{
		Count:       10,
		Basename:    "art",
		Harmony:     palette.HarmonyAnalogous,
		Temperature: 0.1,
		Scale:       1,
	}
}

// SeedFor returns the palette seed for the zero-based output index.
func (p Parameters) SeedFor(index int) *int64 {
	if p.Seed == nil {
		return nil
	}
	s := *p.Seed + int64(index)
	return &s
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("harmony", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			h, ok := palette.ParseHarmony(name)
			return ok && h.String() == name
		})

		_ = v.RegisterValidation("basename", func(fl validator.FieldLevel) bool {
			return security.ValidateBasename(fl.Field().String()) == nil
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks the parameters and returns the first problem as a
// *ValidationError.
func (p Parameters) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func convertValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "min":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		msg = fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		msg = fmt.Sprintf("must be <= %s", fe.Param())
	case "harmony":
		msg = fmt.Sprintf("unknown harmony %q", fe.Value())
	case "basename":
		msg = "must be a plain file name without path separators"
	default:
		msg = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &ValidationError{Field: fe.Field(), Message: msg}
}
