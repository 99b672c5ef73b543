package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Error is a settings error with its source position, when CUE knows it.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseCUE evaluates CUE settings, unifies them with the #Config schema and
// decodes the result over Default. filename is used in error positions.
func ParseCUE(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var f fileConfig
	if err := unified.Decode(&f); err != nil {
		return Config{}, formatCUEError(err)
	}

	c := f.apply(Default())
	if err := c.Validate(); err != nil {
		return Config{}, &Error{Field: "config", Message: err.Error(), Pos: v.Pos()}
	}
	return c, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	path := "config"
	if p := first.Path(); len(p) > 0 {
		path = strings.Join(p, ".")
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: path, Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: path, Message: first.Error()}
}
