package displayers

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-addons/pkg/model"
)

var (
	// ErrInvalidDisplayer is returned for registrations without a name or
	// behaviour.
	ErrInvalidDisplayer = errors.New("displayers: invalid displayer")
	// ErrRegistrationConflict matches *RegistrationConflictError.
	ErrRegistrationConflict = errors.New("displayers: displayer already registered")
	// ErrUnresolvedDisplayer matches *UnresolvedDisplayerError.
	ErrUnresolvedDisplayer = errors.New("displayers: unresolved displayer")
)

// RegistrationConflictError reports a second registration under a taken name.
// Only strict registries return it.
type RegistrationConflictError struct {
	Name string
}

func (e *RegistrationConflictError) Error() string {
	return fmt.Sprintf("displayers: displayer %q is already registered", e.Name)
}

// Is lets errors.Is match ErrRegistrationConflict.
func (e *RegistrationConflictError) Is(target error) bool {
	return target == ErrRegistrationConflict
}

// UnresolvedDisplayerError signals a schema authoring defect: the field names
// no displayer and its type has no default displayer.
type UnresolvedDisplayerError struct {
	FieldType model.FieldType
	Displayer string
	Field     string
}

func (e *UnresolvedDisplayerError) Error() string {
	subject := "field"
	if e.Field != "" {
		subject = fmt.Sprintf("field %q", e.Field)
	}
	if e.FieldType == "" {
		return fmt.Sprintf("displayers: %s has no type and no displayer", subject)
	}
	return fmt.Sprintf("displayers: %s has no displayer and type %q has no default", subject, e.FieldType)
}

// Is lets errors.Is match ErrUnresolvedDisplayer.
func (e *UnresolvedDisplayerError) Is(target error) bool {
	return target == ErrUnresolvedDisplayer
}
