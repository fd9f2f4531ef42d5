package action

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/ivlev/parallaxus/internal/element"
)

// ErrUnknownAction is returned for action names nobody registered
var ErrUnknownAction = errors.New("unknown action")

// Spec names a registered action and its arguments
type Spec struct {
	Name string            `yaml:"name"`
	Args map[string]string `yaml:"args,omitempty"`
}

// Target is what trigger actions operate on
type Target interface {
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
	SetProperty(name, value string)
}

// Factory builds a callback for one target from the action arguments
type Factory func(target Target, args map[string]string, logger *log.Logger) (element.Callback, error)

// Observer is told about every action invocation
type Observer func(target Target, name string, direction int)

// Registry maps action names to factories. Trigger callbacks are always
// resolved through it, configuration never carries executable code.
type Registry struct {
	factories map[string]Factory
	observer  Observer
	logger    *log.Logger
}

// NewRegistry creates a registry with the built-in actions
func NewRegistry(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{
		factories: make(map[string]Factory),
		logger:    logger,
	}
	registerBuiltins(r)
	return r
}

// Register adds or replaces an action
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Observe installs fn as the invocation observer
func (r *Registry) Observe(fn Observer) {
	r.observer = fn
}

// Names lists the registered actions
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the callback for a single spec
func (r *Registry) Resolve(spec Spec, target Target) (element.Callback, error) {
	f, ok := r.factories[spec.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, spec.Name)
	}

	cb, err := f(target, spec.Args, r.logger)
	if err != nil {
		return nil, fmt.Errorf("action %s: %w", spec.Name, err)
	}

	name := spec.Name
	return func(direction int) {
		if r.observer != nil {
			r.observer(target, name, direction)
		}
		cb(direction)
	}, nil
}

// ResolveAll chains the callbacks of several specs in order; no specs yields nil
func (r *Registry) ResolveAll(specs []Spec, target Target) (element.Callback, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	callbacks := make([]element.Callback, 0, len(specs))
	for _, spec := range specs {
		cb, err := r.Resolve(spec, target)
		if err != nil {
			return nil, err
		}
		callbacks = append(callbacks, cb)
	}

	if len(callbacks) == 1 {
		return callbacks[0], nil
	}
	return func(direction int) {
		for _, cb := range callbacks {
			cb(direction)
		}
	}, nil
}
