// Package registry holds the in-memory table of activities and the
// signup/unregister rules applied to their rosters.
//
// Activity names are fixed when the Registry is built. Each activity guards
// its own roster with a mutex, so concurrent signups against the same
// activity cannot produce duplicate entries.
package registry

import (
	"slices"
	"sort"
	"sync"
)

// Activity is a named extracurricular activity and its roster.
type Activity struct {
	Name            string   `json:"-" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

type entry struct {
	mu       sync.Mutex
	activity Activity
}

// snapshot returns a copy of the activity whose roster is safe to hand out.
func (e *entry) snapshot() Activity {
	e.mu.Lock()
	defer e.mu.Unlock()
	a := e.activity
	a.Participants = append(make([]string, 0, len(e.activity.Participants)), e.activity.Participants...)
	return a
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacityEnforcement makes Enroll reject signups once an activity has
// reached its max_participants.
func WithCapacityEnforcement(enabled bool) Option {
	return func(r *Registry) {
		r.enforceCapacity = enabled
	}
}

// WithRosterObserver registers fn to be called with the new roster size
// after every successful Enroll or Withdraw, and once per activity from New.
// fn runs while the activity is locked and must not call back into the Registry.
func WithRosterObserver(fn func(name string, size int)) Option {
	return func(r *Registry) {
		r.observer = fn
	}
}

// Registry is the process-wide activity table.
// The map itself is never written after New returns.
type Registry struct {
	entries         map[string]*entry
	enforceCapacity bool
	observer        func(name string, size int)
}

// New builds a Registry from a seed list. The seed is validated and copied;
// later changes to the slice do not affect the registry.
func New(activities []Activity, opts ...Option) (*Registry, error) {
	if err := validateSeed(activities); err != nil {
		return nil, err
	}

	r := &Registry{
		entries: make(map[string]*entry, len(activities)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, a := range activities {
		a.Participants = append(make([]string, 0, len(a.Participants)), a.Participants...)
		r.entries[a.Name] = &entry{activity: a}
		r.notify(a.Name, len(a.Participants))
	}
	return r, nil
}

// List returns every activity keyed by name.
func (r *Registry) List() map[string]Activity {
	out := make(map[string]Activity, len(r.entries))
	for name, e := range r.entries {
		out[name] = e.snapshot()
	}
	return out
}

// Get returns a single activity.
func (r *Registry) Get(name string) (Activity, error) {
	e, ok := r.entries[name]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return e.snapshot(), nil
}

// Names returns all activity names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of activities.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Enroll appends email to the roster of the named activity and returns the
// roster size after the change.
// Names and emails are matched exactly, without normalization.
func (r *Registry) Enroll(name, email string) (int, error) {
	e, ok := r.entries[name]
	if !ok {
		return 0, ErrActivityNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if slices.Contains(e.activity.Participants, email) {
		return len(e.activity.Participants), ErrAlreadyRegistered
	}
	if r.enforceCapacity && len(e.activity.Participants) >= e.activity.MaxParticipants {
		return len(e.activity.Participants), ErrActivityFull
	}

	e.activity.Participants = append(e.activity.Participants, email)
	size := len(e.activity.Participants)
	r.notify(name, size)
	return size, nil
}

// Withdraw removes email from the roster of the named activity and returns
// the roster size after the change.
func (r *Registry) Withdraw(name, email string) (int, error) {
	e, ok := r.entries[name]
	if !ok {
		return 0, ErrActivityNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	i := slices.Index(e.activity.Participants, email)
	if i < 0 {
		return len(e.activity.Participants), ErrNotRegistered
	}

	e.activity.Participants = slices.Delete(e.activity.Participants, i, i+1)
	size := len(e.activity.Participants)
	r.notify(name, size)
	return size, nil
}

// notify reports a roster size to the observer. Enroll and Withdraw hold the
// activity's lock, so observers see sizes in mutation order.
func (r *Registry) notify(name string, size int) {
	if r.observer != nil {
		r.observer(name, size)
	}
}
