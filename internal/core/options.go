package core

import (
	"strings"
	"time"
)

// DefaultPersonName is used for the open person set when nothing is configured.
const DefaultPersonName = "Unknown"

// DefaultHonestyScore is applied when a row has no usable Guna Honesty Meter.
const DefaultHonestyScore = 5

// PeoplePolicy describes who a tool can be assigned to.
//
// With no Named people the set is open: any non-blank value is kept and
// blanks fall back to Default. With Named people the set is closed: values
// must match a named person or the Shared value, otherwise the first named
// person is used.
type PeoplePolicy struct {
	Default string
	Named   []string
	Shared  string
}

// Closed reports whether assignment is restricted to a fixed enumeration.
func (p PeoplePolicy) Closed() bool {
	return len(p.Named) > 0
}

// DefaultPerson returns the fallback assignee.
func (p PeoplePolicy) DefaultPerson() string {
	if p.Closed() {
		return p.Named[0]
	}
	if p.Default == "" {
		return DefaultPersonName
	}
	return p.Default
}

// Members returns the full closed enumeration, shared value last.
func (p PeoplePolicy) Members() []string {
	members := append([]string(nil), p.Named...)
	if p.Shared != "" {
		members = append(members, p.Shared)
	}
	return members
}

// IsShared reports whether person is the combined assignee value.
func (p PeoplePolicy) IsShared(person string) bool {
	return p.Shared != "" && len(p.Named) > 0 && strings.EqualFold(person, p.Shared)
}

// Coerce maps a raw assignee to its canonical value. The second return
// is false when the input was replaced by the default.
func (p PeoplePolicy) Coerce(person string) (string, bool) {
	person = strings.TrimSpace(person)
	if person == "" {
		return p.DefaultPerson(), false
	}
	if !p.Closed() {
		return person, true
	}
	for _, m := range p.Members() {
		if strings.EqualFold(m, person) {
			return m, true
		}
	}
	return p.DefaultPerson(), false
}

// Options carries every default the pipeline applies. It is passed
// explicitly so callers and tests can vary it.
type Options struct {
	Aliases FieldAliasSet
	People  PeoplePolicy

	DefaultCategory Category
	DefaultHonesty  int

	// RenewalDefaultToday fills a missing renewal date with today's date
	// instead of leaving it nil.
	RenewalDefaultToday bool

	Now func() time.Time
}

// DefaultOptions returns the open-person-set configuration.
func DefaultOptions() Options {
	return Options{
		Aliases:         DefaultAliases(),
		People:          PeoplePolicy{Default: DefaultPersonName},
		DefaultCategory: CategoryNeed,
		DefaultHonesty:  DefaultHonestyScore,
		Now:             time.Now,
	}
}

// withDefaults fills zero-valued fields.
func (o Options) withDefaults() Options {
	if o.Aliases == nil {
		o.Aliases = DefaultAliases()
	}
	if o.DefaultCategory != CategoryWant {
		o.DefaultCategory = CategoryNeed
	}
	o.DefaultHonesty = ClampInt(o.DefaultHonesty, HonestyMin, HonestyMax)
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
