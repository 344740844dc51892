// Package skills extracts normalized skill sets from free text and compares them.
package skills

import (
	"sort"
	"strings"
)

// SkillSet is a set of skills keyed by their normalized form. The first
// display form added for a key is kept for output.
type SkillSet struct {
	items map[string]string
}

// New returns a set holding the given skills. Blank entries are ignored.
func New(values ...string) *SkillSet {
	s := &SkillSet{items: make(map[string]string, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was not present yet.
func (s *SkillSet) Add(v string) bool {
	key := Normalize(v)
	if key == "" {
		return false
	}
	if s.items == nil {
		s.items = make(map[string]string)
	}
	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = displayForm(v)
	return true
}

// Has reports whether v (in any spelling that normalizes to the same key) is in the set.
func (s *SkillSet) Has(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[Normalize(v)]
	return ok
}

func (s *SkillSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Keys returns the normalized keys in ascending order.
func (s *SkillSet) Keys() []string {
	if s == nil {
		return []string{}
	}
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns display forms ordered by their normalized key.
func (s *SkillSet) Values() []string {
	keys := s.Keys()
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, s.items[k])
	}
	return values
}

// Union returns a new set with the members of both sets. Display forms from s win.
func (s *SkillSet) Union(other *SkillSet) *SkillSet {
	out := s.clone()
	if other != nil {
		for k, v := range other.items {
			if _, ok := out.items[k]; !ok {
				out.items[k] = v
			}
		}
	}
	return out
}

// Intersect returns the members of s that are also in other, keeping display forms from s.
func (s *SkillSet) Intersect(other *SkillSet) *SkillSet {
	out := New()
	if s == nil || other == nil {
		return out
	}
	for k, v := range s.items {
		if _, ok := other.items[k]; ok {
			out.items[k] = v
		}
	}
	return out
}

// Difference returns the members of s that are not in other.
func (s *SkillSet) Difference(other *SkillSet) *SkillSet {
	out := New()
	if s == nil {
		return out
	}
	for k, v := range s.items {
		if other != nil {
			if _, ok := other.items[k]; ok {
				continue
			}
		}
		out.items[k] = v
	}
	return out
}

func (s *SkillSet) clone() *SkillSet {
	out := New()
	if s != nil {
		for k, v := range s.items {
			out.items[k] = v
		}
	}
	return out
}

func displayForm(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
