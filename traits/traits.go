// Package traits defines entity behavior tags.
//
// A behavior string such as "<.s" is an unordered set of single-character
// capabilities. It is parsed once into a Tag bitmask so systems can test
// capabilities without string scans.
package traits

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTag is returned when a behavior string contains an unknown character.
var ErrUnknownTag = errors.New("unknown behavior tag")

// Tag is a set of behavior capabilities.
type Tag uint16

const (
	Chase  Tag = 1 << iota // '<' retarget near the player
	Avoid                  // '>' flee the player when close
	Wander                 // '.' drift to random nearby points
	Solid                  // 'd' pushable solid
	Static                 // 'D' immovable
	Wall                   // 'W' immovable, absorbs projectiles
	Melee                  // 'm' knockback on both sides of a strike
	Shooty                 // 's' fires at the player
)

// None is the empty tag set.
const None Tag = 0

var tagChars = []struct {
	ch   byte
	tag  Tag
	name string
}{
	{'<', Chase, "Chase"},
	{'>', Avoid, "Avoid"},
	{'.', Wander, "Wander"},
	{'d', Solid, "Solid"},
	{'D', Static, "Static"},
	{'W', Wall, "Wall"},
	{'m', Melee, "Melee"},
	{'s', Shooty, "Shooty"},
}

// Parse converts a behavior string into a tag set. Repeated characters are
// allowed; any character outside the tag alphabet is an error.
func Parse(s string) (Tag, error) {
	var t Tag
	for i := 0; i < len(s); i++ {
		found := false
		for _, tc := range tagChars {
			if tc.ch == s[i] {
				t |= tc.tag
				found = true
				break
			}
		}
		if !found {
			return None, fmt.Errorf("%w %q in %q", ErrUnknownTag, s[i], s)
		}
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Tag {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Has checks if the set contains all of other.
func (t Tag) Has(other Tag) bool {
	return t&other == other && other != 0
}

// Any checks if the set contains any of other.
func (t Tag) Any(other Tag) bool {
	return t&other != 0
}

// Add adds tags to the set.
func (t Tag) Add(other Tag) Tag {
	return t | other
}

// Remove removes tags from the set.
func (t Tag) Remove(other Tag) Tag {
	return t &^ other
}

// Immovable reports whether separation and knockback must leave the entity in place.
func (t Tag) Immovable() bool {
	return t.Any(Static | Wall)
}

// String returns the canonical behavior string.
func (t Tag) String() string {
	var b strings.Builder
	for _, tc := range tagChars {
		if t.Has(tc.tag) {
			b.WriteByte(tc.ch)
		}
	}
	return b.String()
}

// Names returns human-readable names for the tags in the set.
func Names(t Tag) []string {
	var names []string
	for _, tc := range tagChars {
		if t.Has(tc.tag) {
			names = append(names, tc.name)
		}
	}
	return names
}

// MarshalText encodes the set as its behavior string.
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a behavior string.
func (t *Tag) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
