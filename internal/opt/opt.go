// Package opt provides an explicit optional integer for configuration fields
// where "unset" must be distinguishable from zero.
package opt

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Int is an optional int. The zero value is unset.
type Int struct {
	v   int
	set bool
}

// None is the unset value.
var None = Int{}

// Some returns a set Int holding v.
func Some(v int) Int {
	return Int{v: v, set: true}
}

// Get returns the value and whether it is set.
func (o Int) Get() (int, bool) {
	return o.v, o.set
}

// IsSet reports whether o holds a value.
func (o Int) IsSet() bool {
	return o.set
}

// Or returns the held value or def when unset.
func (o Int) Or(def int) int {
	if o.set {
		return o.v
	}
	return def
}

func (o Int) String() string {
	if !o.set {
		return "none"
	}
	return fmt.Sprintf("%d", o.v)
}

// UnmarshalYAML treats null and "none" as unset.
func (o *Int) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" || node.Value == "none" {
		*o = None
		return nil
	}
	var v int
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalYAML writes unset values as null.
func (o Int) MarshalYAML() (any, error) {
	if !o.set {
		return nil, nil
	}
	return o.v, nil
}
