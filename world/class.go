package world

import (
	"fmt"

	"github.com/milk9111/sketchbook/common"
)

// Class identifies a concrete object type. Each type declares one package
// level *Class and passes it to NewBase; the pointer is the identity.
type Class struct {
	name    string
	statics bool
}

// NewClass declares a class. statics marks a class whose instances share
// resources that must be released by a registered StaticTeardown.
func NewClass(name string, statics bool) *Class {
	return &Class{name: name, statics: statics}
}

func (c *Class) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

func (c *Class) HasStatics() bool {
	return c != nil && c.statics
}

func (c *Class) String() string { return c.Name() }

// StaticTeardown releases what every instance of a class shares.
type StaticTeardown interface {
	DisposeStatics() error
}

// TeardownFunc adapts a function to StaticTeardown.
type TeardownFunc func() error

func (f TeardownFunc) DisposeStatics() error { return f() }

// ClassTable maps classes to their static teardown.
type ClassTable struct {
	teardowns map[*Class]StaticTeardown
}

func NewClassTable() *ClassTable {
	return &ClassTable{teardowns: make(map[*Class]StaticTeardown)}
}

// Register sets the teardown for c, replacing an earlier one.
func (t *ClassTable) Register(c *Class, td StaticTeardown) error {
	if c == nil || td == nil {
		return fmt.Errorf("%w: class table entry needs a class and a teardown", common.ErrInvalidArgument)
	}
	t.teardowns[c] = td
	return nil
}

func (t *ClassTable) Lookup(c *Class) (StaticTeardown, bool) {
	if t == nil {
		return nil, false
	}
	td, ok := t.teardowns[c]
	return td, ok
}
