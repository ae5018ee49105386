package model

import "github.com/tailored-agentic-units/recordstore/record"

var _ record.Record = (*User)(nil)

// User is a named account.
type User struct {
	record.Base
	name string
}

// NewUser creates a user. id may be empty.
func NewUser(id, name string) *User {
	return &User{Base: record.NewBase(id), name: name}
}

func (*User) Collection() string { return Users }

func (u *User) Name() string {
	var name string
	u.View(func() { name = u.name })
	return name
}

// SetName updates the name and emits a "name" change.
func (u *User) SetName(name string) {
	u.Update("name", func() { u.name = name })
}

func (u *User) Fields() map[string]any {
	return map[string]any{"name": u.Name()}
}
