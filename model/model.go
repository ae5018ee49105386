// Package model defines the concrete record types of the demo domain: users
// and the products they own.
package model

import (
	"fmt"

	"github.com/tailored-agentic-units/recordstore/store"
)

// Collection names.
const (
	Users    = "users"
	Products = "products"
)

// Register binds the users and products collections on s.
func Register(s *store.Store) error {
	if _, err := store.Register[*User](s, Users); err != nil {
		return fmt.Errorf("failed to register %s: %w", Users, err)
	}
	if _, err := store.Register[*Product](s, Products); err != nil {
		return fmt.Errorf("failed to register %s: %w", Products, err)
	}
	return nil
}
