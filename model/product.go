package model

import "github.com/tailored-agentic-units/recordstore/record"

var _ record.Record = (*Product)(nil)

// Product is an item owned by a User through the userId foreign key.
type Product struct {
	record.Base
	product string
	userID  string
}

// NewProduct creates a product. id and userID may be empty.
func NewProduct(id, product, userID string) *Product {
	return &Product{Base: record.NewBase(id), product: product, userID: userID}
}

func (*Product) Collection() string { return Products }

func (p *Product) Product() string {
	var product string
	p.View(func() { product = p.product })
	return product
}

// SetProduct updates the product name and emits a "product" change.
func (p *Product) SetProduct(product string) {
	p.Update("product", func() { p.product = product })
}

// UserID returns the owning user's id, or "" when unlinked.
func (p *Product) UserID() string {
	var id string
	p.View(func() { id = p.userID })
	return id
}

// User resolves the owning user through res.
func (p *Product) User(res record.Resolver) (*User, error) {
	return record.Related[*User](res, Users, p.UserID())
}

// SetUser links the product to u and emits a "userId" change. A user with an
// id that the store does not hold yet is appended to the users collection. A
// nil user, or one without an id, unlinks the product.
func (p *Product) SetUser(res record.Resolver, u *User) error {
	var model record.Record
	if u != nil {
		model = u
	}

	var id string
	if err := record.SetRelationship(res, Users, &id, model); err != nil {
		return err
	}

	p.Update("userId", func() { p.userID = id })
	return nil
}

func (p *Product) Fields() map[string]any {
	var fields map[string]any
	p.View(func() {
		fields = map[string]any{
			"product": p.product,
			"userId":  p.userID,
		}
	})
	return fields
}
