package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrInvalid  = errors.New("invalid input")
)

// Item is one catalog entry for a Canadian-made product.
type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PurchaseLink  string    `json:"purchaseLink"`
	Description   string    `json:"description"`
	ProofOfOrigin string    `json:"proofOfOrigin"`
	ImagePath     string    `json:"imagePath"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateFields carries the caller-supplied fields of a new item. All of them
// are required and must be non-blank after trimming.
type CreateFields struct {
	Name          string `json:"name"`
	PurchaseLink  string `json:"purchaseLink"`
	Description   string `json:"description"`
	ProofOfOrigin string `json:"proofOfOrigin"`
	ImagePath     string `json:"imagePath"`
}

func (f CreateFields) validate() error {
	for _, req := range []struct {
		field, value string
	}{
		{"name", f.Name},
		{"purchaseLink", f.PurchaseLink},
		{"description", f.Description},
		{"proofOfOrigin", f.ProofOfOrigin},
		{"imagePath", f.ImagePath},
	} {
		if strings.TrimSpace(req.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalid, req.field)
		}
	}
	return nil
}

// UpdateFields carries a partial update. Nil pointers mean "leave unchanged";
// a supplied field must still be non-blank.
type UpdateFields struct {
	Name          *string `json:"name"`
	PurchaseLink  *string `json:"purchaseLink"`
	Description   *string `json:"description"`
	ProofOfOrigin *string `json:"proofOfOrigin"`
	ImagePath     *string `json:"imagePath"`
}

func (f UpdateFields) validate() error {
	for _, opt := range []struct {
		field string
		value *string
	}{
		{"name", f.Name},
		{"purchaseLink", f.PurchaseLink},
		{"description", f.Description},
		{"proofOfOrigin", f.ProofOfOrigin},
		{"imagePath", f.ImagePath},
	} {
		if opt.value != nil && strings.TrimSpace(*opt.value) == "" {
			return fmt.Errorf("%w: %s must not be blank", ErrInvalid, opt.field)
		}
	}
	return nil
}

// apply returns a copy of it with the supplied fields replaced. ID and
// CreatedAt are never touched.
func (f UpdateFields) apply(it Item) Item {
	if f.Name != nil {
		it.Name = *f.Name
	}
	if f.PurchaseLink != nil {
		it.PurchaseLink = *f.PurchaseLink
	}
	if f.Description != nil {
		it.Description = *f.Description
	}
	if f.ProofOfOrigin != nil {
		it.ProofOfOrigin = *f.ProofOfOrigin
	}
	if f.ImagePath != nil {
		it.ImagePath = *f.ImagePath
	}
	return it
}
