package forms

import (
	"fmt"

	"github.com/kiranfashion/console/internal/application/dto"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// Callers validate before parsing; parse errors only surface for inputs that
// skipped validation.

// ParseLogin builds the login request.
func ParseLogin(v Values) dto.LoginRequest {
	return dto.LoginRequest{Email: v.Get("email"), Password: v["password"]}
}

// ParseUser builds the user payload. The password is only sent on create.
func ParseUser(v Values, create bool) dto.UserInput {
	in := dto.UserInput{
		Name:  v.Get("name"),
		Email: v.Get("email"),
		Phone: PhoneDigits(v.Get("phone")),
	}
	if create {
		in.Password = v["password"]
	}
	return in
}

// ParseProduct builds the product payload.
func ParseProduct(v Values) (dto.ProductInput, error) {
	base, err := parseAmount(v, "base_amount")
	if err != nil {
		return dto.ProductInput{}, fmt.Errorf("base_amount: %w", err)
	}
	sell, err := parseAmount(v, "sell_amount")
	if err != nil {
		return dto.ProductInput{}, fmt.Errorf("sell_amount: %w", err)
	}
	return dto.ProductInput{
		Name:       v.Get("name"),
		BaseAmount: base,
		SellAmount: sell,
		Remark:     v.Get("remark"),
	}, nil
}

// ParseSale builds the sale payload; a blank discount is zero.
func ParseSale(v Values) (dto.SaleInput, error) {
	base, err := parseAmount(v, "base_amount")
	if err != nil {
		return dto.SaleInput{}, fmt.Errorf("base_amount: %w", err)
	}
	sell, err := parseAmount(v, "sell_amount")
	if err != nil {
		return dto.SaleInput{}, fmt.Errorf("sell_amount: %w", err)
	}
	discount, err := parseAmount(v, "discount")
	if err != nil {
		return dto.SaleInput{}, fmt.Errorf("discount: %w", err)
	}
	return dto.SaleInput{
		ProductID:  v.Get("product_id"),
		BaseAmount: base,
		SellAmount: sell,
		Discount:   discount,
		Remark:     v.Get("remark"),
	}, nil
}

// ParseNote builds the note payload.
func ParseNote(v Values) dto.NoteInput {
	return dto.NoteInput{Title: v.Get("title"), Description: v.Get("description")}
}

// ParseChangePassword builds the change password payload for userID.
func ParseChangePassword(v Values, userID string) dto.ChangePasswordRequest {
	return dto.ChangePasswordRequest{Password: v["new_password"], UserID: userID}
}

// UserValues pre-fills the edit form.
func UserValues(u entity.User) Values {
	return Values{"name": u.Name, "email": u.Email, "phone": u.Phone}
}

// ProductValues pre-fills the edit form.
func ProductValues(p entity.Product) Values {
	return Values{
		"name":        p.Name,
		"base_amount": p.BaseAmount.String(),
		"sell_amount": p.SellAmount.String(),
		"remark":      p.Remark,
	}
}

// SaleValues pre-fills the edit form.
func SaleValues(s entity.Sale) Values {
	return Values{
		"product_id":  s.Product.ID,
		"base_amount": s.BaseAmount.String(),
		"sell_amount": s.SellAmount.String(),
		"discount":    s.Discount.String(),
		"remark":      s.Remark,
	}
}

// NoteValues pre-fills the edit form.
func NoteValues(n entity.Note) Values {
	return Values{"title": n.Title, "description": n.Description}
}

// NewSaleValues returns a blank sale form.
func NewSaleValues() Values {
	return Values{"discount": "0"}
}

// SelectProduct applies a product pick to the sale form. Base and sell amounts
// are copied from p only when the selection changes, so manual edits survive
// re-submitting the same product.
func SelectProduct(v Values, p entity.Product) Values {
	out := v.Clone()
	if out.Get("product_id") == p.ID {
		return out
	}
	out["product_id"] = p.ID
	out["base_amount"] = p.BaseAmount.String()
	out["sell_amount"] = p.SellAmount.String()
	return out
}
