package forms_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranfashion/console/internal/application/forms"
	"github.com/kiranfashion/console/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sales form
// ──────────────────────────────────────────────────────────────────────────────

func TestSelectProduct_PrefillsAmounts(t *testing.T) {
	p := entity.Product{ID: "p1", Name: "Saree", BaseAmount: decimal.NewFromInt(100), SellAmount: decimal.NewFromInt(150)}

	v := forms.SelectProduct(forms.NewSaleValues(), p)
	assert.Equal(t, "p1", v["product_id"])
	assert.Equal(t, "100", v["base_amount"])
	assert.Equal(t, "150", v["sell_amount"])

	// Manual edit, then the same product again: the edit survives.
	v["sell_amount"] = "90"
	v = forms.SelectProduct(v, p)
	assert.Equal(t, "90", v["sell_amount"])

	errs := forms.SaleSchema.Validate(v)
	assert.Equal(t, forms.MsgSellNotAboveBase, errs["sell_amount"])
	assert.Equal(t, "Sell Amount should be greater than Base Amount.", errs["sell_amount"])
}

func TestSelectProduct_ChangingProductOverwrites(t *testing.T) {
	a := entity.Product{ID: "a", BaseAmount: decimal.NewFromInt(10), SellAmount: decimal.NewFromInt(20)}
	b := entity.Product{ID: "b", BaseAmount: decimal.NewFromInt(300), SellAmount: decimal.NewFromInt(450)}

	v := forms.SelectProduct(forms.NewSaleValues(), a)
	v["sell_amount"] = "25"
	v = forms.SelectProduct(v, b)
	assert.Equal(t, "300", v["base_amount"])
	assert.Equal(t, "450", v["sell_amount"])
}

func TestSaleSchema(t *testing.T) {
	ok := forms.Values{"product_id": "p1", "base_amount": "100", "sell_amount": "150", "discount": "0"}
	assert.True(t, forms.SaleSchema.Validate(ok).OK())

	errs := forms.SaleSchema.Validate(forms.Values{"sell_amount": "abc", "discount": "-5"})
	assert.Equal(t, "Product is required", errs["product_id"])
	assert.Equal(t, "Base Amount is required", errs["base_amount"])
	assert.Equal(t, "Sell Amount must be a number", errs["sell_amount"])
	assert.Equal(t, "Discount cannot be negative", errs["discount"])
	_, hasRemark := errs["remark"]
	assert.False(t, hasRemark)
}

func TestParseSale(t *testing.T) {
	in, err := forms.ParseSale(forms.Values{"product_id": "p1", "base_amount": "100.50", "sell_amount": "150", "remark": " gift "})
	require.NoError(t, err)
	assert.Equal(t, "100.5", in.BaseAmount.String())
	assert.True(t, in.Discount.IsZero())
	assert.Equal(t, "gift", in.Remark)

	_, err = forms.ParseSale(forms.Values{"base_amount": "x"})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Users
// ──────────────────────────────────────────────────────────────────────────────

func TestUserSchema_Phone(t *testing.T) {
	s := forms.UserSchema(false)
	base := forms.Values{"name": "Asha", "email": "asha@kiran.in"}

	cases := map[string]string{
		"":               "Phone number is required",
		"12345":          "Phone number must be 10 digits",
		"1111111111":     "Phone number must be a valid number",
		"98765 43210":    "",
		"(987) 654-3210": "",
	}
	for phone, want := range cases {
		v := base.Clone()
		v["phone"] = phone
		msg, known := s.ValidateField("phone", v)
		assert.True(t, known)
		assert.Equal(t, want, msg, "phone %q", phone)
	}
}

func TestUserSchema_EmailAndPassword(t *testing.T) {
	v := forms.Values{"name": "Asha", "email": "not-an-email", "phone": "9876543210"}

	errs := forms.UserSchema(true).Validate(v)
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Password is required", errs["password"])

	errs = forms.UserSchema(false).Validate(v)
	_, asked := errs["password"]
	assert.False(t, asked, "edit does not ask for a password")
}

func TestParseUser(t *testing.T) {
	v := forms.Values{"name": " Asha ", "email": "asha@kiran.in", "phone": "98765-43210", "password": "pw"}
	assert.Equal(t, "9876543210", forms.ParseUser(v, true).Phone)
	assert.Equal(t, "pw", forms.ParseUser(v, true).Password)
	assert.Empty(t, forms.ParseUser(v, false).Password)
	assert.Equal(t, "Asha", forms.ParseUser(v, false).Name)
}

func TestChangePasswordSchema(t *testing.T) {
	errs := forms.ChangePasswordSchema.Validate(forms.Values{"new_password": "a", "confirm_password": "b"})
	assert.Equal(t, forms.MsgPasswordMismatch, errs["confirm_password"])

	errs = forms.ChangePasswordSchema.Validate(forms.Values{})
	assert.Equal(t, "New Password is required", errs["new_password"])
	assert.Equal(t, "Confirm Password is required", errs["confirm_password"])

	req := forms.ParseChangePassword(forms.Values{"new_password": "s3cret"}, "u1")
	assert.Equal(t, "s3cret", req.Password)
	assert.Equal(t, "u1", req.UserID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Products, notes, login, lookup
// ──────────────────────────────────────────────────────────────────────────────

func TestProductSchema(t *testing.T) {
	errs := forms.ProductSchema.Validate(forms.Values{"name": "Kurta", "base_amount": "500", "sell_amount": "500"})
	assert.Equal(t, forms.MsgSellNotAboveBase, errs["sell_amount"])
	assert.Equal(t, "Remark is required", errs["remark"])

	in, err := forms.ParseProduct(forms.Values{"name": "Kurta", "base_amount": "500", "sell_amount": "750", "remark": "cotton"})
	require.NoError(t, err)
	assert.Equal(t, "750", in.SellAmount.String())
}

func TestNoteAndLoginSchemas(t *testing.T) {
	errs := forms.NoteSchema.Validate(forms.Values{"title": "  "})
	assert.Equal(t, "Title is required", errs["title"])
	assert.Equal(t, "Description is required", errs["description"])

	errs = forms.LoginSchema.Validate(forms.Values{"email": "admin@kiran", "password": "x"})
	assert.Equal(t, "Invalid email address", errs["email"])
	assert.True(t, forms.LoginSchema.Validate(forms.Values{"email": "admin@kiran.in", "password": "x"}).OK())
}

func TestValuesRoundTripForEdit(t *testing.T) {
	s := entity.Sale{
		Product:    entity.Ref{ID: "p1"},
		BaseAmount: decimal.NewFromInt(100),
		SellAmount: decimal.NewFromInt(150),
		Discount:   decimal.NewFromInt(5),
		Remark:     "festival",
	}
	in, err := forms.ParseSale(forms.SaleValues(s))
	require.NoError(t, err)
	assert.Equal(t, "p1", in.ProductID)
	assert.Equal(t, "5", in.Discount.String())
}

func TestLookup(t *testing.T) {
	for _, name := range []string{forms.FormLogin, forms.FormUserCreate, forms.FormUserEdit, forms.FormProduct, forms.FormSale, forms.FormNote, forms.FormChangePassword} {
		s, ok := forms.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, s.Name)
	}
	_, ok := forms.Lookup("invoice")
	assert.False(t, ok)

	_, known := forms.NoteSchema.ValidateField("colour", forms.Values{})
	assert.False(t, known)
}
