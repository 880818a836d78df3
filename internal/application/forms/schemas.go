package forms

import (
	"regexp"
	"strings"
)

// Form names accepted by the blur validation endpoint.
const (
	FormLogin          = "login"
	FormUserCreate     = "user-create"
	FormUserEdit       = "user-edit"
	FormProduct        = "product"
	FormSale           = "sale"
	FormNote           = "note"
	FormChangePassword = "change-password"
)

// Cross-field messages.
const (
	MsgSellNotAboveBase = "Sell Amount should be greater than Base Amount."
	MsgPasswordMismatch = "Passwords do not match"
)

var (
	loginEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	userEmail  = regexp.MustCompile(`^\S+@\S+$`)
	nonDigit   = regexp.MustCompile(`\D`)
)

// PhoneDigits strips everything but digits.
func PhoneDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

func tenDigits(value string, _ Values) bool {
	return len(PhoneDigits(value)) == 10
}

func notOneRepeatedDigit(value string, _ Values) bool {
	d := PhoneDigits(value)
	return d == "" || strings.Count(d, d[:1]) != len(d)
}

// LoginSchema validates email and password.
var LoginSchema = Schema{
	Name: FormLogin,
	Fields: []Field{
		{Name: "email", Rules: []Rule{Required("Email is required"), Pattern(loginEmail, "Invalid email address")}},
		{Name: "password", Rules: []Rule{Required("Password is required")}},
	},
}

// UserSchema rules for the user form; the password is only asked on create.
func UserSchema(create bool) Schema {
	s := Schema{
		Name: FormUserEdit,
		Fields: []Field{
			{Name: "name", Rules: []Rule{Required("Name is required")}},
			{Name: "email", Rules: []Rule{Required("Email is required"), Pattern(userEmail, "Invalid email format")}},
			{Name: "phone", Rules: []Rule{
				Required("Phone number is required"),
				Custom(tenDigits, "Phone number must be 10 digits"),
				Custom(notOneRepeatedDigit, "Phone number must be a valid number"),
			}},
		},
	}
	if create {
		s.Name = FormUserCreate
		s.Fields = append(s.Fields, Field{Name: "password", Rules: []Rule{Required("Password is required")}})
	}
	return s
}

// ProductSchema validates the product form.
var ProductSchema = Schema{
	Name: FormProduct,
	Fields: []Field{
		{Name: "name", Rules: []Rule{Required("Name is required")}},
		{Name: "base_amount", Rules: []Rule{Required("Base Amount is required"), Amount("Base Amount must be a number")}},
		{Name: "sell_amount", Rules: []Rule{
			Required("Sell Amount is required"),
			Amount("Sell Amount must be a number"),
			GreaterThan("base_amount", MsgSellNotAboveBase),
		}},
		{Name: "remark", Rules: []Rule{Required("Remark is required")}},
	},
}

// SaleSchema validates the sale form. Discount and remark are optional.
var SaleSchema = Schema{
	Name: FormSale,
	Fields: []Field{
		{Name: "product_id", Rules: []Rule{Required("Product is required")}},
		{Name: "base_amount", Rules: []Rule{Required("Base Amount is required"), Amount("Base Amount must be a number")}},
		{Name: "sell_amount", Rules: []Rule{
			Required("Sell Amount is required"),
			Amount("Sell Amount must be a number"),
			GreaterThan("base_amount", MsgSellNotAboveBase),
		}},
		{Name: "discount", Rules: []Rule{Amount("Discount must be a number"), NonNegative("Discount cannot be negative")}},
	},
}

// NoteSchema validates the note form.
var NoteSchema = Schema{
	Name: FormNote,
	Fields: []Field{
		{Name: "title", Rules: []Rule{Required("Title is required")}},
		{Name: "description", Rules: []Rule{Required("Description is required")}},
	},
}

// ChangePasswordSchema checks the new password against its confirmation.
var ChangePasswordSchema = Schema{
	Name: FormChangePassword,
	Fields: []Field{
		{Name: "new_password", Rules: []Rule{Required("New Password is required")}},
		{Name: "confirm_password", Rules: []Rule{
			Required("Confirm Password is required"),
			SameAs("new_password", MsgPasswordMismatch),
		}},
	},
}

// Lookup returns the schema registered under name.
func Lookup(name string) (Schema, bool) {
	switch name {
	case FormLogin:
		return LoginSchema, true
	case FormUserCreate:
		return UserSchema(true), true
	case FormUserEdit:
		return UserSchema(false), true
	case FormProduct:
		return ProductSchema, true
	case FormSale:
		return SaleSchema, true
	case FormNote:
		return NoteSchema, true
	case FormChangePassword:
		return ChangePasswordSchema, true
	}
	return Schema{}, false
}
