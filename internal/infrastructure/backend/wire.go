package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kiranfashion/console/internal/domain/entity"
)

// envelope wraps every backend response: {data, message, status}.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message json.RawMessage `json:"message"`
}

func (e envelope) message() string {
	var s string
	if json.Unmarshal(e.Message, &s) == nil {
		return s
	}
	return ""
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// wireRef decodes a populated reference ({_id, name}) or a bare id string.
type wireRef struct {
	ID   string
	Name string
}

func (r *wireRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*r = wireRef{}
		return nil
	case b[0] == '"':
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = wireRef{ID: id}
		return nil
	}
	var obj struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = wireRef{ID: obj.ID, Name: obj.Name}
	return nil
}

func (r wireRef) toEntity() entity.Ref { return entity.Ref{ID: r.ID, Name: r.Name} }

// wireRecord fields shared by every stored document.
type wireRecord struct {
	MongoID   string     `json:"_id"`
	ID        string     `json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	Created   *time.Time `json:"createdAt"`
}

func (w wireRecord) id() string {
	if w.MongoID != "" {
		return w.MongoID
	}
	return w.ID
}

func (w wireRecord) createdAt() time.Time {
	switch {
	case w.CreatedAt != nil:
		return *w.CreatedAt
	case w.Created != nil:
		return *w.Created
	}
	return time.Time{}
}

type wireUser struct {
	wireRecord
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    flexString `json:"phone"`
	Role     string     `json:"role"`
	IsActive *bool      `json:"isActive"`
	Avatar   string     `json:"avatar"`
}

func (w wireUser) toEntity() entity.User {
	active := true
	if w.IsActive != nil {
		active = *w.IsActive
	}
	return entity.User{
		ID:        w.id(),
		Name:      w.Name,
		Email:     w.Email,
		Phone:     string(w.Phone),
		Role:      w.Role,
		IsActive:  active,
		CreatedAt: w.createdAt(),
	}
}

func (w wireUser) toSessionUser() *entity.SessionUser {
	return &entity.SessionUser{
		ID:     w.id(),
		Name:   w.Name,
		Email:  w.Email,
		Role:   w.Role,
		Avatar: w.Avatar,
	}
}

type wireProduct struct {
	wireRecord
	Name       string          `json:"name"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	SellAmount decimal.Decimal `json:"sell_amount"`
	Remark     string          `json:"remark"`
}

func (w wireProduct) toEntity() entity.Product {
	return entity.Product{
		ID:         w.id(),
		Name:       w.Name,
		BaseAmount: w.BaseAmount,
		SellAmount: w.SellAmount,
		Remark:     w.Remark,
		CreatedAt:  w.createdAt(),
	}
}

type wireSale struct {
	wireRecord
	Product    wireRef          `json:"product_id"`
	SoldBy     wireRef          `json:"user_id"`
	BaseAmount decimal.Decimal  `json:"base_amount"`
	SellAmount decimal.Decimal  `json:"sell_amount"`
	Discount   decimal.Decimal  `json:"discount"`
	Profit     *decimal.Decimal `json:"profit"`
	Remark     string           `json:"remark"`
}

func (w wireSale) toEntity() entity.Sale {
	profit := w.SellAmount.Sub(w.BaseAmount).Sub(w.Discount)
	if w.Profit != nil {
		profit = *w.Profit
	}
	return entity.Sale{
		ID:         w.id(),
		Product:    w.Product.toEntity(),
		SoldBy:     w.SoldBy.toEntity(),
		BaseAmount: w.BaseAmount,
		SellAmount: w.SellAmount,
		Discount:   w.Discount,
		Profit:     profit,
		Remark:     w.Remark,
		CreatedAt:  w.createdAt(),
	}
}

type wireNote struct {
	wireRecord
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (w wireNote) toEntity() entity.Note {
	return entity.Note{
		ID:          w.id(),
		Title:       w.Title,
		Description: w.Description,
		CreatedAt:   w.createdAt(),
	}
}

// wireList is the paginated list payload. The sales list adds its stat totals.
type wireList[W any] struct {
	Results       []W              `json:"results"`
	Total         flexString       `json:"total"`
	TotalProducts *int             `json:"totalProducts"`
	TotalSales    *decimal.Decimal `json:"totalSales"`
	TotalProfit   *decimal.Decimal `json:"totalProfit"`
}

func (w wireList[W]) total() int {
	n, err := strconv.Atoi(string(w.Total))
	if err != nil {
		return len(w.Results)
	}
	return n
}

type wireDashboard struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalProducts int             `json:"totalProducts"`
	SalesCount    int             `json:"salesCount"`
	TotalNotes    int             `json:"totalNotes"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
}

func (w wireDashboard) toEntity() *entity.Dashboard {
	return &entity.Dashboard{
		TotalUsers:    w.TotalUsers,
		TotalProducts: w.TotalProducts,
		TotalSales:    w.SalesCount,
		TotalNotes:    w.TotalNotes,
		SalesAmount:   w.TotalSales,
		Profit:        w.TotalProfit,
	}
}
