package ingest

import (
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/textutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

const descriptionLimit = 200

var (
	UserFields    = []string{"username", "email", "first_name", "last_name"}
	ProductFields = []string{"name", "description", "price", "sku", "category_id"}
)

// Users converts rows with username, email, first_name, last_name and an
// optional is_active column.
func Users() Kind[user.User] {
	return Kind[user.User]{
		Name:     "users",
		Required: UserFields,
		Convert:  convertUser,
	}
}

func convertUser(ordinal int64, row Row, now time.Time) (user.User, error) {
	email := String(row["email"])
	if err := validation.Email("email address", email); err != nil {
		return user.User{}, err
	}
	active, err := BoolOr("is_active", row["is_active"], true)
	if err != nil {
		return user.User{}, err
	}

	return user.New(user.Params{
		ID:        ordinal,
		Username:  strings.ToLower(String(row["username"])),
		Email:     strings.ToLower(email),
		FirstName: textutil.CapitalizeWords(String(row["first_name"])),
		LastName:  textutil.CapitalizeWords(String(row["last_name"])),
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}), nil
}

// Products converts rows with name, description, price, sku, category_id
// and optional stock_quantity and comma separated tags.
func Products() Kind[catalog.Product] {
	return Kind[catalog.Product]{
		Name:     "products",
		Required: ProductFields,
		Convert:  convertProduct,
	}
}

func convertProduct(ordinal int64, row Row, now time.Time) (catalog.Product, error) {
	price, err := Decimal("price", row["price"])
	if err != nil {
		return catalog.Product{}, err
	}
	categoryID, err := Int("category_id", row["category_id"])
	if err != nil {
		return catalog.Product{}, err
	}
	stock, err := IntOr("stock_quantity", row["stock_quantity"], 0)
	if err != nil {
		return catalog.Product{}, err
	}

	return catalog.NewProduct(catalog.ProductParams{
		ID:            ordinal,
		Name:          textutil.CapitalizeWords(String(row["name"])),
		Description:   textutil.Truncate(String(row["description"]), descriptionLimit),
		Price:         price,
		SKU:           strings.ToUpper(String(row["sku"])),
		CategoryID:    categoryID,
		StockQuantity: int(stock),
		IsActive:      true,
		Tags:          List(row["tags"]),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}
