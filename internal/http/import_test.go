package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importResponse struct {
	TotalProcessed int              `json:"total_processed"`
	TotalErrors    int              `json:"total_errors"`
	Errors         []string         `json:"errors"`
	Users          []map[string]any `json:"users"`
	Products       []map[string]any `json:"products"`
}

func TestImport_UsersCSV(t *testing.T) {
	ts := newTestServer(t)
	csv := "username,email,first_name,last_name\n" +
		"JDoe,John@Example.com,john,doe\n" +
		"jsmith,,jane,smith\n" +
		"bwayne,bruce@example.com,bruce,wayne\n"

	rr := ts.do(http.MethodPost, "/import/users", csv, "Content-Type", "text/csv; charset=utf-8")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decodeBody[importResponse](t, rr)
	assert.Equal(t, 2, res.TotalProcessed)
	assert.Equal(t, 1, res.TotalErrors)
	assert.Equal(t, []string{"Row 2: Field 'email' is required"}, res.Errors)
	require.Len(t, res.Users, 2)
	assert.Equal(t, "jdoe", res.Users[0]["username"])

	users, err := ts.users.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.IngestRows.WithLabelValues("users", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.IngestRows.WithLabelValues("users", "error")))
}

func TestImport_ProductsJSON(t *testing.T) {
	ts := newTestServer(t)
	ts.addProduct(t, "Cable", "CAB-1", "4.99", 1)
	body := `[
		{"name":"usb hub","description":"four ports","price":"19.5","sku":"hub-1","category_id":1,"tags":"usb, hub"},
		{"name":"dup","description":"same sku","price":"1","sku":"cab-1","category_id":1},
		{"name":"bad","description":"x","price":"abc","sku":"bad-1","category_id":1}
	]`

	rr := ts.do(http.MethodPost, "/import/products", body)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decodeBody[importResponse](t, rr)
	assert.Equal(t, 1, res.TotalProcessed)
	assert.Equal(t, []string{
		"Row 3: Invalid price 'abc'",
		"Row 2: sku already exists",
	}, res.Errors)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "HUB-1", res.Products[0]["sku"])
	assert.Equal(t, "Usb Hub", res.Products[0]["name"])
	assert.Equal(t, "$19.50", res.Products[0]["formatted_price"])
	assert.Equal(t, []any{"usb", "hub"}, res.Products[0]["tags"])
	assert.Equal(t, float64(2), res.Products[0]["id"])
}

func TestImport_Rejections(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/import/orders", `[]`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(http.MethodPost, "/import/users", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
