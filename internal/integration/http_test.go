package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/idempotency"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/testutil"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/user"
)

func TestAPI_OrderFlowOnPostgres(t *testing.T) {
	testutil.RequireDocker(t)
	_, pool := testutil.StartPostgres(t)
	rdb := testutil.StartRedis(t)

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(httpapi.Deps{
		Users:       user.NewPostgresRepository(pool),
		Catalog:     catalog.NewPostgresRepository(pool),
		Orders:      order.NewPostgresRepository(pool),
		Idempotency: idempotency.NewRedisStore(rdb, time.Hour),
	})))
	t.Cleanup(srv.Close)

	post := func(path, body string, headers ...string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp := post("/users", `{"username":"jdoe","email":"jdoe@example.com","first_name":"john","last_name":"doe"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = post("/import/products", "name,description,price,sku,category_id\nphone,a phone,699.99,phone-1,1\n",
		"Content-Type", "text/csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := `{"user_id":1,"items":[{"product_id":1,"quantity":2}]}`
	first := post("/orders", body, httpapi.HeaderIdempotencyKey, "it-1")
	require.Equal(t, http.StatusCreated, first.StatusCode)
	second := post("/orders", body, httpapi.HeaderIdempotencyKey, "it-1")
	require.Equal(t, http.StatusCreated, second.StatusCode)

	var a, b map[string]any
	require.NoError(t, json.NewDecoder(first.Body).Decode(&a))
	require.NoError(t, json.NewDecoder(second.Body).Decode(&b))
	assert.Equal(t, a["id"], b["id"])
	assert.Equal(t, "$1399.98", a["formatted_total_amount"])
	assert.Equal(t, "PHONE-1", a["items"].([]any)[0].(map[string]any)["product_sku"])
}
