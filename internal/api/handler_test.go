package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"storefront/internal/catalog"
	"storefront/internal/dispatch"
	"storefront/internal/query"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func setupRouter(t *testing.T, checks ...Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := os.ReadFile("../catalog/testdata/catalog.json")
	require.NoError(t, err)
	cat, err := catalog.Parse(raw)
	require.NoError(t, err)

	svc := service.NewStorefrontService(cat, query.NewEngine("en"), service.NewMemorySessionStore(0), nil, dispatch.DefaultConfig())
	router := gin.New()
	NewHandler(svc, checks...).SetupRoutes(router)
	return router
}

func do(router *gin.Engine, method, path, body, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if ua != "" {
		req.Header.Set("User-Agent", ua)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthAndReady(t *testing.T) {
	router := setupRouter(t)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ready", "", "").Code)
}

func TestReadyFailsWhenDependencyDown(t *testing.T) {
	router := setupRouter(t, pingFunc(func(context.Context) error { return errors.New("redis down") }))

	w := do(router, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis down")
}

func TestListItems(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/v1/catalog/items?sort=priceAsc&category=all", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result service.BrowseResult
	decode(t, w, &result)
	require.Len(t, result.Cards, 3)
	assert.Equal(t, "vase-spiral", result.Cards[0].ItemID)
	assert.Equal(t, "custom-sign", result.Cards[2].ItemID)
	assert.Equal(t, "Quote", result.Cards[2].PriceLabel)
}

func TestListItemsSearchNoMatch(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/v1/catalog/items?search=nothing-here", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result service.BrowseResult
	decode(t, w, &result)
	assert.Empty(t, result.Cards)
	assert.NotEmpty(t, result.EmptyMessage)
}

func TestSignalLinkFollowsUserAgent(t *testing.T) {
	router := setupRouter(t)

	var desktop, mobile service.BrowseResult
	decode(t, do(router, http.MethodGet, "/api/v1/catalog/items", "", ""), &desktop)
	decode(t, do(router, http.MethodGet, "/api/v1/catalog/items", "", iphoneUA), &mobile)

	assert.True(t, strings.HasPrefix(desktop.Cards[0].Links.Signal, "https://signal.me/#p/"))
	assert.True(t, strings.HasPrefix(mobile.Cards[0].Links.Signal, "sgnl://send?phone="))
}

func TestCategoriesPicksContacts(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodGet, "/api/v1/catalog/categories", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cats struct {
		All        string   `json:"all"`
		Categories []string `json:"categories"`
	}
	decode(t, w, &cats)
	assert.Equal(t, "all", cats.All)
	assert.Equal(t, []string{"Custom", "Decor", "Toys"}, cats.Categories)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/catalog/community-picks", "", "").Code)
	w = do(router, http.MethodGet, "/api/v1/contacts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Custom Quote")
}

func TestCardFlow(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/api/v1/cards", `{"itemId":"dragon-flexi"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var state service.CardState
	decode(t, w, &state)
	require.NotEmpty(t, state.SessionID)

	path := "/api/v1/cards/" + state.SessionID
	w = do(router, http.MethodPut, path+"/options", `{"key":"Color","value":"Rainbow"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Color: Rainbow")

	w = do(router, http.MethodPut, path+"/options", `{"key":"Color","value":"Plaid"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/contact/plan",
		`{"itemId":"dragon-flexi","sessionId":"`+state.SessionID+`","channel":"signal"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var plan service.ContactPlan
	decode(t, w, &plan)
	assert.Contains(t, plan.Message, "Color: Rainbow")
	assert.Equal(t, plan.Links.WhatsApp, plan.Plan.FallbackURL)
	assert.Equal(t, int64(950), plan.Plan.FallbackDelayMs)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, path, "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, path, "", "").Code)
}

func TestOpenCardUnknownItem(t *testing.T) {
	router := setupRouter(t)

	w := do(router, http.MethodPost, "/api/v1/cards", `{"itemId":"missing"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPost, "/api/v1/cards", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanContactValidation(t *testing.T) {
	router := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/v1/contact/plan", `{}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/v1/contact/plan", `{"kind":"fax"}`, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/api/v1/contact/plan", `{"itemId":"missing"}`, "").Code)

	w := do(router, http.MethodPost, "/api/v1/contact/plan", `{"kind":"general","channel":"sms"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var plan service.ContactPlan
	decode(t, w, &plan)
	assert.True(t, strings.HasPrefix(plan.Plan.PrimaryURL, "sms:+15551234567?&body="))
}
