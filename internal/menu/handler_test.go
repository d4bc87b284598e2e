package menu

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMenuRouter() (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)

	svc, _ := newTestService()
	h := NewHandler(svc)

	r := gin.New()
	r.GET("/menu", h.List)
	r.POST("/admin/menu", h.Add)
	r.DELETE("/admin/menu/:id", h.Delete)
	r.DELETE("/admin/menu", h.Clear)
	r.POST("/admin/menu/import", h.Import)
	r.GET("/admin/menu/export", h.Export)
	return r, svc
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestAddDish_AcceptsStringOrList(t *testing.T) {
	r, _ := setupMenuRouter()

	for _, body := range []string{
		`{"item":"Pad Thai","ingredients":"noodles, peanuts"}`,
		`{"item":"Pad Thai","ingredients":[" noodles","peanuts "]}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/admin/menu", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var dish Dish
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dish))
		assert.Equal(t, "noodles, peanuts", dish.Ingredients)
	}
}

func TestAddDish_Invalid(t *testing.T) {
	r, _ := setupMenuRouter()

	req := httptest.NewRequest(http.MethodPost, "/admin/menu", strings.NewReader(`{"item":"","ingredients":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteDish(t *testing.T) {
	r, svc := setupMenuRouter()
	dish, err := svc.AddDish(t.Context(), "Soup", "water")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/menu/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), dish.ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/menu/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/menu/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport(t *testing.T) {
	r, svc := setupMenuRouter()
	csv := "item,ingredients\nPad Thai,\"noodles, peanuts\"\nSalad,lettuce\n"

	body, ct := multipartBody(t, "menu_file", "menu.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/admin/menu/import?dry_run=true", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dry_run":true`)

	dishes, err := svc.ListDishes(t.Context())
	require.NoError(t, err)
	assert.Empty(t, dishes)

	body, ct = multipartBody(t, "menu_file", "menu.csv", csv)
	req = httptest.NewRequest(http.MethodPost, "/admin/menu/import?replace=true", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Imported int  `json:"imported"`
		Replace  bool `json:"replace"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Imported)
	assert.True(t, resp.Replace)
}

func TestImport_Rejects(t *testing.T) {
	r, _ := setupMenuRouter()

	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{"wrong extension", "menu.xlsx", "item,ingredients\n"},
		{"missing columns", "menu.csv", "name,stuff\nSoup,water\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, "menu_file", tt.filename, tt.content)
			req := httptest.NewRequest(http.MethodPost, "/admin/menu/import", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/menu/import", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	r, svc := setupMenuRouter()
	_, err := svc.AddDish(t.Context(), "Pad Thai", "noodles, peanuts")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/menu/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "id,item,ingredients\n1,Pad Thai,\"noodles, peanuts\"\n", w.Body.String())
}

func TestClearAndList(t *testing.T) {
	r, svc := setupMenuRouter()
	_, err := svc.AddDish(t.Context(), "Soup", "water")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item":"Soup"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/menu", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu", nil))
	assert.JSONEq(t, `{"dishes":[]}`, w.Body.String())
}
