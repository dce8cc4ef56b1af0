package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/farmstead/internal/auth"
	"github.com/erazemk/farmstead/internal/db"
	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/storage"
)

const testJWTSecret = "test-secret"

type testServer struct {
	*httptest.Server
	token      string
	uploadRoot string
}

func setupTestServer(t *testing.T) *testServer {
	return setupTestServerWithOptions(t, Options{})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	uploadRoot := t.TempDir()
	files, err := storage.NewDisk(uploadRoot)
	require.NoError(t, err)

	opts.DB = db.NewTestDB(t)
	opts.JWTSecret = testJWTSecret
	opts.Files = files

	server := httptest.NewServer(NewRouter(opts))
	t.Cleanup(server.Close)

	ts := &testServer{Server: server, uploadRoot: uploadRoot}

	resp := ts.do(t, "POST", "/api/auth/register", "", map[string]string{"username": "farmer", "password": "hunter2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "farmer", "password": "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login map[string]string
	decode(t, resp, &login)
	require.NotEmpty(t, login["token"])
	ts.token = login["token"]

	return ts
}

// do sends a JSON request. An empty token sends no Authorization header.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// authed sends a JSON request with the logged-in user's token.
func (ts *testServer) authed(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	return ts.do(t, method, path, ts.token, body)
}

func decode(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	decode(t, resp, &body)
	return body["error"]
}

func TestRegisterAndLogin(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.do(t, "POST", "/api/auth/register", "", map[string]string{"username": "farmer", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "username already exists", errorMessage(t, resp))

	resp = ts.do(t, "POST", "/api/auth/register", "", map[string]string{"username": "", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "please provide username and password", errorMessage(t, resp))

	resp = ts.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "farmer", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	wrongPassword := errorMessage(t, resp)

	resp = ts.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "nobody", "password": "hunter2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	unknownUser := errorMessage(t, resp)

	assert.Equal(t, "invalid credentials", wrongPassword)
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestMe(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "GET", "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]any
	decode(t, resp, &me)
	assert.Equal(t, "farmer", me["username"])
}

func TestChangePassword(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "PUT", "/api/auth/password", map[string]string{"current_password": "nope", "new_password": "new"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "PUT", "/api/auth/password", map[string]string{"current_password": "hunter2", "new_password": "new"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "farmer", "password": "new"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAccessGate(t *testing.T) {
	ts := setupTestServer(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID:   1,
		Username: "farmer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	foreign, err := auth.GenerateToken("other-secret", 1, "farmer", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + ts.token},
		{"malformed token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"foreign signature", "Bearer " + foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", ts.URL+"/api/animals", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.NotEmpty(t, errorMessage(t, resp))
		})
	}

	resp := ts.authed(t, "GET", "/api/animals", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthRateLimit(t *testing.T) {
	ts := setupTestServerWithOptions(t, Options{AuthRateLimit: 0.001, AuthRateBurst: 3})

	// setupTestServer already spent two requests of the burst.
	resp := ts.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "farmer", "password": "hunter2"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, "POST", "/api/auth/login", "", map[string]string{"username": "farmer", "password": "hunter2"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()

	// Other routes are not limited.
	resp = ts.authed(t, "GET", "/api/overview", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCutsPublicRead(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.do(t, "POST", "/api/cuts", "", map[string]string{"name": "Picanha"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "POST", "/api/cuts", map[string]string{"name": "Picanha", "description": "Top sirloin cap"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var cut model.Cut
	decode(t, resp, &cut)

	resp = ts.do(t, "GET", "/api/cuts", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cuts []model.Cut
	decode(t, resp, &cuts)
	assert.Len(t, cuts, 1)

	resp = ts.authed(t, "PUT", "/api/cuts/999", map[string]string{"name": "Alcatra"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "POST", "/api/cuts", map[string]string{"description": "nameless"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "cut name is required", errorMessage(t, resp))
}

func TestEmptyListsAreArrays(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{
		"/api/cuts", "/api/animals", "/api/health-records/1", "/api/library/categories",
		"/api/library/items", "/api/products", "/api/stock", "/api/stock/movements",
	} {
		resp := ts.authed(t, "GET", path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, "[]\n", string(body), path)
	}
}

func TestAnimalsAndHealthRecords(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "POST", "/api/animals", map[string]string{"name": "Mimosa", "tag_number": "T-001"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var animal model.Animal
	decode(t, resp, &animal)

	resp = ts.authed(t, "POST", "/api/animals", map[string]string{"tag_number": "T-001"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "tag number already exists", errorMessage(t, resp))

	resp = ts.authed(t, "POST", "/api/health-records/999", map[string]string{"date": "2024-01-01"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "POST", "/api/health-records/"+itoa(animal.ID), map[string]string{"date": "01/02/2024"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var recordIDs []int64
	for _, date := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		resp = ts.authed(t, "POST", "/api/health-records/"+itoa(animal.ID), map[string]string{"date": date, "status": "ok"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var rec model.HealthRecord
		decode(t, resp, &rec)
		assert.Equal(t, animal.ID, rec.AnimalID)
		recordIDs = append(recordIDs, rec.ID)
	}

	resp = ts.authed(t, "GET", "/api/health-records/animal/"+itoa(animal.ID), nil)
	var records []model.HealthRecord
	decode(t, resp, &records)
	require.Len(t, records, 3)
	assert.Equal(t, "2024-03-01", records[0].Date)

	resp = ts.authed(t, "PUT", "/api/health-records/"+itoa(recordIDs[0]), map[string]string{"date": "2024-01-02", "observations": "limping"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "DELETE", "/api/animals/"+itoa(animal.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for _, id := range recordIDs {
		resp = ts.authed(t, "DELETE", "/api/health-records/"+itoa(id), nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestStockLedger(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "POST", "/api/products", map[string]string{"name": "Feed", "unit": "kg"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product model.Product
	decode(t, resp, &product)

	resp = ts.authed(t, "POST", "/api/products", map[string]string{"name": "Feed", "unit": "bag"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "POST", "/api/stock/movements", map[string]any{
		"product_id": product.ID, "quantity": 20, "movement_date": "2024-01-01", "type": "purchase", "cost_per_unit": 2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "POST", "/api/stock/movements", map[string]any{
		"product_id": product.ID, "quantity": 5, "movement_date": "2024-01-02", "type": "use",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var use model.StockMovement
	decode(t, resp, &use)
	assert.Equal(t, -5.0, use.Quantity)

	resp = ts.authed(t, "POST", "/api/stock/movements", map[string]any{
		"product_id": 999, "quantity": 1, "movement_date": "2024-01-02", "type": "purchase",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "product does not exist", errorMessage(t, resp))

	resp = ts.authed(t, "POST", "/api/stock/movements", map[string]any{
		"product_id": product.ID, "quantity": 1, "movement_date": "2024-01-02", "type": "theft",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "GET", "/api/stock/"+itoa(product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var level model.StockLevel
	decode(t, resp, &level)
	assert.Equal(t, 15.0, level.CurrentStock)

	resp = ts.authed(t, "GET", "/api/stock/movements?productId="+itoa(product.ID), nil)
	var movements []model.StockMovement
	decode(t, resp, &movements)
	require.Len(t, movements, 2)
	assert.Equal(t, "Feed", movements[0].ProductName)

	resp = ts.authed(t, "GET", "/api/stock/movements?productId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "DELETE", "/api/stock/movements/"+itoa(use.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "GET", "/api/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var overview model.Overview
	decode(t, resp, &overview)
	require.NotNil(t, overview.TotalCosts)
	assert.Equal(t, 40.0, *overview.TotalCosts)
	require.NotNil(t, overview.StockQuantity)
	assert.Equal(t, 20.0, *overview.StockQuantity)
}

func TestOverviewEmpty(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "GET", "/api/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)

	assert.Equal(t, 0.0, body["animalCount"])
	assert.Equal(t, 0.0, body["eventCount"])
	assert.Contains(t, body, "totalCosts")
	assert.Nil(t, body["totalCosts"])
	assert.Nil(t, body["stockQuantity"])
}

// uploadItem posts a multipart library item. Empty fields are omitted.
func (ts *testServer) uploadItem(t *testing.T, title, categoryID, filename string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if title != "" {
		mw.WriteField("title", title)
	}
	if categoryID != "" {
		mw.WriteField("category_id", categoryID)
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		fw.Write(content)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", ts.URL+"/api/library/items", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) storedUploads(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(ts.uploadRoot, "uploads"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestLibraryItemUploadAndDelete(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "POST", "/api/library/categories", map[string]string{"name": "Manuals"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category model.LibraryCategory
	decode(t, resp, &category)

	pdf := []byte("%PDF-1.4\nfake tractor manual")
	resp = ts.uploadItem(t, "Tractor", itoa(category.ID), "tractor.pdf", pdf)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item model.LibraryItem
	decode(t, resp, &item)
	assert.Regexp(t, `^uploads/[0-9a-f-]{36}\.pdf$`, item.FilePath)
	require.NotNil(t, item.FileType)
	assert.Equal(t, "application/pdf", *item.FileType)
	require.NotNil(t, item.CategoryName)
	assert.Equal(t, "Manuals", *item.CategoryName)

	// The document is served publicly under its file path.
	resp, err := http.Get(ts.URL + "/" + item.FilePath)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pdf, body)

	resp = ts.do(t, "GET", "/api/public/library/items", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []model.LibraryItem
	decode(t, resp, &items)
	assert.Len(t, items, 1)

	resp = ts.authed(t, "DELETE", "/api/library/items/"+itoa(item.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, ts.storedUploads(t))

	resp = ts.authed(t, "DELETE", "/api/library/items/"+itoa(item.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLibraryItemValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.uploadItem(t, "Tractor", "1", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "file required", errorMessage(t, resp))

	resp = ts.uploadItem(t, "", "1", "a.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "title and category are required", errorMessage(t, resp))

	assert.Empty(t, ts.storedUploads(t))
}

func TestLibraryItemUnknownCategoryLeavesNoFile(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.uploadItem(t, "Orphan", "42", "orphan.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "category does not exist", errorMessage(t, resp))

	assert.Empty(t, ts.storedUploads(t))
}

func TestLibraryCategoryDeleteOrphansItems(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "POST", "/api/library/categories", map[string]string{"name": "Manuals"})
	var category model.LibraryCategory
	decode(t, resp, &category)

	resp = ts.authed(t, "POST", "/api/library/categories", map[string]string{"name": "Manuals"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = ts.uploadItem(t, "Tractor", itoa(category.ID), "tractor.pdf", []byte("%PDF-1.4"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "DELETE", "/api/library/categories/"+itoa(category.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.authed(t, "GET", "/api/library/items", nil)
	var items []model.LibraryItem
	decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].CategoryID)
}

func TestInvalidPathID(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.authed(t, "GET", "/api/animals/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
