package comparer

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-comparer/core/middleware/rayid"
	"inventory-comparer/core/reconcile"
	"inventory-comparer/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func setupTestApp(client *mocks.Client) *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())

	var svc *Service
	if client != nil {
		svc = NewService(client, "reports", zap.NewNop(), nil)
	} else {
		svc = NewService(nil, "", zap.NewNop(), nil)
	}
	NewHandler(svc, reconcile.RuleSetStandard).RegisterRoutes(app)
	return app
}

type generateForm struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newGenerateForm() *generateForm {
	f := &generateForm{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *generateForm) addFile(t *testing.T, field, name string, content []byte) {
	t.Helper()
	part, err := f.writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
}

func TestHandleGenerate(t *testing.T) {
	app := setupTestApp(nil)

	form := newGenerateForm()
	form.addFile(t, "locationFiles", "LocA.xlsx", mkWorkbook(t, [][]any{
		{"SKU", "Barcode", "Product"},
		{"S1", "111222", "Widget"},
	}))
	form.addFile(t, "unlistedFiles", "Unlisted_Main.xlsx", mkWorkbook(t, [][]any{
		{"SKU", "Barcode", "Product"},
		{"S9", "777666", "Retired Gadget"},
	}))
	require.NoError(t, form.writer.Close())

	req := httptest.NewRequest("POST", "/comparer/generate", &form.buf)
	req.Header.Set("Content-Type", form.writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Inventory_Comparison_Report.xlsx")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	require.NoError(t, err)
	// Header plus the two consolidated items.
	require.Len(t, rows, 3)
	assert.Equal(t, "S1", rows[1][0])
	assert.Equal(t, "S9", rows[2][0])
}

func TestHandleGenerate_OGFRulesFlag(t *testing.T) {
	app := setupTestApp(nil)

	form := newGenerateForm()
	form.addFile(t, "locationFiles", "regular_store.xlsx", mkWorkbook(t, [][]any{
		{"SKU", "Barcode"},
		{"S1", "111222"},
	}))
	require.NoError(t, form.writer.WriteField("ogfRules", "true"))
	require.NoError(t, form.writer.Close())

	req := httptest.NewRequest("POST", "/comparer/generate", &form.buf)
	req.Header.Set("Content-Type", form.writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleGenerate_MissingLocations(t *testing.T) {
	app := setupTestApp(nil)

	form := newGenerateForm()
	require.NoError(t, form.writer.Close())

	req := httptest.NewRequest("POST", "/comparer/generate", &form.buf)
	req.Header.Set("Content-Type", form.writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "locationFiles")
}

func TestHandleGenerate_UnparseableUpload(t *testing.T) {
	app := setupTestApp(nil)

	form := newGenerateForm()
	form.addFile(t, "locationFiles", "LocA.xlsx", []byte("not a workbook"))
	require.NoError(t, form.writer.Close())

	req := httptest.NewRequest("POST", "/comparer/generate", &form.buf)
	req.Header.Set("Content-Type", form.writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleListReports(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Key: "reports/run.xlsx", Size: 12, LastModified: time.Now()}
	close(ch)
	client.On("ListObjects", mock.Anything, "reports", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	app := setupTestApp(client)
	resp, err := app.Test(httptest.NewRequest("GET", "/comparer/reports", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var reports []ReportInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "run.xlsx", reports[0].Name)
}

func TestHandleListReports_ArchiveDisabled(t *testing.T) {
	app := setupTestApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparer/reports", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleGetReport(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "reports", "reports/run.xlsx", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("workbook bytes"))), nil)

	app := setupTestApp(client)
	resp, err := app.Test(httptest.NewRequest("GET", "/comparer/reports/run.xlsx", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("workbook bytes"), body)
}

func TestHandleGetReport_ArchiveDisabled(t *testing.T) {
	app := setupTestApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/comparer/reports/run.xlsx", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
