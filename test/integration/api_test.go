package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PNHMEDIA/faktury-app-v2/internal/domain"
	"github.com/PNHMEDIA/faktury-app-v2/internal/handler"
	"github.com/PNHMEDIA/faktury-app-v2/internal/middleware"
	"github.com/PNHMEDIA/faktury-app-v2/internal/model"
	"github.com/PNHMEDIA/faktury-app-v2/internal/raster"
	"github.com/PNHMEDIA/faktury-app-v2/internal/repository"
	"github.com/PNHMEDIA/faktury-app-v2/internal/service"
)

const testPassword = "integrační heslo"

// fakeExtractor stands in for the OpenAI vision call.
type fakeExtractor struct {
	record domain.InvoiceRecord
}

func (f *fakeExtractor) ExtractInvoiceFields(ctx context.Context, imageJPEG []byte) (*domain.InvoiceRecord, error) {
	clone := f.record
	return &clone, nil
}

// fakeRasterizer emulates a host without poppler: PDFs fail with the tool
// sentinel, images pass through as a small valid JPEG.
type fakeRasterizer struct {
	jpegData []byte
}

func (f *fakeRasterizer) FirstPageJPEG(ctx context.Context, path string, dpi int) ([]byte, error) {
	if raster.IsPDF(path) {
		return nil, &raster.RasterError{Op: "locate_pdftoppm", Err: raster.ErrPopplerNotFound}
	}
	return f.jpegData, nil
}

func smallJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// newTestRouter wires the full application the way cmd/server does, with the
// external collaborators faked out.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewFileRepository(t.TempDir())
	require.NoError(t, err)

	extractor := &fakeExtractor{record: domain.InvoiceRecord{
		SupplierName:        "ACME s.r.o.",
		IssueDate:           domain.ParseDateOnly("2024-03-07"),
		Description:         "Hosting",
		DetailedDescription: "Hostingové služby za březen 2024.",
	}}

	authService := service.NewAuthService(service.AuthConfig{
		Password:      testPassword,
		SessionSecret: "integration-secret",
		SessionTTL:    time.Hour,
	})
	ingestService := service.NewIngestService(extractor, &fakeRasterizer{jpegData: smallJPEG(t)}, repo)
	invoiceService := service.NewInvoiceService(repo)

	router := gin.New()
	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewInvoiceHandler(ingestService, invoiceService, 10*1024*1024).
		RegisterRoutes(router, middleware.SessionAuth(authService))

	return router
}

// login returns the session cookie for authenticated requests.
func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()

	body, err := json.Marshal(model.LoginRequest{Password: testPassword})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

// uploadFiles posts a multipart batch and decodes the per-file results.
func uploadFiles(t *testing.T, router *gin.Engine, cookie *http.Cookie, files map[string][]byte) model.BatchUploadResponse {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var response model.BatchUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func listInvoices(t *testing.T, router *gin.Engine, cookie *http.Cookie) model.InvoiceListResponse {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/invoices", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response model.InvoiceListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestInvoiceAPI(t *testing.T) {
	router := newTestRouter(t)

	t.Run("LoginRejectsWrongPassword", func(t *testing.T) {
		body, _ := json.Marshal(model.LoginRequest{Password: "špatné heslo"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ListingRequiresSession", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/invoices", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	cookie := login(t, router)
	expectedStem := "240307 (ACME s.r.o.), (Hosting), E F ZAP"

	t.Run("UploadBatchReportsPerFileResults", func(t *testing.T) {
		// The PDF fails on the missing rasterizer tool; the image in the
		// same batch must still go through.
		response := uploadFiles(t, router, cookie, map[string][]byte{
			"faktura.pdf": []byte("%PDF-1.4 test"),
			"scan.png":    []byte("png bytes"),
		})

		assert.Equal(t, 1, response.Processed)
		assert.Equal(t, 1, response.Failed)
		require.Len(t, response.Results, 2)

		byName := map[string]model.UploadFileResult{}
		for _, result := range response.Results {
			byName[result.OriginalName] = result
		}

		pdf := byName["faktura.pdf"]
		assert.False(t, pdf.Success)
		assert.Equal(t, model.ErrCodeToolNotFound, pdf.ErrorCode)
		assert.Contains(t, pdf.Error, "POPPLER_PATH")

		png := byName["scan.png"]
		assert.True(t, png.Success)
		assert.Equal(t, expectedStem+".png", png.Filename)
	})

	t.Run("DashboardListsDecodedFields", func(t *testing.T) {
		response := listInvoices(t, router, cookie)
		require.Len(t, response.Data, 1)

		entry := response.Data[0]
		assert.Equal(t, expectedStem+".png", entry.Filename)
		assert.Equal(t, expectedStem+".jpg", entry.PreviewImage)
		assert.Equal(t, "2024-03-07", entry.IssueDate)
		assert.Equal(t, "ACME s.r.o.", entry.Supplier)
		assert.Equal(t, "Hosting", entry.Description)
		assert.Equal(t, "Hostingové služby za březen 2024.", entry.DetailedDescription)
	})

	t.Run("PreviewServedWithoutSession", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/previews/"+url.PathEscape(expectedStem+".jpg"), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.Bytes())
	})

	newStem := "240401 (ACME Group a.s.), (Hosting za duben), E F ZAP"

	t.Run("EditRenamesArtifacts", func(t *testing.T) {
		body, err := json.Marshal(model.EditInvoiceRequest{
			Supplier:    "ACME Group a.s.",
			Date:        "2024-04-01",
			Description: "Hosting za duben",
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/v1/invoices/"+url.PathEscape(expectedStem+".png"), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

		var response model.EditInvoiceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, newStem+".png", response.Filename)

		// The listing reflects the new name and keeps the sidecar detail.
		listing := listInvoices(t, router, cookie)
		require.Len(t, listing.Data, 1)
		assert.Equal(t, "ACME Group a.s.", listing.Data[0].Supplier)
		assert.Equal(t, "Hostingové služby za březen 2024.", listing.Data[0].DetailedDescription)
	})

	t.Run("DeleteRemovesInvoice", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/v1/invoices/"+url.PathEscape(newStem+".png"), nil)
		req.AddCookie(cookie)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

		listing := listInvoices(t, router, cookie)
		assert.Empty(t, listing.Data)
	})

	t.Run("DeleteMissingInvoiceFails", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/v1/invoices/"+url.PathEscape("nothing here.pdf"), nil)
		req.AddCookie(cookie)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("LogoutClearsCookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		req.AddCookie(cookie)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var cleared *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == middleware.SessionCookieName {
				cleared = c
			}
		}
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})
}
