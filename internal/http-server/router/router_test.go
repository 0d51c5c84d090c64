package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"logsaas-lite/internal/broker"
	"logsaas-lite/internal/domain"
	"logsaas-lite/internal/http-server/handler/file"
	"logsaas-lite/internal/http-server/handler/file/dto"
	"logsaas-lite/internal/http-server/handler/system"
	"logsaas-lite/internal/http-server/respond"
	"logsaas-lite/internal/repository/file/disk"
	"logsaas-lite/internal/repository/file/memory"
	file_uc "logsaas-lite/internal/usecase/file"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func newTestRouter(t *testing.T, maxSize int64) http.Handler {
	t.Helper()
	zlog.Init()

	storage, err := disk.NewFileRepository(t.TempDir(), &zlog.Logger)
	require.NoError(t, err)

	uc := file_uc.NewFileUsecase(memory.NewRegistry(), storage, broker.NopPublisher{}, &zlog.Logger)

	h := &Handler{
		FileHandler:   file.NewFileHandler(uc, &zlog.Logger, maxSize, false),
		SystemHandler: system.NewSystemHandler("1.0.0", "test"),
	}

	return SetupRouter(h, Options{CORSOrigin: "http://localhost:5173"})
}

func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, quoteEscaper.Replace(filename)))
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}

	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, h http.Handler, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, ct := multipartBody(t, "file", filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doGet(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func listFiles(t *testing.T, h http.Handler) dto.FilesResponse {
	t.Helper()

	rec := doGet(h, "/files")
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[dto.FilesResponse](t, rec)
}

func TestUploadThenRetrieve(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	rec := doUpload(t, h, "report.CSV", "text/csv", []byte("a,b\n1,2\n"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[dto.UploadResponse](t, rec)
	assert.Equal(t, "File uploaded successfully", resp.Message)
	assert.NotEmpty(t, resp.File.ID)
	assert.Equal(t, "report.CSV", resp.File.OriginalName)
	assert.True(t, strings.HasPrefix(resp.File.StoredName, "file-"))
	assert.True(t, strings.HasSuffix(resp.File.StoredName, ".CSV"))
	assert.Equal(t, "/uploads/"+resp.File.StoredName, resp.File.AccessPath)
	assert.Equal(t, int64(8), resp.File.SizeBytes)
	assert.Equal(t, "text/csv", resp.File.MimeType)

	got := doGet(h, resp.File.AccessPath)
	require.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, "a,b\n1,2\n", got.Body.String())

	files := listFiles(t, h)
	require.Len(t, files.Files, 1)
	assert.Equal(t, resp.File.ID, files.Files[0].ID)
	assert.Equal(t, int64(1), files.Stats.FileTypeCounts["csv"])

	data := decode[domain.DashboardData](t, doGet(h, "/data"))
	assert.GreaterOrEqual(t, data.TotalLogsToday, 1)
	assert.Equal(t, int64(1), data.SuccessCount)
	assert.Equal(t, 1, data.ActiveServers)
	assert.Equal(t, 1, data.ActiveAlerts)
}

func TestUploadedFileReachableAtAccessPath(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)
	srv := httptest.NewServer(h)
	defer srv.Close()

	tests := []struct {
		name    string
		wantExt string
		wantKey string
	}{
		{name: "photo.j#pg", wantExt: ".jpg", wantKey: "j#pg"},
		{name: `a.b\c`, wantExt: ".bc", wantKey: `b\c`},
		{name: "notes.a%20b", wantExt: ".a20b", wantKey: "a%20b"},
		{name: "x.q?y", wantExt: ".qy", wantKey: "q?y"},
		{name: "weird.%#?", wantExt: "", wantKey: "%#?"},
		{name: "ok.txt", wantExt: ".txt", wantKey: "txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "body of " + tt.name

			rec := doUpload(t, h, tt.name, "application/octet-stream", []byte(content))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			uploaded := decode[dto.UploadResponse](t, rec).File
			assert.Equal(t, tt.name, uploaded.OriginalName)
			if tt.wantExt == "" {
				assert.NotContains(t, uploaded.StoredName, ".")
			} else {
				assert.True(t, strings.HasSuffix(uploaded.StoredName, tt.wantExt), uploaded.StoredName)
			}

			resp, err := http.Get(srv.URL + uploaded.AccessPath)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode, uploaded.AccessPath)
			got, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, content, string(got))
		})
	}

	stats := listFiles(t, h).Stats
	assert.Equal(t, int64(len(tests)), stats.TotalFiles)
	for _, tt := range tests {
		assert.Equal(t, int64(1), stats.FileTypeCounts[tt.wantKey], tt.wantKey)
	}
}

func TestUploadSequenceMatchesListing(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	uploads := []struct {
		name    string
		content string
	}{
		{"a.txt", "hello"},
		{"README", "readme body"},
		{"photo.PNG", "\x89PNG...."},
		{"b.txt", ""},
	}

	var total int64
	for _, u := range uploads {
		rec := doUpload(t, h, u.name, "application/octet-stream", []byte(u.content))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		total += int64(len(u.content))
	}

	files := listFiles(t, h)
	require.Len(t, files.Files, len(uploads))
	for i, u := range uploads {
		assert.Equal(t, u.name, files.Files[i].OriginalName)
	}

	assert.Equal(t, int64(len(uploads)), files.Stats.TotalFiles)
	assert.Equal(t, total, files.Stats.TotalSizeBytes)
	assert.Equal(t, map[string]int64{"txt": 2, "unknown": 1, "png": 1}, files.Stats.FileTypeCounts)
	assert.NotNil(t, files.Stats.LastUploadAt)
}

func TestListEmpty(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	rec := doGet(h, "/files")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"files":[],"stats":{"totalFiles":0,"totalSize":0,"lastUpload":null,"fileTypes":{}}}`, rec.Body.String())
}

func TestUploadWithoutFile(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	requests := map[string]*http.Request{
		"multipart without file part": func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			return req
		}(),
		"json body": func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"file":"x"}`))
			req.Header.Set("Content-Type", "application/json")
			return req
		}(),
		"empty body": httptest.NewRequest(http.MethodPost, "/upload", nil),
	}

	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[respond.ErrorResponse](t, rec)
			assert.Equal(t, "No file uploaded", body.Error)
			assert.Equal(t, "Please select a file to upload", body.Message)
		})
	}

	t.Run("wrong field name", func(t *testing.T) {
		body, ct := multipartBody(t, "attachment", "a.txt", "text/plain", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Zero(t, listFiles(t, h).Stats.TotalFiles)
}

func TestUploadTooLarge(t *testing.T) {
	h := newTestRouter(t, 1024)

	rec := doUpload(t, h, "big.bin", "application/octet-stream", bytes.Repeat([]byte("x"), 2048))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large", decode[respond.ErrorResponse](t, rec).Error)

	rec = doUpload(t, h, "huge.bin", "application/octet-stream", bytes.Repeat([]byte("x"), 2<<20))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = doUpload(t, h, "fits.bin", "application/octet-stream", bytes.Repeat([]byte("x"), 1024))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(1), listFiles(t, h).Stats.TotalFiles)
}

func TestServeUnknownStoredName(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	for _, path := range []string{"/uploads/file-123-456.txt", "/uploads/..%2F..%2Fetc%2Fpasswd"} {
		rec := doGet(h, path)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Not Found", decode[respond.ErrorResponse](t, rec).Error)
	}
}

func TestNotFoundEchoesRoute(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	rec := doGet(h, "/nope?x=1")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[respond.ErrorResponse](t, rec)
	assert.Equal(t, "Not Found", body.Error)
	assert.Equal(t, "Route GET /nope?x=1 not found", body.Message)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/files", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route DELETE /files not found", decode[respond.ErrorResponse](t, rec).Message)
}

func TestHealthUnaffectedByUploads(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	for i := 0; i < 3; i++ {
		rec := doGet(h, "/health")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[system.HealthResponse](t, rec)
		assert.True(t, body.OK)
		assert.GreaterOrEqual(t, body.Uptime, 0.0)
		assert.Equal(t, "test", body.Environment)

		require.Equal(t, http.StatusOK, doUpload(t, h, "x.log", "text/plain", []byte("line")).Code)
	}
}

func TestConcurrentUploadsKeepInvariants(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)
	names := []string{"a.txt", "b.csv", "c.JSON", "README"}

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := doUpload(t, h, names[i%len(names)], "text/plain", []byte("0123456789"))
			assert.Equal(t, http.StatusOK, rec.Code)
		}(i)
	}
	wg.Wait()

	files := listFiles(t, h)
	assert.Len(t, files.Files, n)
	assert.Equal(t, int64(n), files.Stats.TotalFiles)
	assert.Equal(t, int64(n*10), files.Stats.TotalSizeBytes)

	var sum int64
	for _, c := range files.Stats.FileTypeCounts {
		sum += c
	}
	assert.Equal(t, files.Stats.TotalFiles, sum)

	seen := make(map[string]bool, n)
	for _, f := range files.Files {
		assert.False(t, seen[f.StoredName], "duplicate stored name %s", f.StoredName)
		seen[f.StoredName] = true
	}
}

func TestRootAndDashboard(t *testing.T) {
	h := newTestRouter(t, domain.DefaultMaxUploadSize)

	rec := doGet(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LogSaaS Lite API", decode[system.RootResponse](t, rec).Message)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = doGet(h, "/dashboard/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dashboard")

	rec = doGet(h, "/dashboard")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
}
