package handler_test

import (
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclink/internal/jwttoken"
	linkhandler "doclink/internal/link/handler"
	linkservice "doclink/internal/link/service"
	"doclink/internal/link/store"
	"doclink/internal/platform/middleware"
	httptransport "doclink/internal/transport/http"
	uploadhandler "doclink/internal/upload/handler"
	"doclink/internal/upload/service"
	"doclink/internal/upload/staging"
	"doclink/pkg/testutil"
)

var (
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
	pdfBytes  = []byte("%PDF-1.7\n%fake document body")
)

type fixture struct {
	router     http.Handler
	stagingDir string
	token      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.Default()
	dir := t.TempDir()

	links := linkservice.New(store.NewInMemoryRequestStore())

	staged, err := staging.New(dir)
	require.NoError(t, err)
	uploads := service.New(staged)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Links:      linkhandler.New(links, "https://docs.example.com", logger),
		Uploads:    uploadhandler.New(uploads, logger),
		AdminAuth:  middleware.NewAdminAuth(jwttoken.NewJWTService("k", "doclink"), logger, middleware.WithDisabled(true)),
		UploadGate: middleware.RequireUploadToken(links, logger),
	})

	record, err := links.Issue(t.Context(), "u1", []string{"passport"})
	require.NoError(t, err)

	return &fixture{router: router, stagingDir: dir, token: record.Token}
}

func (f *fixture) stagedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.stagingDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadAccepted(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload/"+f.token,
		"document", "passport.jpg", "image/jpeg", jpegBytes, nil)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string]bool](t, rr)
	assert.True(t, (*resp)["success"])
	assert.Len(t, f.stagedFiles(t), 1, "accepted file must be on disk")
}

func TestUploadSpoofedTypeRejected(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload/"+f.token,
		"document", "passport.png", "image/png", pdfBytes, nil)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "content_mismatch")
	assert.Empty(t, f.stagedFiles(t), "mismatched file must not survive")
}

func TestUploadUnsupportedType(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload/"+f.token,
		"document", "notes.txt", "text/plain", []byte("hello"), nil)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "unsupported_type")
	assert.Empty(t, f.stagedFiles(t))
}

func TestUploadMissingFileField(t *testing.T) {
	f := newFixture(t)

	// Wrong multipart field name: the gate passes but the handler finds no file.
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload/"+f.token,
		"attachment", "passport.jpg", "image/jpeg", jpegBytes, nil)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestUploadTokenInFormBody(t *testing.T) {
	f := newFixture(t)

	// Bare path; the gate pulls the token out of the multipart form field.
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload",
		"document", "passport.jpg", "image/jpeg", jpegBytes,
		map[string]string{"token": f.token})
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Len(t, f.stagedFiles(t), 1)
}

func TestUploadWithoutToken(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload",
		"document", "passport.jpg", "image/jpeg", jpegBytes, nil)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "missing_token")
	assert.Empty(t, f.stagedFiles(t))
}

func TestUploadConsumedLinkRejected(t *testing.T) {
	f := newFixture(t)

	patch := testutil.NewJSONRequest(t, http.MethodPatch,
		"/api/admin/request/"+f.token+"/status", map[string]string{"status": "consumed"})
	testutil.AssertStatus(t, testutil.DoRequest(f.router, patch), http.StatusOK)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/upload/"+f.token,
		"document", "passport.jpg", "image/jpeg", jpegBytes, nil)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "inactive_link")
	assert.Empty(t, f.stagedFiles(t))
}
