package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/config"
	"github.com/Pranay9392/meity-audit-v2/internal/server"
)

func setupServer(t *testing.T) *server.Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := config.Config{
		Environment: "test",
		HTTPPort:    "0",
		MediaDir:    t.TempDir(),
		JWTSecret:   "integration-test-secret",
	}
	srv, err := server.New(db, cfg)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *server.Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, req)
	return w
}

func uploadFile(t *testing.T, srv *server.Server, path, token, docType, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	if docType != "" {
		require.NoError(t, mw.WriteField("document_type", docType))
	}
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	srv.Engine.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, srv *server.Server, username, role string) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "integration-pass",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "integration-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuditWorkflowOverHTTP(t *testing.T) {
	srv := setupServer(t)

	alice := registerAndLogin(t, srv, "alice", "CSP")
	bob := registerAndLogin(t, srv, "bob", "MeitY_Reviewer")
	carol := registerAndLogin(t, srv, "carol", "STQC_Auditor")
	dan := registerAndLogin(t, srv, "dan", "Scientist_F")

	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/api/v1/audit-requests", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "alice", "password": "integration-pass", "role": "CSP",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "alice", "password": "wrong-pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	var requestUUID string
	t.Run("csp submits a request", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/audit-requests", alice, map[string]string{
			"service_provider_name": "CloudCorp",
			"data_center_location":  "Mumbai",
			"description":           "Empanelment audit",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			UUID   string `json:"uuid"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "Submitted_by_CSP", created.Status)
		requestUUID = created.UUID
	})

	t.Run("reviewer cannot create requests", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/audit-requests", bob, map[string]string{
			"service_provider_name": "X", "data_center_location": "Y",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("auditor cannot act before the forward", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", carol, map[string]string{
			"status": "Audit_Completed_by_STQC",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("reviewer cannot skip ahead", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", bob, map[string]string{
			"status": "Approved_by_ScientistF",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reviewer forwards to stqc", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", bob, map[string]string{
			"status": "Forwarded_to_STQC",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("replaying the forward is rejected", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", bob, map[string]string{
			"status": "Forwarded_to_STQC",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	var documentUUID string
	t.Run("auditor uploads the report", func(t *testing.T) {
		w := uploadFile(t, srv, "/api/v1/audit-requests/"+requestUUID+"/documents", carol,
			"Audit_Report", "report.pdf", "audit findings")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var doc struct {
			UUID string `json:"uuid"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		documentUUID = doc.UUID
	})

	t.Run("auditor completes the audit", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", carol, map[string]string{
			"status": "Audit_Completed_by_STQC",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("reviewer adds a free-text remark", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/audit-requests/"+requestUUID+"/remarks", bob, map[string]string{
			"comment": "Report looks complete.",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("csp cannot add free-text remarks", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPost, "/api/v1/audit-requests/"+requestUUID+"/remarks", alice, map[string]string{
			"comment": "please hurry",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("scientist f approves", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", dan, map[string]string{
			"status": "Approved_by_ScientistF",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("terminal state is immutable", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+requestUUID+"/status", dan, map[string]string{
			"status": "Rejected_by_ScientistF",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner sees the full audit trail", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/api/v1/audit-requests/"+requestUUID, alice, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var detail struct {
			Status  string `json:"status"`
			Remarks []struct {
				Comment string `json:"comment"`
			} `json:"remarks"`
			Documents []struct {
				FileName string `json:"file_name"`
			} `json:"documents"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		assert.Equal(t, "Approved_by_ScientistF", detail.Status)
		require.Len(t, detail.Remarks, 6)
		assert.Equal(t, "Audit request submitted by CSP: alice.", detail.Remarks[0].Comment)
		assert.Equal(t, "Scientist F made final decision: 'Approved by Scientist F'.", detail.Remarks[5].Comment)
		require.Len(t, detail.Documents, 1)
		assert.Equal(t, "report.pdf", detail.Documents[0].FileName)
	})

	t.Run("owner downloads the report", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/api/v1/documents/"+documentUUID+"/download", alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "audit findings", w.Body.String())
	})

	t.Run("foreign csp sees and touches nothing", func(t *testing.T) {
		eve := registerAndLogin(t, srv, "eve", "CSP")

		w := doJSON(t, srv, http.MethodGet, "/api/v1/audit-requests", eve, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())

		w = doJSON(t, srv, http.MethodGet, "/api/v1/audit-requests/"+requestUUID, eve, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, srv, http.MethodGet, "/api/v1/documents/"+documentUUID+"/download", eve, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown request is 404", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodGet, "/api/v1/audit-requests/does-not-exist", bob, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	srv := setupServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = doJSON(t, srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "audit_transitions_accepted_total")
}

func TestCertificateLifecycleOverHTTP(t *testing.T) {
	srv := setupServer(t)
	alice := registerAndLogin(t, srv, "alice", "CSP")
	bob := registerAndLogin(t, srv, "bob", "MeitY_Reviewer")

	w := doJSON(t, srv, http.MethodPost, "/api/v1/audit-requests", alice, map[string]string{
		"service_provider_name": "CloudCorp",
		"data_center_location":  "Mumbai",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		UUID string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	certPath := fmt.Sprintf("/api/v1/audit-requests/%s/certificate", created.UUID)

	t.Run("owner attaches the certificate while submitted", func(t *testing.T) {
		w := uploadFile(t, srv, certPath, alice, "", "cert.pdf", "certificate body")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(t, srv, http.MethodGet, certPath, alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "certificate body", w.Body.String())
	})

	t.Run("locked after the forward", func(t *testing.T) {
		w := doJSON(t, srv, http.MethodPatch, "/api/v1/audit-requests/"+created.UUID+"/status", bob, map[string]string{
			"status": "Forwarded_to_STQC",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = uploadFile(t, srv, certPath, alice, "", "cert-v2.pdf", "newer")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
