package roles

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newRolesRouter(t *testing.T) (chi.Router, *memoryRolesRepo) {
	t.Helper()
	repo := newMemoryRolesRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo))
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, repo
}

func doJSON(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestRoleEndpoints(t *testing.T) {
	router, _ := newRolesRouter(t)

	res := doJSON(t, router, http.MethodPost, "/", `{"name":"VIEWER","description":"Read-only"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var created Role
	if err := json.Unmarshal(res.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.Name != "VIEWER" || len(created.Permissions) != 0 {
		t.Fatalf("unexpected created role: %+v", created)
	}

	res = doJSON(t, router, http.MethodGet, "/", "")
	if res.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", res.Code)
	}

	res = doJSON(t, router, http.MethodGet, "/99", "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", res.Code)
	}

	res = doJSON(t, router, http.MethodPut, "/99", `{"name":"X"}`)
	if res.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", res.Code)
	}

	res = doJSON(t, router, http.MethodPost, "/", `{"name":"VIEWER"}`)
	if res.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", res.Code)
	}

	res = doJSON(t, router, http.MethodPost, "/", `{"description":"no name"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("blank name: expected 400, got %d: %s", res.Code, res.Body.String())
	}
}

func TestRolePermissionEndpoints(t *testing.T) {
	router, repo := newRolesRouter(t)

	perm := repo.addPermissionRecord("READ", "Read access")
	res := doJSON(t, router, http.MethodPost, "/", `{"name":"VIEWER"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("create role: expected 200, got %d", res.Code)
	}
	var role Role
	if err := json.Unmarshal(res.Body.Bytes(), &role); err != nil {
		t.Fatalf("decode role: %v", err)
	}

	attachPath := "/" + itoa(role.ID) + "/permissions/" + itoa(perm.ID)
	res = doJSON(t, router, http.MethodPost, attachPath, "")
	if res.Code != http.StatusOK {
		t.Fatalf("attach: expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var updated Role
	if err := json.Unmarshal(res.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode attach: %v", err)
	}
	if len(updated.Permissions) != 1 || updated.Permissions[0].Name != "READ" {
		t.Fatalf("expected READ in permission set, got %+v", updated.Permissions)
	}

	res = doJSON(t, router, http.MethodDelete, attachPath, "")
	if res.Code != http.StatusOK {
		t.Fatalf("detach: expected 200, got %d", res.Code)
	}
	if err := json.Unmarshal(res.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode detach: %v", err)
	}
	if len(updated.Permissions) != 0 {
		t.Fatalf("expected empty permission set, got %+v", updated.Permissions)
	}

	res = doJSON(t, router, http.MethodPost, "/"+itoa(role.ID)+"/permissions/999", "")
	if res.Code != http.StatusNotFound {
		t.Fatalf("attach missing permission: expected 404, got %d", res.Code)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
