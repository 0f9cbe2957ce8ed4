package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/product-catalog/internal/audit"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/pagination"
)

// Mock service delegating to canned results
type mockUserService struct {
	user    *User
	results []map[string]interface{}
	err     error
}

func (m *mockUserService) Create(context.Context, CreateUserDTO) (*User, error) {
	return m.user, m.err
}

func (m *mockUserService) GetByID(context.Context, string) (*User, error) {
	return m.user, m.err
}

func (m *mockUserService) GetByEmail(context.Context, string) (*User, error) {
	return m.user, m.err
}

func (m *mockUserService) List(context.Context, pagination.Params) ([]map[string]interface{}, error) {
	return m.results, m.err
}

func (m *mockUserService) Delete(context.Context, string) (*User, error) {
	return m.user, m.err
}

type mockAuditReporter struct {
	ok    bool
	calls int
}

func (m *mockAuditReporter) Report(context.Context, auth.Principal, audit.Method, string) bool {
	m.calls++
	return m.ok
}

var _ = ginkgo.Describe("UserHandler", func() {
	var (
		svc      *mockUserService
		reporter *mockAuditReporter
		handler  *Handler
	)

	sample := &User{
		ID:           "user-1",
		FirstName:    "Jamie",
		LastName:     "Catalog",
		Email:        "jamie@example.com",
		PasswordHash: "hash",
		Operations:   []string{auth.OpProdList},
	}

	ginkgo.BeforeEach(func() {
		svc = &mockUserService{user: sample}
		reporter = &mockAuditReporter{ok: true}
		handler = NewHandler(svc, reporter)
	})

	audited := func(req *http.Request) *http.Request {
		principal := auth.Principal{UserID: "user-1", Operations: auth.AllOperations, Audit: true}
		return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	}

	body := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &out)).To(gomega.Succeed())
		return out
	}

	ginkgo.Describe("Create", func() {
		ginkgo.It("should answer 200 without the password hash", func() {
			req := audited(httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"jamie@example.com"}`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			out := body(rec)
			gomega.Expect(out["email"]).To(gomega.Equal("jamie@example.com"))
			gomega.Expect(out).ToNot(gomega.HaveKey("passwordHash"))
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("hash"))
		})

		ginkgo.It("should answer 400 with the taken email in the message", func() {
			svc.user = nil
			svc.err = ErrEmailTaken
			req := audited(httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"jamie@example.com"}`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("User already registered: jamie@example.com"))
		})

		ginkgo.It("should answer 424 when the record was stored but not audited", func() {
			reporter.ok = false
			req := audited(httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{}`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFailedDependency))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("Audit server not available"))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should answer 400 on a singular miss", func() {
			svc.user = nil
			svc.err = ErrUserNotFound
			req := audited(httptest.NewRequest(http.MethodGet, "/api/users?userId=ghost", nil))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("User with ID ghost was not found"))
		})

		ginkgo.It("should wrap listings in the page envelope", func() {
			svc.results = []map[string]interface{}{
				{"id": "user-1", "email": "a@example.com", "operations": []string{}},
			}
			req := audited(httptest.NewRequest(http.MethodGet, "/api/users", nil))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			envelope := body(rec)
			gomega.Expect(envelope).To(gomega.HaveKey("_links"))
			gomega.Expect(envelope["results"]).To(gomega.HaveLen(1))
		})
	})

	ginkgo.Describe("Me", func() {
		ginkgo.It("should load the record of the token subject", func() {
			req := audited(httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
			rec := httptest.NewRecorder()

			handler.Me(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body(rec)["id"]).To(gomega.Equal("user-1"))
		})

		ginkgo.It("should answer 401 without a principal", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			rec := httptest.NewRecorder()

			handler.Me(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should answer 400 when the token subject no longer exists", func() {
			svc.user = nil
			svc.err = ErrUserNotFound
			req := audited(httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
			rec := httptest.NewRecorder()

			handler.Me(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should answer a plain success body", func() {
			req := audited(httptest.NewRequest(http.MethodDelete, "/api/users?userId=user-1", nil))
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body(rec)["status"]).To(gomega.Equal("Success"))
		})

		ginkgo.It("should answer 404 on a missing target", func() {
			svc.user = nil
			svc.err = ErrUserNotFound
			req := audited(httptest.NewRequest(http.MethodDelete, "/api/users?userId=ghost", nil))
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})

		ginkgo.It("should answer 500 on an unexpected storage error", func() {
			svc.user = nil
			svc.err = errors.New("disk on fire")
			req := audited(httptest.NewRequest(http.MethodDelete, "/api/users?userId=user-1", nil))
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		})
	})
})
