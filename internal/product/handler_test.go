package product

import (
	"context"
	"encoding/json"
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
type mockProductService struct {
	product *Product
	results []map[string]interface{}
	err     error
}

func (m *mockProductService) Create(context.Context, UpsertProductDTO) (*Product, error) {
	return m.product, m.err
}

func (m *mockProductService) Update(context.Context, string, UpsertProductDTO) (*Product, error) {
	return m.product, m.err
}

func (m *mockProductService) Patch(context.Context, string, map[string]interface{}) (*Product, error) {
	return m.product, m.err
}

func (m *mockProductService) GetByID(context.Context, string) (*Product, error) {
	return m.product, m.err
}

func (m *mockProductService) GetBySKU(context.Context, string) (*Product, error) {
	return m.product, m.err
}

func (m *mockProductService) List(context.Context, pagination.Params) ([]map[string]interface{}, error) {
	return m.results, m.err
}

func (m *mockProductService) Delete(context.Context, string) (*Product, error) {
	return m.product, m.err
}

// Mock audit reporter with a switchable outcome
type mockAuditReporter struct {
	ok    bool
	calls int
}

func (m *mockAuditReporter) Report(context.Context, auth.Principal, audit.Method, string) bool {
	m.calls++
	return m.ok
}

var _ = ginkgo.Describe("ProductHandler", func() {
	var (
		svc      *mockProductService
		reporter *mockAuditReporter
		handler  *Handler
	)

	sample := &Product{
		ID:            "prod-1",
		SKU:           "12345678",
		Code:          "12345678",
		UnitOfMeasure: "CARTON",
		MaterialID:    "1234",
		Description:   "A test product",
		Category:      "cigarettes",
		Manufacturer:  "Test Manufacturing",
		ConsumerUnits: 10,
	}

	ginkgo.BeforeEach(func() {
		svc = &mockProductService{product: sample}
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
		ginkgo.It("should answer 200 with the stored record", func() {
			req := audited(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"sku":"12345678"}`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body(rec)["id"]).To(gomega.Equal("prod-1"))
		})

		ginkgo.It("should answer 400 on an unparsable body", func() {
			req := audited(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{notjson`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(reporter.calls).To(gomega.Equal(0))
		})

		ginkgo.It("should answer 424 when the record was stored but not audited", func() {
			reporter.ok = false
			req := audited(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"sku":"12345678"}`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFailedDependency))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("Audit server not available"))
		})

		ginkgo.It("should not report audit for a failed create", func() {
			svc.product = nil
			svc.err = ErrProductNotFound
			req := audited(httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{}`)))
			rec := httptest.NewRecorder()

			handler.Create(rec, req)

			gomega.Expect(reporter.calls).To(gomega.Equal(0))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should take the target id from the query string", func() {
			req := audited(httptest.NewRequest(http.MethodPut, "/api/products?productId=prod-1", strings.NewReader(`{}`)))
			rec := httptest.NewRecorder()

			handler.Update(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should fall back to the id in the body", func() {
			req := audited(httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(`{"productId":"prod-1"}`)))
			rec := httptest.NewRecorder()

			handler.Update(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("should answer 400 when no id is given anywhere", func() {
			req := audited(httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(`{}`)))
			rec := httptest.NewRecorder()

			handler.Update(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("productId not specified"))
		})

		ginkgo.It("should answer 404 when the target does not exist", func() {
			svc.product = nil
			svc.err = ErrProductNotFound
			req := audited(httptest.NewRequest(http.MethodPut, "/api/products?productId=ghost", strings.NewReader(`{}`)))
			rec := httptest.NewRecorder()

			handler.Update(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("Product with id ghost not found"))
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should answer 400 on a singular miss", func() {
			svc.product = nil
			svc.err = ErrProductNotFound
			req := audited(httptest.NewRequest(http.MethodGet, "/api/products?productId=ghost", nil))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("Product with ID ghost was not found"))
		})

		ginkgo.It("should look up by sku", func() {
			req := audited(httptest.NewRequest(http.MethodGet, "/api/products?sku=12345678", nil))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body(rec)["sku"]).To(gomega.Equal("12345678"))
		})

		ginkgo.It("should wrap listings in the page envelope", func() {
			svc.results = []map[string]interface{}{{"id": "prod-1"}, {"id": "prod-2"}}
			req := audited(httptest.NewRequest(http.MethodGet, "/api/products?pageSize=2", nil))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			envelope := body(rec)
			gomega.Expect(envelope["pageSize"]).To(gomega.BeEquivalentTo(2))
			gomega.Expect(envelope["pageNumber"]).To(gomega.BeEquivalentTo(1))
			gomega.Expect(envelope).To(gomega.HaveKey("_links"))
			gomega.Expect(envelope["results"]).To(gomega.HaveLen(2))
		})

		ginkgo.It("should answer 424 on a read the audit sink did not take", func() {
			reporter.ok = false
			req := audited(httptest.NewRequest(http.MethodGet, "/api/products?productId=prod-1", nil))
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusFailedDependency))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should answer a plain success body", func() {
			req := audited(httptest.NewRequest(http.MethodDelete, "/api/products?productId=prod-1", nil))
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(body(rec)["status"]).To(gomega.Equal("Success"))
		})

		ginkgo.It("should answer 404 on a missing target", func() {
			svc.product = nil
			svc.err = ErrProductNotFound
			req := audited(httptest.NewRequest(http.MethodDelete, "/api/products?productId=ghost", nil))
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
			gomega.Expect(body(rec)["message"]).To(gomega.Equal("Not found"))
		})

		ginkgo.It("should answer 400 without a productId", func() {
			req := audited(httptest.NewRequest(http.MethodDelete, "/api/products", nil))
			rec := httptest.NewRecorder()

			handler.Delete(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("audit exemption", func() {
		ginkgo.It("should skip reporting when no principal is attached", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/products?productId=prod-1", nil)
			rec := httptest.NewRecorder()

			handler.Get(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(reporter.calls).To(gomega.Equal(0))
		})
	})
})
