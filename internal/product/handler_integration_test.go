package product_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/product-catalog/internal/audit"
	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/product"
	productPostgres "github.com/frahmantamala/product-catalog/internal/product/postgres"
	"github.com/frahmantamala/product-catalog/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubAuditReporter struct {
	ok    bool
	calls int
}

func (s *stubAuditReporter) Report(ctx context.Context, principal auth.Principal, method audit.Method, data string) bool {
	s.calls++
	return s.ok
}

var _ = Describe("Product Handler Integration", func() {
	var (
		db       *gorm.DB
		repo     product.Repository
		service  *product.Service
		reporter *stubAuditReporter
		handler  *product.Handler
		slogger  *slog.Logger
	)

	principal := auth.Principal{
		UserID:     "u-integration",
		Operations: []string{auth.OpProdUpsert, auth.OpProdList, auth.OpProdDelete},
		Audit:      true,
	}

	validBody := func() map[string]interface{} {
		return map[string]interface{}{
			"sku":           "55555555",
			"code":          "deadbeef",
			"unitOfMeasure": "carton",
			"materialID":    "1234",
			"description":   "integration test product",
			"category":      "snacks",
			"manufacturer":  "ACME Corp",
			"consumerUnits": 12,
		}
	}

	newRequest := func(method, target string, body interface{}) *http.Request {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		return req.WithContext(auth.ContextWithPrincipal(req.Context(), principal))
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&product.Product{})
		Expect(err).NotTo(HaveOccurred())

		repo = productPostgres.NewProductRepository(db)
		service = product.NewService(repo, slogger)
		reporter = &stubAuditReporter{ok: true}
		handler = &product.Handler{
			BaseHandler: &transport.BaseHandler{Logger: slogger},
			Service:     service,
			Audit:       reporter,
		}
	})

	It("creates a product end to end and answers 200 with the stored record", func() {
		req := newRequest(http.MethodPost, "/api/products", validBody())
		w := httptest.NewRecorder()

		handler.Create(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var created product.Product
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeEmpty())
		Expect(created.UnitOfMeasure).To(Equal("CARTON"))

		stored, err := repo.FindByID(context.Background(), created.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.SKU).To(Equal("55555555"))
		Expect(stored.Description).To(Equal("integration test product"))
		Expect(reporter.calls).To(Equal(1))
	})

	It("rejects a payload with a missing required field and stores nothing", func() {
		body := validBody()
		delete(body, "description")

		req := newRequest(http.MethodPost, "/api/products", body)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var errResp struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&errResp)).To(Succeed())
		Expect(errResp.Message).To(Equal("description is required"))

		_, err := repo.FindBySKU(context.Background(), "55555555")
		Expect(err).To(MatchError(product.ErrProductNotFound))
		Expect(reporter.calls).To(BeZero())
	})

	Context("when the audit sink is down", func() {
		BeforeEach(func() {
			reporter.ok = false
		})

		It("commits the product but answers 424", func() {
			req := newRequest(http.MethodPost, "/api/products", validBody())
			w := httptest.NewRecorder()

			handler.Create(w, req)

			Expect(w.Code).To(Equal(http.StatusFailedDependency))

			var errResp struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&errResp)).To(Succeed())
			Expect(errResp.Code).To(Equal(http.StatusFailedDependency))
			Expect(errResp.Message).To(Equal("Audit server not available"))

			stored, err := repo.FindBySKU(context.Background(), "55555555")
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ID).NotTo(BeEmpty())
			Expect(stored.UnitOfMeasure).To(Equal("CARTON"))

			fetched, err := repo.FindByID(context.Background(), stored.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.SKU).To(Equal("55555555"))
		})
	})

	It("serves a created product back through GET by productId", func() {
		createReq := newRequest(http.MethodPost, "/api/products", validBody())
		createW := httptest.NewRecorder()
		handler.Create(createW, createReq)
		Expect(createW.Code).To(Equal(http.StatusOK))

		var created product.Product
		Expect(json.NewDecoder(createW.Body).Decode(&created)).To(Succeed())

		getReq := newRequest(http.MethodGet, "/api/products?productId="+created.ID, nil)
		getW := httptest.NewRecorder()
		handler.Get(getW, getReq)

		Expect(getW.Code).To(Equal(http.StatusOK))

		var fetched product.Product
		Expect(json.NewDecoder(getW.Body).Decode(&fetched)).To(Succeed())
		Expect(fetched.ID).To(Equal(created.ID))
		Expect(fetched.SKU).To(Equal("55555555"))
	})
})
