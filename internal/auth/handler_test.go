package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/product-catalog/internal/transport"
)

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler *Handler
		codec   *TokenCodec
	)

	ginkgo.BeforeEach(func() {
		codec = NewTokenCodec("test-secret-key-with-enough-length", 15*time.Minute)
		handler = NewHandler(NewService(newMockCredentialStore(), codec))
	})

	login := func(payload string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	ginkgo.Context("with valid credentials", func() {
		ginkgo.It("should return the token in the body and the response header", func() {
			rec := login(`{"email":"user@example.com","password":"correct_password"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			var body TokenResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body.Token).ToNot(gomega.BeEmpty())
			gomega.Expect(rec.Header().Get(transport.AuthTokenHeader)).To(gomega.Equal(body.Token))

			claims, err := codec.Verify(body.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("user-1"))
		})
	})

	ginkgo.Context("with bad credentials", func() {
		ginkgo.It("should answer 400 without telling email and password apart", func() {
			wrongPassword := login(`{"email":"user@example.com","password":"wrong_password"}`)
			unknownEmail := login(`{"email":"ghost@example.com","password":"correct_password"}`)

			gomega.Expect(wrongPassword.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(unknownEmail.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(wrongPassword.Body.String()).To(gomega.Equal(unknownEmail.Body.String()))
		})
	})

	ginkgo.Context("with a malformed payload", func() {
		ginkgo.It("should answer 400 on invalid JSON", func() {
			rec := login(`{notjson`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("should answer 400 on a failing validation", func() {
			rec := login(`{"email":"user@example.com","password":"pw"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})
})
