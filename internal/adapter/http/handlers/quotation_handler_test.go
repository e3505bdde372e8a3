package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shama_quotations/internal/adapter/http/handlers/mocks"
	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase"
	"shama_quotations/internal/usecase/interfaces"
	"shama_quotations/pkg"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func newQuotationRouter(uc usecase.IQuotationUseCase) *gin.Engine {
	h := NewQuotationHandler(uc)
	r := gin.New()
	r.POST("/v1/quotations", h.CreateQuotation)
	r.GET("/v1/quotations", h.ListQuotations)
	r.GET("/v1/quotations/:id", h.GetQuotation)
	r.POST("/v1/quotations/:id/submit", h.SubmitQuotation)
	r.POST("/v1/quotations/:id/approve", h.ApproveQuotation)
	r.POST("/v1/quotations/:id/cancel", h.CancelQuotation)
	return r
}

func sampleQuotation(status entities.QuotationStatus) entities.Quotation {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return entities.Quotation{
		ID:          "q-1",
		CustomerID:  "c-1",
		Status:      status,
		Items:       []entities.PricedLineItem{{ProductID: "p-1", ProductName: "Widget", Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
		TotalAmount: decimal.NewFromInt(100),
		CreatedBy:   "system",
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) pkg.HTTPError {
	t.Helper()
	var body pkg.HTTPError
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestQuotationHandler_CreateQuotation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected VALIDATION_ERROR, got %s", body.Code)
		}
	})

	t.Run("empty items and zero quantity are rejected before the usecase", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		router := newQuotationRouter(uc)

		for _, body := range []string{
			`{"customerId":"c-1","items":[]}`,
			`{"customerId":"c-1","items":[{"productId":"p-1","quantity":0}]}`,
			`{"items":[{"productId":"p-1","quantity":1}]}`,
		} {
			req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 for %s, got %d", body, w.Code)
			}
		}
	})

	t.Run("success uses X-User-ID as author", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)

		uc.EXPECT().CreateQuotation(gomock.Any(), usecase.CreateQuotationInput{
			CustomerID: "c-1",
			CreatedBy:  "alice",
			Items:      []entities.UnpricedLineItem{{ProductID: "p-1", Quantity: 2}},
		}).Return(sampleQuotation(entities.QuotationStatusDraft), nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString(`{"customerId":"c-1","items":[{"productId":"p-1","quantity":2}]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderUserID, "alice")
		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if body["quotationId"] != "q-1" || body["totalAmount"] != "100" || body["status"] != "DRAFT" {
			t.Fatalf("unexpected body %v", body)
		}
	})

	t.Run("missing header defaults to system", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)

		uc.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in usecase.CreateQuotationInput) (entities.Quotation, error) {
				if in.CreatedBy != "system" {
					t.Fatalf("expected system, got %q", in.CreatedBy)
				}
				return sampleQuotation(entities.QuotationStatusDraft), nil
			})

		req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString(`{"customerId":"c-1","items":[{"productId":"p-1","quantity":2}]}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("usecase errors are mapped", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{&interfaces.ProductNotFoundError{ProductID: "p-9"}, http.StatusBadRequest, "PRODUCT_NOT_FOUND"},
			{fmt.Errorf("%w: customer id is required", usecase.ErrInvalidQuotation), http.StatusBadRequest, "VALIDATION_ERROR"},
			{fmt.Errorf("%w: lookup", usecase.ErrDependencyTimeout), http.StatusGatewayTimeout, "DEPENDENCY_TIMEOUT"},
			{fmt.Errorf("%w: lookup", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE"},
			{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		}
		for _, tc := range cases {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIQuotationUseCase(ctrl)
			uc.EXPECT().CreateQuotation(gomock.Any(), gomock.Any()).Return(entities.Quotation{}, tc.err)

			req := httptest.NewRequest(http.MethodPost, "/v1/quotations", bytes.NewBufferString(`{"customerId":"c-1","items":[{"productId":"p-9","quantity":1}]}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newQuotationRouter(uc).ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("err %v: expected %d, got %d", tc.err, tc.status, w.Code)
			}
			if body := decodeError(t, w); body.Code != tc.code {
				t.Fatalf("err %v: expected %s, got %s", tc.err, tc.code, body.Code)
			}
			ctrl.Finish()
		}
	})
}

func TestQuotationHandler_Transitions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("approve success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		sold := sampleQuotation(entities.QuotationStatusSold)
		uc.EXPECT().ApproveQuotation(gomock.Any(), "q-1").Return(sold, nil)

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotations/q-1/approve", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("approve conflicts", func(t *testing.T) {
		for _, tc := range []struct {
			err  error
			code string
		}{
			{fmt.Errorf("%w: cannot approve quotation in status DRAFT", usecase.ErrInvalidState), "INVALID_STATE"},
			{fmt.Errorf("%w: q-1", usecase.ErrConcurrentModification), "CONCURRENT_MODIFICATION"},
		} {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIQuotationUseCase(ctrl)
			uc.EXPECT().ApproveQuotation(gomock.Any(), "q-1").Return(entities.Quotation{}, tc.err)

			w := httptest.NewRecorder()
			newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotations/q-1/approve", nil))
			if w.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", w.Code)
			}
			if body := decodeError(t, w); body.Code != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, body.Code)
			}
			ctrl.Finish()
		}
	})

	t.Run("submit not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		uc.EXPECT().SubmitQuotation(gomock.Any(), "missing").Return(entities.Quotation{}, usecase.ErrQuotationNotFound)

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotations/missing/submit", nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		if body := decodeError(t, w); body.Code != "QUOTATION_NOT_FOUND" {
			t.Fatalf("expected QUOTATION_NOT_FOUND, got %s", body.Code)
		}
	})

	t.Run("cancel success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		uc.EXPECT().CancelQuotation(gomock.Any(), "q-1").Return(sampleQuotation(entities.QuotationStatusCancelled), nil)

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/quotations/q-1/cancel", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("get", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		uc.EXPECT().GetQuotation(gomock.Any(), "q-1").Return(sampleQuotation(entities.QuotationStatusPending), nil)

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotations/q-1", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestQuotationHandler_ListQuotations(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("query is translated to a filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)

		uc.EXPECT().ListQuotations(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, f interfaces.QuotationFilter) ([]entities.Quotation, error) {
				if f.Status != entities.QuotationStatusPending || f.Limit != 10 || f.Offset != 5 {
					t.Fatalf("unexpected filter %+v", f)
				}
				if f.MinAmount == nil || !f.MinAmount.Equal(decimal.NewFromInt(10)) {
					t.Fatalf("unexpected min amount %v", f.MinAmount)
				}
				return []entities.Quotation{sampleQuotation(entities.QuotationStatusPending)}, nil
			})

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotations?status=PENDING&minAmount=10&limit=10&offset=5", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var body struct {
			Items []struct {
				QuotationID string `json:"quotationId"`
				ItemCount   int    `json:"itemCount"`
			} `json:"items"`
			Limit int `json:"limit"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if len(body.Items) != 1 || body.Items[0].ItemCount != 1 || body.Limit != 10 {
			t.Fatalf("unexpected body %+v", body)
		}
	})

	t.Run("default limit is reported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		uc.EXPECT().ListQuotations(gomock.Any(), gomock.Any()).Return(nil, nil)

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotations", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !bytes.Contains(w.Body.Bytes(), []byte(`"limit":50`)) || !bytes.Contains(w.Body.Bytes(), []byte(`"items":[]`)) {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("bad query values", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		router := newQuotationRouter(uc)

		for _, target := range []string{"/v1/quotations?minAmount=abc", "/v1/quotations?limit=ten", "/v1/quotations?dateFrom=never"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", target, w.Code)
			}
		}
	})

	t.Run("invalid filter from usecase", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIQuotationUseCase(ctrl)
		uc.EXPECT().ListQuotations(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: unknown status", usecase.ErrInvalidListFilter))

		w := httptest.NewRecorder()
		newQuotationRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/quotations?status=OPEN", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
