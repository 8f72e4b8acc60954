package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratik980/GharNirman-sub000/internal/application"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/entity"
	"github.com/Pratik980/GharNirman-sub000/internal/domain/repository"
	"github.com/Pratik980/GharNirman-sub000/internal/infrastructure/memory"
	"github.com/Pratik980/GharNirman-sub000/internal/realtime"
	"github.com/Pratik980/GharNirman-sub000/pkg/validation"
)

// asPrincipal injects the identity the real middleware would extract
// from a verified token.
func asPrincipal(id string, role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Set("userRole", string(role))
		c.Next()
	}
}

type webEnv struct {
	store  *memory.Store
	engine *gin.Engine
	bids   *application.BidService
	verify *application.VerificationService
}

func newWebEnv(t *testing.T, id string, role entity.Role) *webEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewStore()
	router := realtime.NewRouter(nil, logger)
	dispatch := application.NewDispatcher(store.Notifications(), store.Contractors(), store.Users(), router, nil, logger)

	tenderSvc := application.NewTenderService(store.Tenders(), dispatch, logger)
	bidSvc := application.NewBidService(store.Bids(), store.Tenders(), store.Contractors(), dispatch, logger)
	verifySvc := application.NewVerificationService(store.Contractors(), dispatch, logger)
	notifySvc := application.NewNotificationService(store.Notifications(), logger)

	engine := gin.New()
	api := engine.Group("/api", asPrincipal(id, role))

	th := NewTenderHandler(tenderSvc, logger)
	api.POST("/tenders", th.Create)
	api.GET("/tenders", th.List)
	api.GET("/tenders/:id", th.Get)
	api.PATCH("/tenders/:id/status", th.Transition)

	bh := NewBidHandler(bidSvc, logger)
	api.PATCH("/bids/:id/status", bh.Decide)

	nh := NewNotificationHandler(notifySvc, logger)
	api.GET("/notifications", nh.Backlog)
	api.POST("/notifications/:id/read", nh.MarkRead)

	return &webEnv{store: store, engine: engine, bids: bidSvc, verify: verifySvc}
}

func (e *webEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestTenderEndpoints(t *testing.T) {
	t.Run("create returns 201 with the open tender", func(t *testing.T) {
		env := newWebEnv(t, "h1", entity.RoleHomeowner)
		w := env.do(t, http.MethodPost, "/api/tenders",
			`{"title":"Kitchen remodel","budget":250000,"homeownerName":"Sita"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "open", resp.Data.Status)
		assert.NotEmpty(t, resp.Data.ID)
	})

	t.Run("validation failure returns 400 with details", func(t *testing.T) {
		env := newWebEnv(t, "h1", entity.RoleHomeowner)
		w := env.do(t, http.MethodPost, "/api/tenders", `{"title":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "budget")
	})

	t.Run("unknown tender returns 404", func(t *testing.T) {
		env := newWebEnv(t, "h1", entity.RoleHomeowner)
		w := env.do(t, http.MethodGet, "/api/tenders/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("stale transition returns 409", func(t *testing.T) {
		env := newWebEnv(t, "h1", entity.RoleHomeowner)
		w := env.do(t, http.MethodPost, "/api/tenders", `{"title":"Garage","budget":5000}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		w = env.do(t, http.MethodPatch, "/api/tenders/"+resp.Data.ID+"/status",
			`{"expected":"open","status":"closed"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = env.do(t, http.MethodPatch, "/api/tenders/"+resp.Data.ID+"/status",
			`{"expected":"open","status":"cancelled"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("direct award returns 400", func(t *testing.T) {
		env := newWebEnv(t, "h1", entity.RoleHomeowner)
		w := env.do(t, http.MethodPatch, "/api/tenders/any/status",
			`{"expected":"open","status":"awarded"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecideBidEndpoint(t *testing.T) {
	env := newWebEnv(t, "h1", entity.RoleHomeowner)
	ctx := context.Background()

	c, err := env.verify.RegisterContractor(ctx, application.RegisterContractorInput{
		FullName: "Ram Builders",
		Email:    "ram@example.com",
		Documents: []entity.Document{
			{Type: entity.DocLicenseFile},
			{Type: entity.DocRegistrationCertificate},
		},
	})
	require.NoError(t, err)
	for _, dt := range entity.RequiredDocuments {
		_, err = env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type: dt, Expected: entity.VerificationPending, Next: entity.VerificationVerified,
		})
		require.NoError(t, err)
	}

	tender, err := env.store.Tenders().Create(ctx, &entity.Tender{ID: "t1", HomeownerID: "h1", Title: "Villa"})
	require.NoError(t, err)
	bid, err := env.bids.SubmitBid(ctx, application.SubmitBidInput{
		TenderID: tender.ID, ContractorID: c.ID, BidAmount: 90000,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPatch, "/api/bids/"+bid.ID+"/status",
		`{"expected":"Under Review","status":"Accepted"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Settling again with the same stale view conflicts.
	w = env.do(t, http.MethodPatch, "/api/bids/"+bid.ID+"/status",
		`{"expected":"Under Review","status":"Rejected"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown status never reaches the service.
	w = env.do(t, http.MethodPatch, "/api/bids/"+bid.ID+"/status",
		`{"expected":"Under Review","status":"Approved"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecideBidForeignOwner(t *testing.T) {
	// Authenticated as h2; the tender belongs to h1.
	env := newWebEnv(t, "h2", entity.RoleHomeowner)
	ctx := context.Background()

	c, err := env.verify.RegisterContractor(ctx, application.RegisterContractorInput{
		FullName: "Ram Builders",
		Email:    "ram@example.com",
		Documents: []entity.Document{
			{Type: entity.DocLicenseFile},
			{Type: entity.DocRegistrationCertificate},
		},
	})
	require.NoError(t, err)
	for _, dt := range entity.RequiredDocuments {
		_, err = env.verify.VerifyDocument(ctx, c.ID, repository.SetDocumentInput{
			Type: dt, Expected: entity.VerificationPending, Next: entity.VerificationVerified,
		})
		require.NoError(t, err)
	}

	tender, err := env.store.Tenders().Create(ctx, &entity.Tender{ID: "t1", HomeownerID: "h1", Title: "Villa"})
	require.NoError(t, err)
	bid, err := env.bids.SubmitBid(ctx, application.SubmitBidInput{
		TenderID: tender.ID, ContractorID: c.ID, BidAmount: 90000,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPatch, "/api/bids/"+bid.ID+"/status",
		`{"expected":"Under Review","status":"Accepted"}`)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	// The bid and tender survive untouched.
	got, err := env.bids.GetBid(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BidUnderReview, got.Status)
	tGot, err := env.store.Tenders().GetByID(ctx, tender.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TenderOpen, tGot.Status)
}

func TestNotificationEndpoints(t *testing.T) {
	env := newWebEnv(t, "h1", entity.RoleHomeowner)
	ctx := context.Background()

	rec := entity.Recipient{ID: "h1", Role: entity.RoleHomeowner}
	n, err := env.store.Notifications().Create(ctx, &entity.Notification{
		ID: "n1", Recipient: rec, Type: entity.NotifNewBid, Message: "New bid",
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "New bid")

	t.Run("bad since is rejected", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/notifications?since=yesterday", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("mark read, twice", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/notifications/"+n.ID+"/read", "")
		require.Equal(t, http.StatusOK, w.Code)
		w = env.do(t, http.MethodPost, "/api/notifications/"+n.ID+"/read", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("foreign notification is invisible", func(t *testing.T) {
		_, err := env.store.Notifications().Create(ctx, &entity.Notification{
			ID:        "n2",
			Recipient: entity.Recipient{ID: "other", Role: entity.RoleHomeowner},
		})
		require.NoError(t, err)

		w := env.do(t, http.MethodPost, "/api/notifications/n2/read", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
