package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/propdesk/backend/internal/application/dashboard"
	appleasing "github.com/propdesk/backend/internal/application/leasing"
	appproperty "github.com/propdesk/backend/internal/application/property"
	appsearch "github.com/propdesk/backend/internal/application/search"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
	"github.com/propdesk/backend/internal/infrastructure/persistence/models"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testAPI is a router over real services backed by in-memory SQLite
type testAPI struct {
	db       *gorm.DB
	engine   *gin.Engine
	officeID uuid.UUID
	sessions *appsearch.SessionManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIForOffice(t, openTestDB(t), uuid.New())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newTestAPIForOffice serves officeID over an existing database
func newTestAPIForOffice(t *testing.T, db *gorm.DB, officeID uuid.UUID) *testAPI {
	t.Helper()
	owners := persistence.NewGormOwnerRepository(db)
	buildings := persistence.NewGormBuildingRepository(db)
	units := persistence.NewGormUnitRepository(db)
	tenants := persistence.NewGormTenantRepository(db)
	contracts := persistence.NewGormContractRepository(db)
	payables := persistence.NewGormPayableRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	searchCfg := config.SearchConfig{
		Debounce:     20 * time.Millisecond,
		PerKindLimit: 5,
		Timeout:      2 * time.Second,
		MaxSessions:  10,
	}
	agg := appsearch.NewAggregator(persistence.SearchSources(db), searchCfg)
	sessions := appsearch.NewSessionManager(agg, searchCfg)
	t.Cleanup(sessions.Shutdown)

	api := &testAPI{db: db, officeID: officeID, sessions: sessions}

	onboarding := NewOnboardingHandler(appleasing.NewOnboardingService(scope, nil, config.OnboardingConfig{}, zap.NewNop()))
	owner := NewOwnerHandler(appproperty.NewOwnerService(owners, buildings))
	building := NewBuildingHandler(appproperty.NewBuildingService(buildings, owners, units))
	unit := NewUnitHandler(appproperty.NewUnitService(units, buildings))
	marketplace := NewMarketplaceHandler(appproperty.NewMarketplaceService(persistence.NewGormListingRepository(db)))
	tenant := NewTenantHandler(appleasing.NewTenantService(tenants))
	contract := NewContractHandler(appleasing.NewContractService(contracts, scope))
	payable := NewPayableHandler(appleasing.NewPayableService(payables, contracts))
	dash := NewDashboardHandler(dashboard.NewService(owners, buildings, units, tenants, contracts, payables))
	search := NewSearchHandler(agg, sessions, searchCfg.Debounce, time.Second)

	r := gin.New()
	r.Use(middleware.RequestID())
	v1 := r.Group("/api/v1")
	v1.Use(middleware.StaticOffice(api.officeID))

	v1.POST("/onboarding", onboarding.Onboard)

	v1.GET("/search", search.Search)
	v1.POST("/search/live", search.OpenLive)
	v1.GET("/search/live/:session", search.Stream)
	v1.POST("/search/live/:session/query", search.SubmitQuery)
	v1.DELETE("/search/live/:session", search.CloseLive)

	v1.GET("/owners", owner.List)
	v1.POST("/owners", owner.Create)
	v1.GET("/owners/:id", owner.GetByID)
	v1.PUT("/owners/:id", owner.Update)
	v1.DELETE("/owners/:id", owner.Delete)

	v1.GET("/buildings", building.List)
	v1.POST("/buildings", building.Create)
	v1.GET("/buildings/:id", building.GetByID)
	v1.DELETE("/buildings/:id", building.Delete)

	v1.GET("/units", unit.List)
	v1.POST("/units", unit.Create)
	v1.GET("/units/:id", unit.GetByID)
	v1.PATCH("/units/:id/status", unit.SetStatus)
	v1.PATCH("/units/:id/listing", unit.UpdateListing)

	v1.GET("/marketplace/listings", marketplace.List)
	v1.GET("/marketplace/listings/:id", marketplace.GetByID)
	v1.GET("/marketplace/cities", marketplace.Cities)
	v1.GET("/marketplace/price-ranges", marketplace.PriceRange)

	v1.GET("/tenants", tenant.List)
	v1.GET("/tenants/:id", tenant.GetByID)
	v1.PUT("/tenants/:id", tenant.UpdateContact)
	v1.PATCH("/tenants/:id/status", tenant.ChangeStatus)

	v1.GET("/contracts", contract.List)
	v1.GET("/contracts/:id", contract.GetByID)
	v1.PUT("/contracts/:id", contract.Update)
	v1.POST("/contracts/:id/terminate", contract.Terminate)

	v1.GET("/payables", payable.List)
	v1.POST("/payables", payable.Create)
	v1.GET("/payables/:id", payable.GetByID)
	v1.PUT("/payables/:id", payable.Update)
	v1.POST("/payables/:id/pay", payable.MarkPaid)
	v1.POST("/payables/:id/cancel", payable.Cancel)

	v1.GET("/dashboard", dash.Stats)

	api.engine = r
	return api
}

// envelope mirrors dto.Response with a raw data payload
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNoContent && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func jsonUnmarshal(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type idOnly struct {
	ID uuid.UUID `json:"id"`
}

// seedUnit creates an owner, a building and a vacant unit through the API
func (a *testAPI) seedUnit(t *testing.T, ownerName, unitNumber string) (ownerID, buildingID, unitID uuid.UUID) {
	t.Helper()
	rec, env := a.do(t, http.MethodPost, "/api/v1/owners", map[string]any{
		"full_name": ownerName,
		"phone":     "0501234567",
		"email":     "owner@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ownerID = decodeData[idOnly](t, env).ID

	rec, env = a.do(t, http.MethodPost, "/api/v1/buildings", map[string]any{
		"owner_id":      ownerID,
		"name":          "Palm Tower",
		"city":          "Riyadh",
		"building_type": "residential",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	buildingID = decodeData[idOnly](t, env).ID

	rec, env = a.do(t, http.MethodPost, "/api/v1/units", map[string]any{
		"building_id":   buildingID,
		"unit_number":   unitNumber,
		"unit_type":     "apartment",
		"yearly_rent":   "60000",
		"payment_terms": "quarterly",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	unitID = decodeData[idOnly](t, env).ID
	return ownerID, buildingID, unitID
}

func onboardBody(unitID uuid.UUID, nationalID string) map[string]any {
	return map[string]any{
		"unit_id":     unitID,
		"first_name":  "Sara",
		"last_name":   "Al-Qahtani",
		"national_id": nationalID,
		"phone":       "0551234567",
		"email":       "sara@example.com",
	}
}
