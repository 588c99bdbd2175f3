package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/backend/internal/application/dashboard"
	appleasing "github.com/propdesk/backend/internal/application/leasing"
	appproperty "github.com/propdesk/backend/internal/application/property"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

func onboard(t *testing.T, api *testAPI, ownerName, unitNumber, nationalID string) appleasing.OnboardingResult {
	t.Helper()
	_, _, unitID := api.seedUnit(t, ownerName, unitNumber)
	rec, env := api.do(t, http.MethodPost, "/api/v1/onboarding", onboardBody(unitID, nationalID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[appleasing.OnboardingResult](t, env)
}

func TestTenantHandler(t *testing.T) {
	api := newTestAPI(t)
	result := onboard(t, api, "Khalid Al-Harbi", "A-101", "1012345678")
	path := "/api/v1/tenants/" + result.Tenant.ID.String()

	rec, env := api.do(t, http.MethodPut, path, map[string]any{
		"full_name": "Sara Al-Qahtani",
		"phone":     "0559876543",
		"email":     "sara.q@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "0559876543", decodeData[appleasing.TenantResponse](t, env).Phone)

	rec, env = api.do(t, http.MethodPatch, path+"/status", map[string]any{"status": "blacklisted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "blacklisted", decodeData[appleasing.TenantResponse](t, env).Status)

	rec, env = api.do(t, http.MethodPatch, path+"/status", map[string]any{"status": "gone"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	rec, env = api.do(t, http.MethodGet, "/api/v1/tenants?status=blacklisted", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Meta.Total)

	rec, env = api.do(t, http.MethodGet, "/api/v1/tenants?status=active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(0), env.Meta.Total)
}

func TestContractHandler_Terminate(t *testing.T) {
	api := newTestAPI(t)
	result := onboard(t, api, "Khalid Al-Harbi", "A-101", "1012345678")

	rec, env := api.do(t, http.MethodGet, "/api/v1/contracts?status=active&unit_id="+result.Unit.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	contracts := decodeData[[]appleasing.ContractResponse](t, env)
	require.Len(t, contracts, 1)
	assert.Equal(t, result.Contract.ID, contracts[0].ID)

	path := "/api/v1/contracts/" + result.Contract.ID.String()
	rec, env = api.do(t, http.MethodPost, path+"/terminate", map[string]any{"reason": "tenant relocated"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	terminated := decodeData[appleasing.ContractResponse](t, env)
	assert.Equal(t, "terminated", terminated.Status)
	assert.NotNil(t, terminated.TerminatedAt)

	rec, env = api.do(t, http.MethodGet, "/api/v1/units/"+result.Unit.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vacant", decodeData[appproperty.UnitResponse](t, env).Status)

	rec, env = api.do(t, http.MethodPost, path+"/terminate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

	// the vacated unit can be leased again
	rec, _ = api.do(t, http.MethodPost, "/api/v1/onboarding", onboardBody(result.Unit.ID, "1099999999"))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func contractBody(c appleasing.ContractResponse, status string) map[string]any {
	return map[string]any{
		"start_date":        c.StartDate.Format(time.RFC3339),
		"end_date":          c.EndDate.Format(time.RFC3339),
		"rent_amount":       c.RentAmount.String(),
		"payment_frequency": c.PaymentFrequency,
		"status":            status,
	}
}

func TestContractHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	result := onboard(t, api, "Khalid Al-Harbi", "A-101", "1012345678")
	path := "/api/v1/contracts/" + result.Contract.ID.String()

	body := contractBody(result.Contract, "active")
	body["rent_amount"] = "72000"
	body["security_deposit"] = "6000"
	body["insurance_fee"] = "350.50"
	body["notes"] = "renewed with deposit"
	rec, env := api.do(t, http.MethodPut, path, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[appleasing.ContractResponse](t, env)
	assert.Equal(t, "72000", updated.RentAmount.String())
	assert.Equal(t, "6000", updated.MonthlyEquivalent.String())
	require.NotNil(t, updated.SecurityDeposit)
	assert.Equal(t, "6000", updated.SecurityDeposit.String())
	require.NotNil(t, updated.InsuranceFee)
	assert.Equal(t, "350.5", updated.InsuranceFee.String())
	assert.Nil(t, updated.ManagementFee)

	rec, env = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "renewed with deposit", decodeData[appleasing.ContractResponse](t, env).Notes)

	t.Run("end date must follow start date", func(t *testing.T) {
		body := contractBody(result.Contract, "active")
		body["end_date"] = result.Contract.StartDate.AddDate(0, 0, -1).Format(time.RFC3339)
		rec, env := api.do(t, http.MethodPut, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		rec, _ := api.do(t, http.MethodPut, path, contractBody(result.Contract, "paused"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContractHandler_UpdateRespectsOneActiveContract(t *testing.T) {
	api := newTestAPI(t)
	first := onboard(t, api, "Khalid Al-Harbi", "A-101", "1012345678")
	path := "/api/v1/contracts/" + first.Contract.ID.String()
	unitPath := "/api/v1/units/" + first.Unit.ID.String()

	rec, env := api.do(t, http.MethodPut, path, contractBody(first.Contract, "draft"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "draft", decodeData[appleasing.ContractResponse](t, env).Status)
	rec, env = api.do(t, http.MethodGet, unitPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vacant", decodeData[appproperty.UnitResponse](t, env).Status)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/onboarding", onboardBody(first.Unit.ID, "1087654321"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = api.do(t, http.MethodPut, path, contractBody(first.Contract, "active"))
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeUnitOccupied, env.Error.Code)

	rec, env = api.do(t, http.MethodGet, "/api/v1/contracts?status=active&unit_id="+first.Unit.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestPayableHandler_Update(t *testing.T) {
	api := newTestAPI(t)
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	rec, env := api.do(t, http.MethodPost, "/api/v1/payables", map[string]any{
		"type":     "outgoing",
		"category": "maintenance_fee",
		"amount":   "750",
		"due_date": due.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	path := "/api/v1/payables/" + decodeData[appleasing.PayableResponse](t, env).ID.String()

	rec, env = api.do(t, http.MethodPut, path, map[string]any{
		"category":       "management_fee",
		"payment_method": "check",
		"amount":         "820.25",
		"due_date":       due.AddDate(0, 1, 0).Format(time.RFC3339),
		"notes":          "fee agreed with owner",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[appleasing.PayableResponse](t, env)
	assert.Equal(t, "management_fee", updated.Category)
	assert.Equal(t, "Management Fee", updated.CategoryLabel)
	assert.Equal(t, "820.25", updated.Amount.String())
	assert.Equal(t, "pending", updated.Status)

	rec, env = api.do(t, http.MethodPut, path, map[string]any{
		"category": "management_fee",
		"amount":   "0",
		"due_date": due.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	rec, _ = api.do(t, http.MethodPost, path+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env = api.do(t, http.MethodPut, path, map[string]any{
		"category": "other",
		"amount":   "10",
		"due_date": due.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)
}

func TestContractHandler_ListFilterValidation(t *testing.T) {
	api := newTestAPI(t)

	rec, _ := api.do(t, http.MethodGet, "/api/v1/contracts?status=signed", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/contracts?tenant_id=42", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayableHandler_Lifecycle(t *testing.T) {
	api := newTestAPI(t)
	result := onboard(t, api, "Khalid Al-Harbi", "A-101", "1012345678")

	rec, env := api.do(t, http.MethodPost, "/api/v1/payables", map[string]any{
		"contract_id": result.Contract.ID,
		"type":        "incoming",
		"category":    "deposit_fee",
		"amount":      "5000",
		"due_date":    time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	deposit := decodeData[appleasing.PayableResponse](t, env)
	assert.Equal(t, "pending", deposit.Status)
	assert.Equal(t, "5000", deposit.Amount.String())

	rec, env = api.do(t, http.MethodPost, "/api/v1/payables", map[string]any{
		"type":     "outgoing",
		"category": "maintenance_fee",
		"amount":   "750.50",
		"due_date": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	repair := decodeData[appleasing.PayableResponse](t, env)

	rec, env = api.do(t, http.MethodGet, "/api/v1/payables?type=incoming&contract_id="+result.Contract.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1), env.Meta.Total)

	rec, env = api.do(t, http.MethodPost, "/api/v1/payables/"+deposit.ID.String()+"/pay", map[string]any{
		"payment_method":  "bank_transfer",
		"transaction_ref": "TRX-1001",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decodeData[appleasing.PayableResponse](t, env)
	assert.Equal(t, "paid", paid.Status)
	assert.NotNil(t, paid.PaymentDate)

	rec, env = api.do(t, http.MethodPost, "/api/v1/payables/"+deposit.ID.String()+"/cancel", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeInvalidState, env.Error.Code)

	rec, env = api.do(t, http.MethodPost, "/api/v1/payables/"+repair.ID.String()+"/cancel", map[string]any{"reason": "done by owner"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decodeData[appleasing.PayableResponse](t, env).Status)

	rec, env = api.do(t, http.MethodGet, "/api/v1/payables?status=cancelled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestPayableHandler_Rejections(t *testing.T) {
	api := newTestAPI(t)
	due := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	rec, env := api.do(t, http.MethodPost, "/api/v1/payables", map[string]any{
		"type":     "sideways",
		"category": "rent",
		"amount":   "100",
		"due_date": due,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrCodeValidation, env.Error.Code)

	rec, _ = api.do(t, http.MethodPost, "/api/v1/payables/"+api.officeID.String()+"/pay", map[string]any{
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = api.do(t, http.MethodGet, "/api/v1/payables?category=bribe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_Stats(t *testing.T) {
	api := newTestAPI(t)
	onboard(t, api, "Khalid Al-Harbi", "A-101", "1012345678")
	api.seedUnit(t, "Noura Al-Saud", "B-202")

	rec, env := api.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decodeData[dashboard.Stats](t, env)
	assert.Equal(t, int64(2), stats.Owners)
	assert.Equal(t, int64(2), stats.Buildings)
	assert.Equal(t, int64(2), stats.Units)
	assert.Equal(t, int64(1), stats.VacantUnits)
	assert.Equal(t, int64(1), stats.Tenants)
	assert.Equal(t, int64(1), stats.ActiveContracts)
	assert.Equal(t, int64(50), stats.VacancyRate)
}
