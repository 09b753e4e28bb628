package controllers

import (
	"errors"
	"moneyprint/internal/models"
	"moneyprint/internal/providers"
	"moneyprint/internal/services"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.ConsoleServiceInterface
}

func NewApiController(logger providers.Logger, service services.ConsoleServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
	}
}

type scheduleRequest struct {
	Platform   string   `json:"platform"`
	AccountID  string   `json:"account_id"`
	Recurrence string   `json:"recurrence"`
	Times      []string `json:"times,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidRecurrence),
		errors.Is(err, models.ErrUnknownPlatform):
		return http.StatusBadRequest
	case models.IsPublishFailed(err):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (ac *ApiController) writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeApp, "Request failed: %s", err)
	}
	ac.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (ac *ApiController) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		ac.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad Request"})
		return false
	}
	return true
}

func getPlatform(r *http.Request) (models.Platform, error) {
	return models.ParsePlatform(r.URL.Query().Get("platform"))
}

func (ac *ApiController) ListAccounts(w http.ResponseWriter, r *http.Request) {
	platform, err := getPlatform(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	accounts, err := ac.service.ListAccounts(platform)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, accounts)
}

func (ac *ApiController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	platform, err := getPlatform(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	var fields models.AccountFields
	if !ac.decode(w, r, &fields) {
		return
	}
	account, err := ac.service.CreateAccount(platform, fields)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, account)
}

func (ac *ApiController) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	platform, err := getPlatform(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	if err := ac.service.RemoveAccount(platform, r.URL.Query().Get("id")); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) PublishNow(w http.ResponseWriter, r *http.Request) {
	platform, err := getPlatform(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	activity, err := ac.service.RunPublishNow(r.Context(), platform, r.URL.Query().Get("id"))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, activity)
}

func (ac *ApiController) History(w http.ResponseWriter, r *http.Request) {
	platform, err := getPlatform(r)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			ac.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a number"})
			return
		}
	}
	history, err := ac.service.GetHistory(platform, r.URL.Query().Get("id"), limit)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, history)
}

func (ac *ApiController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := ac.service.ListProducts()
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusOK, products)
}

func (ac *ApiController) AddProduct(w http.ResponseWriter, r *http.Request) {
	var fields models.ProductFields
	if !ac.decode(w, r, &fields) {
		return
	}
	product, err := ac.service.AddProduct(fields)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, product)
}

func (ac *ApiController) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.RemoveProduct(r.URL.Query().Get("id")); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) PitchProduct(w http.ResponseWriter, r *http.Request) {
	activity, err := ac.service.PitchProduct(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, activity)
}

func (ac *ApiController) ListSchedules(w http.ResponseWriter, r *http.Request) {
	ac.writeJSON(w, http.StatusOK, ac.service.ListSchedules())
}

func (ac *ApiController) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !ac.decode(w, r, &req) {
		return
	}
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	status, err := ac.service.ScheduleRecurring(platform, req.AccountID, req.Recurrence, req.Times)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	ac.writeJSON(w, http.StatusCreated, status)
}

func (ac *ApiController) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	if err := ac.service.CancelSchedule(r.URL.Query().Get("id")); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
