package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/config"
	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/festival"
	"github.com/zapponejosh/amlich-api/internal/logger"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// Years accepted by the date endpoints.
const (
	MinYear = 1
	MaxYear = 9999
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        *database.DB
	calendar  *calendar.Service
	converter *lunar.Converter
	resolver  *festival.Resolver
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, cal *calendar.Service, converter *lunar.Converter, cfg *config.Config, log *slog.Logger) *Handlers {
	if converter == nil {
		converter = lunar.Default()
	}
	return &Handlers{
		db:        db,
		calendar:  cal,
		converter: converter,
		resolver:  festival.NewResolver(converter),
		cfg:       cfg,
		logger:    log,
		now:       time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// ConversionResponse is the result of a single solar to lunar conversion.
type ConversionResponse struct {
	Solar   string          `json:"solar"`
	Lunar   lunar.LunarDate `json:"lunar"`
	Label   string          `json:"label"`
	LabelVN string          `json:"label_vn"`
}

// ConvertToLunar handles GET /api/v1/lunar?year=&month=&day=
func (h *Handlers) ConvertToLunar(w http.ResponseWriter, r *http.Request) {
	year, month, day, ok := h.dateFromQuery(w, r)
	if !ok {
		return
	}

	ld := h.converter.SolarToLunar(year, month, day)
	WriteSuccess(w, ConversionResponse{
		Solar:   calendar.FormatDate(calendar.Date(year, month, day)),
		Lunar:   ld,
		Label:   lunar.FormatLunarDate(ld),
		LabelVN: lunar.FormatLunarDateVN(ld),
	})
}

// DayResponse is a day detail plus the stored observances falling on it.
type DayResponse struct {
	calendar.DayDetail
	Observances []database.Observance `json:"observances"`
}

// GetToday handles GET /api/v1/days/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	today := h.calendar.Today()
	h.writeDay(w, r, today.Year(), int(today.Month()), today.Day())
}

// GetDay handles GET /api/v1/days/{date}
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	d, err := calendar.ParseDate(dateStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date: %s. Use YYYY-MM-DD", dateStr))
		return
	}
	if d.Year() < MinYear || d.Year() > MaxYear {
		WriteBadRequest(w, fmt.Sprintf("Year must be between %d and %d", MinYear, MaxYear))
		return
	}

	h.writeDay(w, r, d.Year(), int(d.Month()), d.Day())
}

func (h *Handlers) writeDay(w http.ResponseWriter, r *http.Request, year, month, day int) {
	ctx := r.Context()
	detail := h.calendar.Day(year, month, day)

	solar, err := h.db.GetObservancesOn(ctx, festival.TypeSolar, month, day)
	if err != nil {
		logger.Error(ctx, "failed to load solar observances", err)
		WriteInternalError(w, "Failed to retrieve observances")
		return
	}
	// Lunar observances belong to the regular month, never its leap repeat.
	lunarObs := []database.Observance{}
	if !detail.Lunar.IsLeapMonth {
		lunarObs, err = h.db.GetObservancesOn(ctx, festival.TypeLunar, detail.Lunar.Month, detail.Lunar.Day)
		if err != nil {
			logger.Error(ctx, "failed to load lunar observances", err)
			WriteInternalError(w, "Failed to retrieve observances")
			return
		}
	}

	WriteSuccess(w, DayResponse{
		DayDetail:   detail,
		Observances: append(solar, lunarObs...),
	})
}

// GetMonth handles GET /api/v1/months/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, "Month must be a number between 1 and 12")
		return
	}

	WriteSuccess(w, h.calendar.Month(year, month))
}

// GetYear handles GET /api/v1/years/{year}
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, h.calendar.Year(year))
}

// ExportYearICS handles GET /api/v1/years/{year}/festivals.ics
func (h *Handlers) ExportYearICS(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := calendar.WriteICS(&buf, year, h.calendar.FestivalsInYear(year), h.now()); err != nil {
		logger.Error(r.Context(), "failed to build ics", err, slog.Int("year", year))
		WriteInternalError(w, "Failed to export calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="festivals-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn(r.Context(), "failed to write ics response",
			slog.Int("year", year),
			slog.Any("error", err),
		)
	}
}

// FestivalsResponse lists the festivals of one solar date.
type FestivalsResponse struct {
	Date      string              `json:"date"`
	Lunar     lunar.LunarDate     `json:"lunar"`
	HasAny    bool                `json:"has_any"`
	Festivals []festival.Festival `json:"festivals"`
}

// GetFestivals handles GET /api/v1/festivals?year=&month=&day=
func (h *Handlers) GetFestivals(w http.ResponseWriter, r *http.Request) {
	year, month, day, ok := h.dateFromQuery(w, r)
	if !ok {
		return
	}

	fests := h.resolver.GetAllFestivals(year, month, day)
	WriteSuccess(w, FestivalsResponse{
		Date:      calendar.FormatDate(calendar.Date(year, month, day)),
		Lunar:     h.converter.SolarToLunar(year, month, day),
		HasAny:    len(fests) > 0,
		Festivals: fests,
	})
}

// GetSolarFestivals handles GET /api/v1/festivals/solar/{month}/{day}
func (h *Handlers) GetSolarFestivals(w http.ResponseWriter, r *http.Request) {
	month, day, ok := monthDayParams(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, festival.GetSolarFestivals(month, day))
}

// GetLunarFestivals handles GET /api/v1/festivals/lunar/{month}/{day}
func (h *Handlers) GetLunarFestivals(w http.ResponseWriter, r *http.Request) {
	month, day, ok := monthDayParams(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, festival.GetLunarFestivals(month, day))
}

// GetFestivalCatalog handles GET /api/v1/festivals/catalog
func (h *Handlers) GetFestivalCatalog(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string][]festival.Dated{
		string(festival.TypeSolar): festival.Catalog(festival.TypeSolar),
		string(festival.TypeLunar): festival.Catalog(festival.TypeLunar),
	})
}

// ListObservances handles GET /api/v1/observances
func (h *Handlers) ListObservances(w http.ResponseWriter, r *http.Request) {
	obs, err := h.db.ListObservances(r.Context())
	if err != nil {
		logger.Error(r.Context(), "failed to list observances", err)
		WriteInternalError(w, "Failed to retrieve observances")
		return
	}
	WriteSuccess(w, obs)
}

// CreateObservanceRequest is the body of POST /api/v1/observances.
type CreateObservanceRequest struct {
	Name         string        `json:"name"`
	CalendarType festival.Type `json:"calendar_type"`
	Month        int           `json:"month"`
	Day          int           `json:"day"`
	Notes        *string       `json:"notes,omitempty"`
}

// CreateObservance handles POST /api/v1/observances
func (h *Handlers) CreateObservance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateObservanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	o := database.Observance{
		Name:         req.Name,
		CalendarType: req.CalendarType,
		Month:        req.Month,
		Day:          req.Day,
		Notes:        req.Notes,
	}
	if err := h.db.CreateObservance(ctx, &o); err != nil {
		switch {
		case errors.Is(err, database.ErrInvalid):
			WriteBadRequest(w, err.Error())
		case errors.Is(err, database.ErrDuplicate):
			WriteConflict(w, "Observance already exists on that date")
		default:
			logger.Error(ctx, "failed to create observance", err)
			WriteInternalError(w, "Failed to create observance")
		}
		return
	}

	logger.Info(ctx, "observance created",
		slog.Int64("id", o.ID),
		slog.String("calendar_type", string(o.CalendarType)),
	)
	WriteCreated(w, o)
}

// DeleteObservance handles DELETE /api/v1/observances/{id}
func (h *Handlers) DeleteObservance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid observance ID")
		return
	}

	if err := h.db.DeleteObservance(ctx, id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Observance not found")
			return
		}
		logger.Error(ctx, "failed to delete observance", err, slog.Int64("id", id))
		WriteInternalError(w, "Failed to delete observance")
		return
	}

	WriteSuccess(w, map[string]int64{"deleted": id})
}

// =============================================================================
// Parameter helpers
// =============================================================================

// dateFromQuery reads year, month and day query parameters and rejects
// impossible calendar dates.
func (h *Handlers) dateFromQuery(w http.ResponseWriter, r *http.Request) (year, month, day int, ok bool) {
	q := r.URL.Query()

	var err error
	if year, err = strconv.Atoi(q.Get("year")); err != nil {
		WriteBadRequest(w, "year query parameter must be a number")
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(q.Get("month")); err != nil {
		WriteBadRequest(w, "month query parameter must be a number")
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(q.Get("day")); err != nil {
		WriteBadRequest(w, "day query parameter must be a number")
		return 0, 0, 0, false
	}

	if year < MinYear || year > MaxYear {
		WriteBadRequest(w, fmt.Sprintf("Year must be between %d and %d", MinYear, MaxYear))
		return 0, 0, 0, false
	}
	if !calendar.ValidDate(year, month, day) {
		WriteBadRequest(w, fmt.Sprintf("%04d-%02d-%02d is not a calendar date", year, month, day))
		return 0, 0, 0, false
	}
	return year, month, day, true
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < MinYear || year > MaxYear {
		WriteBadRequest(w, fmt.Sprintf("Year must be a number between %d and %d", MinYear, MaxYear))
		return 0, false
	}
	return year, true
}

// monthDayParams only checks that both are numbers; unknown keys simply
// have no festivals.
func monthDayParams(w http.ResponseWriter, r *http.Request) (month, day int, ok bool) {
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		WriteBadRequest(w, "Month must be a number")
		return 0, 0, false
	}
	day, err = strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		WriteBadRequest(w, "Day must be a number")
		return 0, 0, false
	}
	return month, day, true
}
