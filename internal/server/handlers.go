package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/huangsam/farmstat/core"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/huangsam/farmstat/schema"
)

// maxRecordsPerRequest bounds a single import.
const maxRecordsPerRequest = 5000

// handler holds common dependencies for HTTP handlers.
type handler struct {
	baseCfg *contract.Config
	store   contract.RecordStore
	clock   contract.Clock
	metrics *metrics
}

// recordInput is the wire form of a record; dates are calendar days or relative phrases.
type recordInput struct {
	Kind          string   `json:"kind"`
	Date          string   `json:"date"`
	Category      string   `json:"category"`
	Amount        *float64 `json:"amount"`
	Area          *float64 `json:"area"`
	ExpectedYield *float64 `json:"expected_yield"`
	MarketPrice   *float64 `json:"market_price"`
	Note          string   `json:"note"`
}

type importRequest struct {
	Records []recordInput `json:"records"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (h *handler) listPresets(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, core.PresetRanges(h.clock()))
}

func (h *handler) getReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cfg := h.baseCfg.Clone()
	req := contract.ReportRequest{
		Preset:        q.Get("preset"),
		Start:         q.Get("start"),
		End:           q.Get("end"),
		PreviousStart: q.Get("previous_start"),
		PreviousEnd:   q.Get("previous_end"),
		CompareTo:     q.Get("compare_to"),
		Metrics:       q.Get("metrics"),
	}
	if err := contract.RevalidateReport(cfg, req, h.clock()); err != nil {
		if !errors.Is(err, core.ErrInvalidRange) {
			err = fmt.Errorf("%w: %w", errBadRequest, err)
		}
		writeError(w, r, err)
		return
	}

	start := time.Now()
	report, err := core.GenerateReport(r.Context(), cfg, h.store, core.WithClock(h.clock))
	if err != nil {
		_, code := classifyError(err)
		h.metrics.observeReport(code, time.Since(start))
		writeError(w, r, err)
		return
	}
	h.metrics.observeReport("ok", time.Since(start))
	render.JSON(w, r, report)
}

func (h *handler) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := h.baseCfg.RunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest))
			return
		}
		limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []schema.ReportRunRecord{}
	}
	render.JSON(w, r, runs)
}

func (h *handler) getStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.store.GetStatus(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

func (h *handler) postRecords(w http.ResponseWriter, r *http.Request) {
	var body importRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON body: %w", errBadRequest, err))
		return
	}
	if len(body.Records) == 0 {
		writeError(w, r, fmt.Errorf("%w: records must not be empty", errBadRequest))
		return
	}
	if len(body.Records) > maxRecordsPerRequest {
		writeError(w, r, fmt.Errorf("%w: at most %d records per request", errBadRequest, maxRecordsPerRequest))
		return
	}

	now := h.clock()
	records := make(schema.RecordSet, 0, len(body.Records))
	for i, in := range body.Records {
		record := schema.Record{
			Kind:          schema.RecordKind(in.Kind),
			Category:      in.Category,
			Amount:        in.Amount,
			Area:          in.Area,
			ExpectedYield: in.ExpectedYield,
			MarketPrice:   in.MarketPrice,
			Note:          in.Note,
		}
		if in.Date != "" {
			date, err := contract.ParseDay(in.Date, now)
			if err != nil {
				writeError(w, r, fmt.Errorf("%w: record %d: %w", errBadRequest, i+1, err))
				return
			}
			record.Date = date
		}
		records = append(records, record)
	}
	if err := contract.ValidateRecords(records); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.store.ImportRecords(r.Context(), records)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, importResponse{Imported: n})
}
