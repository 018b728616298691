package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/indexer"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// DealReader is the read surface of the projection store.
type DealReader interface {
	GetDeal(ctx context.Context, dealID uint64) (*store.Deal, error)
	ListDeals(ctx context.Context, filter store.DealFilter) ([]*store.Deal, error)
	ListDeposits(ctx context.Context, dealID uint64) ([]*store.Deposit, error)
	ListRewards(ctx context.Context, dealID uint64) ([]*store.Reward, error)
	GetRewardClaim(ctx context.Context, dealID uint64) (*store.RewardClaim, error)
	ListEvents(ctx context.Context, filter store.EventFilter) ([]*store.EventLogEntry, error)
	GetCursors(ctx context.Context) (map[string]uint64, error)
	Stats(ctx context.Context) (*store.Stats, error)
}

// StatusFunc reports the state of the running coordinator.
type StatusFunc func() indexer.Status

// Handler handles HTTP requests for the API.
type Handler struct {
	reader DealReader
	status StatusFunc
	log    *logger.Logger
}

// NewHandler creates a new API handler. status may be nil.
func NewHandler(reader DealReader, status StatusFunc, log *logger.Logger) *Handler {
	return &Handler{
		reader: reader,
		status: status,
		log:    log,
	}
}

// ListDeals returns a page of deals.
// @Summary List deals
// @Description List indexed deals ordered by id, optionally filtered by status
// @Tags Deals
// @Produce json
// @Param status query string false "Deal status" Enums(active, locked, settling, finalized, cancelled)
// @Param limit query int false "Maximum number of deals to return" default(100)
// @Param offset query int false "Number of deals to skip" default(0)
// @Success 200 {object} DealsResponse "Page of deals"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /deals [get]
func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}

	filter := store.DealFilter{Limit: limit + 1, Offset: offset}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = store.DealStatus(status)
		if !filter.Status.IsValid() {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", status))
			return
		}
	}

	deals, err := h.reader.ListDeals(r.Context(), filter)
	if err != nil {
		h.log.Errorf("Failed to list deals: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list deals")
		return
	}

	hasMore := len(deals) > limit
	if hasMore {
		deals = deals[:limit]
	}

	response := DealsResponse{
		Deals:      make([]DealResponse, 0, len(deals)),
		Pagination: PaginationResult{Limit: limit, Offset: offset, HasMore: hasMore},
	}
	for _, d := range deals {
		response.Deals = append(response.Deals, toDealResponse(d))
	}

	respondJSON(w, http.StatusOK, response)
}

// GetDeal returns a single deal.
// @Summary Get a deal
// @Description Retrieve the projection of one deal
// @Tags Deals
// @Produce json
// @Param id path integer true "Deal id"
// @Success 200 {object} DealResponse "Deal"
// @Failure 400 {object} ErrorResponse "Invalid deal id"
// @Failure 404 {object} ErrorResponse "Deal not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /deals/{id} [get]
func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	deal, ok := h.loadDeal(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, toDealResponse(deal))
}

// ListDeposits returns every deposit of a deal.
// @Summary List deposits of a deal
// @Description Retrieve the deposit positions of one deal in chain order
// @Tags Deals
// @Produce json
// @Param id path integer true "Deal id"
// @Success 200 {object} DepositsResponse "Deposits"
// @Failure 400 {object} ErrorResponse "Invalid deal id"
// @Failure 404 {object} ErrorResponse "Deal not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /deals/{id}/deposits [get]
func (h *Handler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	deal, ok := h.loadDeal(w, r)
	if !ok {
		return
	}

	deposits, err := h.reader.ListDeposits(r.Context(), deal.DealID)
	if err != nil {
		h.log.Errorf("Failed to list deposits of deal %d: %v", deal.DealID, err)
		respondError(w, http.StatusInternalServerError, "failed to list deposits")
		return
	}

	response := DepositsResponse{
		DealID:   deal.DealID,
		Deposits: make([]DepositResponse, 0, len(deposits)),
	}
	for _, d := range deposits {
		response.Deposits = append(response.Deposits, toDepositResponse(d))
	}

	respondJSON(w, http.StatusOK, response)
}

// ListRewards returns the reward entitlements of a deal.
// @Summary List rewards of a deal
// @Description Retrieve per-user rewards and the last reward split of one deal
// @Tags Deals
// @Produce json
// @Param id path integer true "Deal id"
// @Success 200 {object} RewardsResponse "Rewards"
// @Failure 400 {object} ErrorResponse "Invalid deal id"
// @Failure 404 {object} ErrorResponse "Deal not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /deals/{id}/rewards [get]
func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	deal, ok := h.loadDeal(w, r)
	if !ok {
		return
	}

	rewards, err := h.reader.ListRewards(r.Context(), deal.DealID)
	if err != nil {
		h.log.Errorf("Failed to list rewards of deal %d: %v", deal.DealID, err)
		respondError(w, http.StatusInternalServerError, "failed to list rewards")
		return
	}

	claim, err := h.reader.GetRewardClaim(r.Context(), deal.DealID)
	if err != nil {
		h.log.Errorf("Failed to get reward claim of deal %d: %v", deal.DealID, err)
		respondError(w, http.StatusInternalServerError, "failed to get reward claim")
		return
	}

	response := RewardsResponse{
		DealID:  deal.DealID,
		Rewards: make([]RewardResponse, 0, len(rewards)),
		Claim:   toClaimResponse(claim),
	}
	for _, rw := range rewards {
		response.Rewards = append(response.Rewards, toRewardResponse(rw))
	}

	respondJSON(w, http.StatusOK, response)
}

// ListEvents returns a page of processed events.
// @Summary List processed events
// @Description Retrieve processed contract events with optional filtering and pagination
// @Tags Events
// @Produce json
// @Param event query string false "Event name to filter by"
// @Param deal_id query integer false "Filter by deal id"
// @Param from_block query integer false "Filter events from this block number"
// @Param to_block query integer false "Filter events up to this block number"
// @Param limit query int false "Maximum number of events to return" default(100)
// @Param offset query int false "Number of events to skip" default(0)
// @Success 200 {object} EventsResponse "Page of events"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameters: %v", err))
		return
	}
	limit := filter.Limit
	filter.Limit++

	events, err := h.reader.ListEvents(r.Context(), *filter)
	if err != nil {
		h.log.Errorf("Failed to list events: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}

	response := EventsResponse{
		Events:     make([]EventResponse, 0, len(events)),
		Pagination: PaginationResult{Limit: limit, Offset: filter.Offset, HasMore: hasMore},
	}
	for _, e := range events {
		response.Events = append(response.Events, toEventResponse(e))
	}

	respondJSON(w, http.StatusOK, response)
}

// Health returns the health status of the API and the indexer.
// @Summary Health check
// @Description Check the store, the subscription cursors and the coordinator state
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Healthy"
// @Failure 503 {object} HealthResponse "Store unavailable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Cursors:   map[string]uint64{},
	}

	if h.status != nil {
		status := h.status()
		response.Indexer = &status
	}

	status := http.StatusOK

	cursors, err := h.reader.GetCursors(r.Context())
	if err == nil {
		response.Cursors = cursors
		response.Stats, err = h.reader.Stats(r.Context())
	}
	if err != nil {
		h.log.Warnf("Health check failed: %v", err)
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, response)
}

// loadDeal resolves the {id} path value and writes the error response when the
// deal cannot be served.
func (h *Handler) loadDeal(w http.ResponseWriter, r *http.Request) (*store.Deal, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid deal id")
		return nil, false
	}

	deal, err := h.reader.GetDeal(r.Context(), id)
	if errors.Is(err, store.ErrDealNotFound) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("deal %d not found", id))
		return nil, false
	}
	if err != nil {
		h.log.Errorf("Failed to get deal %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get deal")
		return nil, false
	}

	return deal, true
}

// parsePagination parses limit and offset query parameters.
func parsePagination(r *http.Request) (limit, offset int, err error) {
	limit = defaultLimit

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, fmt.Errorf("invalid limit: must be between 1 and %d", maxLimit)
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset: must be non-negative")
		}
	}

	return limit, offset, nil
}

// parseEventFilter parses HTTP query parameters into an EventFilter.
func parseEventFilter(r *http.Request) (*store.EventFilter, error) {
	limit, offset, err := parsePagination(r)
	if err != nil {
		return nil, err
	}

	filter := &store.EventFilter{
		EventName: r.URL.Query().Get("event"),
		Limit:     limit,
		Offset:    offset,
	}

	if dealStr := r.URL.Query().Get("deal_id"); dealStr != "" {
		dealID, err := strconv.ParseUint(dealStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid deal_id")
		}
		filter.DealID = &dealID
	}

	if fromBlockStr := r.URL.Query().Get("from_block"); fromBlockStr != "" {
		filter.FromBlock, err = strconv.ParseUint(fromBlockStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid from_block")
		}
	}

	if toBlockStr := r.URL.Query().Get("to_block"); toBlockStr != "" {
		filter.ToBlock, err = strconv.ParseUint(toBlockStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid to_block")
		}
	}

	if filter.ToBlock != 0 && filter.FromBlock > filter.ToBlock {
		return nil, fmt.Errorf("from_block cannot be greater than to_block")
	}

	return filter, nil
}

func bigString(n *big.Int) string {
	if n == nil {
		return "0"
	}

	return n.String()
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode first so a failure can still change the status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	// Headers are already sent, nothing left to report
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	respondJSON(w, status, response)
}
