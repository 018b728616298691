package api

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	apimocks "github.com/goran-ethernal/DealIndexor/internal/api/mocks"
	"github.com/goran-ethernal/DealIndexor/internal/indexer"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	token = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func testDeal(id uint64, status store.DealStatus) *store.Deal {
	huge, _ := new(big.Int).SetString("340282366920938463463374607431768211456", 10)

	return &store.Deal{
		DealID:         id,
		DepositToken:   token,
		MinDeposit:     big.NewInt(10),
		MaxDeposit:     huge,
		TotalDeposited: big.NewInt(400),
		StartTime:      1_700_000_000,
		Duration:       86400,
		Status:         status,
		ExpectedYield:  big.NewInt(5),
		CreatedBlock:   100,
		CreatedTxHash:  common.HexToHash("0x01"),
	}
}

// serve routes req through a full server so path values are populated.
func serve(t *testing.T, reader DealReader, status StatusFunc, target string) *httptest.ResponseRecorder {
	t.Helper()

	server := NewServer(testAPIConfig(true), reader, status, logger.NewNopLogger())
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		data         any
		expectedBody string
	}{
		{name: "object", status: http.StatusOK, data: map[string]string{"message": "success"}, expectedBody: `{"message":"success"}`},
		{name: "array", status: http.StatusOK, data: []string{"a", "b"}, expectedBody: `["a","b"]`},
		{name: "nil", status: http.StatusOK, data: nil, expectedBody: "null"},
		{name: "error status", status: http.StatusBadRequest, data: map[string]string{"error": "bad"}, expectedBody: `{"error":"bad"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			respondJSON(w, tt.status, tt.data)

			require.Equal(t, tt.status, w.Code)
			require.Equal(t, "application/json", w.Header().Get("Content-Type"))
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestRespondJSON_EncodingError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, make(chan int))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Failed to encode response")
}

func TestRespondError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondError(w, http.StatusNotFound, "deal 7 not found")

	resp := decode[ErrorResponse](t, w)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, ErrorResponse{Error: "Not Found", Message: "deal 7 not found", Code: http.StatusNotFound}, resp)
}

func TestHandler_ListDeals(t *testing.T) {
	t.Parallel()

	t.Run("default page", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().ListDeals(mock.Anything, store.DealFilter{Limit: defaultLimit + 1}).
			Return([]*store.Deal{testDeal(1, store.StatusActive), testDeal(2, store.StatusLocked)}, nil)

		w := serve(t, reader, nil, "/api/v1/deals")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[DealsResponse](t, w)
		require.Len(t, resp.Deals, 2)
		require.Equal(t, PaginationResult{Limit: defaultLimit}, resp.Pagination)
		require.Equal(t, "400", resp.Deals[0].TotalDeposited)
		require.Equal(t, "340282366920938463463374607431768211456", resp.Deals[0].MaxDeposit)
		require.Equal(t, token.Hex(), resp.Deals[0].DepositToken)
		require.Equal(t, "locked", resp.Deals[1].Status)
	})

	t.Run("status filter and has more", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().ListDeals(mock.Anything, store.DealFilter{Status: store.StatusActive, Limit: 3, Offset: 4}).
			Return([]*store.Deal{
				testDeal(5, store.StatusActive), testDeal(6, store.StatusActive), testDeal(7, store.StatusActive),
			}, nil)

		w := serve(t, reader, nil, "/api/v1/deals?status=active&limit=2&offset=4")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[DealsResponse](t, w)
		require.Len(t, resp.Deals, 2)
		require.Equal(t, PaginationResult{Limit: 2, Offset: 4, HasMore: true}, resp.Pagination)
	})

	t.Run("empty list renders as array", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().ListDeals(mock.Anything, mock.Anything).Return(nil, nil)

		w := serve(t, reader, nil, "/api/v1/deals")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"deals":[]`)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().ListDeals(mock.Anything, mock.Anything).Return(nil, errors.New("disk I/O error"))

		w := serve(t, reader, nil, "/api/v1/deals")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "failed to list deals", decode[ErrorResponse](t, w).Message)
	})

	invalid := []struct {
		name  string
		query string
	}{
		{name: "unknown status", query: "?status=pending"},
		{name: "zero limit", query: "?limit=0"},
		{name: "limit too large", query: "?limit=501"},
		{name: "negative offset", query: "?offset=-1"},
		{name: "non numeric limit", query: "?limit=ten"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(t, apimocks.NewDealReader(t), nil, "/api/v1/deals"+tt.query)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_GetDeal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		setup      func(reader *apimocks.DealReader)
		wantStatus int
	}{
		{
			name: "found",
			path: "/api/v1/deals/7",
			setup: func(reader *apimocks.DealReader) {
				deal := testDeal(7, store.StatusLocked)
				channel := "ch-1"
				deal.ChannelID = &channel
				reader.EXPECT().GetDeal(mock.Anything, uint64(7)).Return(deal, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			path: "/api/v1/deals/8",
			setup: func(reader *apimocks.DealReader) {
				reader.EXPECT().GetDeal(mock.Anything, uint64(8)).Return(nil, store.ErrDealNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			path:       "/api/v1/deals/abc",
			setup:      func(reader *apimocks.DealReader) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative id",
			path:       "/api/v1/deals/-1",
			setup:      func(reader *apimocks.DealReader) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "store failure",
			path: "/api/v1/deals/9",
			setup: func(reader *apimocks.DealReader) {
				reader.EXPECT().GetDeal(mock.Anything, uint64(9)).Return(nil, errors.New("locked"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader := apimocks.NewDealReader(t)
			tt.setup(reader)

			w := serve(t, reader, nil, tt.path)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				resp := decode[DealResponse](t, w)
				require.Equal(t, uint64(7), resp.DealID)
				require.NotNil(t, resp.ChannelID)
				require.Equal(t, "ch-1", *resp.ChannelID)
			}
		})
	}
}

func TestHandler_ListDeposits(t *testing.T) {
	t.Parallel()

	reader := apimocks.NewDealReader(t)
	reader.EXPECT().GetDeal(mock.Anything, uint64(1)).Return(testDeal(1, store.StatusActive), nil)
	reader.EXPECT().ListDeposits(mock.Anything, uint64(1)).Return([]*store.Deposit{
		{PositionID: 1, DealID: 1, Depositor: alice, Amount: big.NewInt(100), TxHash: common.HexToHash("0xa1"), BlockNumber: 101},
		{PositionID: 2, DealID: 1, Depositor: bob, Amount: big.NewInt(300), TxHash: common.HexToHash("0xa2"), BlockNumber: 102, LogIndex: 3},
	}, nil)

	w := serve(t, reader, nil, "/api/v1/deals/1/deposits")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[DepositsResponse](t, w)
	require.Equal(t, uint64(1), resp.DealID)
	require.Len(t, resp.Deposits, 2)
	require.Equal(t, "100", resp.Deposits[0].Amount)
	require.Equal(t, bob.Hex(), resp.Deposits[1].Depositor)
	require.Equal(t, uint(3), resp.Deposits[1].LogIndex)
}

func TestHandler_ListDeposits_UnknownDeal(t *testing.T) {
	t.Parallel()

	reader := apimocks.NewDealReader(t)
	reader.EXPECT().GetDeal(mock.Anything, uint64(3)).Return(nil, store.ErrDealNotFound)

	w := serve(t, reader, nil, "/api/v1/deals/3/deposits")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListRewards(t *testing.T) {
	t.Parallel()

	t.Run("with claim", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().GetDeal(mock.Anything, uint64(1)).Return(testDeal(1, store.StatusFinalized), nil)
		reader.EXPECT().ListRewards(mock.Anything, uint64(1)).Return([]*store.Reward{
			{DealID: 1, UserAddress: alice, Amount: big.NewInt(10), UpdatedBlock: 200},
			{DealID: 1, UserAddress: bob, Amount: big.NewInt(30), UpdatedBlock: 200},
		}, nil)
		reader.EXPECT().GetRewardClaim(mock.Anything, uint64(1)).Return(&store.RewardClaim{
			DealID:         1,
			TotalRewards:   big.NewInt(41),
			Distributed:    big.NewInt(40),
			Residual:       big.NewInt(1),
			TotalDeposited: big.NewInt(400),
			Depositors:     2,
			BlockNumber:    200,
		}, nil)

		w := serve(t, reader, nil, "/api/v1/deals/1/rewards")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[RewardsResponse](t, w)
		require.Len(t, resp.Rewards, 2)
		require.Equal(t, "30", resp.Rewards[1].Amount)
		require.NotNil(t, resp.Claim)
		require.Equal(t, "1", resp.Claim.Residual)
		require.Equal(t, "40", resp.Claim.Distributed)
		require.Equal(t, 2, resp.Claim.Depositors)
	})

	t.Run("never claimed", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().GetDeal(mock.Anything, uint64(2)).Return(testDeal(2, store.StatusActive), nil)
		reader.EXPECT().ListRewards(mock.Anything, uint64(2)).Return(nil, nil)
		reader.EXPECT().GetRewardClaim(mock.Anything, uint64(2)).Return(nil, nil)

		w := serve(t, reader, nil, "/api/v1/deals/2/rewards")
		require.Equal(t, http.StatusOK, w.Code)
		require.NotContains(t, w.Body.String(), `"claim"`)
		require.Contains(t, w.Body.String(), `"rewards":[]`)
	})

	t.Run("claim failure", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().GetDeal(mock.Anything, uint64(2)).Return(testDeal(2, store.StatusActive), nil)
		reader.EXPECT().ListRewards(mock.Anything, uint64(2)).Return(nil, nil)
		reader.EXPECT().GetRewardClaim(mock.Anything, uint64(2)).Return(nil, errors.New("boom"))

		w := serve(t, reader, nil, "/api/v1/deals/2/rewards")
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandler_ListEvents(t *testing.T) {
	t.Parallel()

	t.Run("filters are passed through", func(t *testing.T) {
		t.Parallel()

		dealID := uint64(4)
		reader := apimocks.NewDealReader(t)
		reader.EXPECT().ListEvents(mock.Anything, store.EventFilter{
			EventName: "Deposited",
			DealID:    &dealID,
			FromBlock: 10,
			ToBlock:   20,
			Limit:     6,
			Offset:    2,
		}).Return([]*store.EventLogEntry{
			{TxHash: common.HexToHash("0x01"), EventName: "Deposited", BlockNumber: 11, Args: `{"dealId":4,"amount":"100"}`},
		}, nil)

		w := serve(t, reader, nil, "/api/v1/events?event=Deposited&deal_id=4&from_block=10&to_block=20&limit=5&offset=2")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[EventsResponse](t, w)
		require.Len(t, resp.Events, 1)
		require.Equal(t, PaginationResult{Limit: 5, Offset: 2}, resp.Pagination)
		require.JSONEq(t, `{"dealId":4,"amount":"100"}`, string(resp.Events[0].Args))
	})

	t.Run("empty args render as object", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().ListEvents(mock.Anything, mock.Anything).Return([]*store.EventLogEntry{{EventName: "DealLocked"}}, nil)

		w := serve(t, reader, nil, "/api/v1/events")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[EventsResponse](t, w)
		require.JSONEq(t, `{}`, string(resp.Events[0].Args))
	})

	invalid := []struct {
		name  string
		query string
	}{
		{name: "bad deal id", query: "?deal_id=x"},
		{name: "bad from block", query: "?from_block=-5"},
		{name: "bad to block", query: "?to_block=abc"},
		{name: "inverted range", query: "?from_block=20&to_block=10"},
		{name: "bad limit", query: "?limit=100000"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(t, apimocks.NewDealReader(t), nil, "/api/v1/events"+tt.query)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().GetCursors(mock.Anything).Return(map[string]uint64{"Deposited": 120}, nil)
		reader.EXPECT().Stats(mock.Anything).Return(&store.Stats{Deals: 3, LastBlock: 120}, nil)

		status := func() indexer.Status {
			return indexer.Status{Running: true, StartBlock: 100, Events: []string{"Deposited"}}
		}

		w := serve(t, reader, status, "/health")
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[HealthResponse](t, w)
		require.Equal(t, "ok", resp.Status)
		require.Equal(t, uint64(120), resp.Cursors["Deposited"])
		require.NotNil(t, resp.Indexer)
		require.True(t, resp.Indexer.Running)
		require.Equal(t, 3, resp.Stats.Deals)
	})

	t.Run("store unavailable", func(t *testing.T) {
		t.Parallel()

		reader := apimocks.NewDealReader(t)
		reader.EXPECT().GetCursors(mock.Anything).Return(nil, errors.New("database is locked"))

		w := serve(t, reader, nil, "/health")
		require.Equal(t, http.StatusServiceUnavailable, w.Code)

		resp := decode[HealthResponse](t, w)
		require.Equal(t, "degraded", resp.Status)
		require.Nil(t, resp.Indexer)
	})
}
