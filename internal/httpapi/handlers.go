package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"market_go/internal/infra"
	"market_go/internal/infra/storage"
	"market_go/internal/market"
)

// App carries the handler dependencies. The trade journal is optional;
// without it the trade endpoints answer 404.
type App struct {
	Engine  *market.Engine
	Store   *storage.Storage
	started time.Time
}

func NewApp(engine *market.Engine, store *storage.Storage) *App {
	return &App{Engine: engine, Store: store, started: time.Now()}
}

// caller reads the acting account from the X-Caller header.
func caller(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Caller"))
}

type mintRequest struct {
	Price       string `json:"price"`
	ForSale     bool   `json:"for_sale"`
	MetadataRef string `json:"metadata_ref"`
	Symbol      string `json:"symbol"`
}

type mintResponse struct {
	AssetID uint64 `json:"asset_id"`
}

type listRequest struct {
	Price  string `json:"price"`
	Symbol string `json:"symbol"`
}

type purchaseRequest struct {
	Amount string `json:"amount"`
	Symbol string `json:"symbol"`
}

type tradeResponse struct {
	TradeID     string    `json:"trade_id"`
	AssetID     uint64    `json:"asset_id"`
	Buyer       string    `json:"buyer"`
	Seller      string    `json:"seller"`
	Symbol      string    `json:"symbol"`
	ListedPrice string    `json:"listed_price"`
	PaidAmount  string    `json:"paid_amount"`
	Fee         string    `json:"fee"`
	SettledAt   time.Time `json:"settled_at"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Paused  bool   `json:"paused"`
	Assets  int    `json:"assets"`
	UptimeS int64  `json:"uptime_seconds"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	who := caller(r)
	if who == "" {
		WriteJSONError(w, http.StatusUnauthorized, "missing_caller", "X-Caller header is required")
		return "", false
	}
	return who, true
}

func assetID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_asset_id", "asset id must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseAmount(w http.ResponseWriter, raw, field string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_amount", field+" must be a decimal number")
		return decimal.Decimal{}, false
	}
	return amount, true
}

func (a *App) mintHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req mintRequest
	if !decodeBody(w, r, &req) {
		return
	}
	price, ok := parseAmount(w, req.Price, "price")
	if !ok {
		return
	}
	id, err := a.Engine.Mint(who, price, req.ForSale, req.MetadataRef, req.Symbol)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mintResponse{AssetID: id})
}

func (a *App) listHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	var req listRequest
	if !decodeBody(w, r, &req) {
		return
	}
	price, ok := parseAmount(w, req.Price, "price")
	if !ok {
		return
	}
	if err := a.Engine.List(who, id, price, req.Symbol); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) delistHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	if err := a.Engine.Delist(who, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) purchaseHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	var req purchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, ok := parseAmount(w, req.Amount, "amount")
	if !ok {
		return
	}
	var err error
	if req.Symbol == "" || req.Symbol == a.Engine.NativeSymbol() {
		err = a.Engine.PurchaseWithNative(who, id, amount)
	} else {
		err = a.Engine.PurchaseWithFungible(who, id, amount, req.Symbol)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) assetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		symbol = a.Engine.NativeSymbol()
	}
	info, err := a.Engine.GetAssetInfo(id, symbol)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (a *App) tradesHandler(w http.ResponseWriter, r *http.Request) {
	if a.Store == nil {
		WriteJSONError(w, http.StatusNotFound, "journal_disabled", "trade journal is not configured")
		return
	}
	id, ok := assetID(w, r)
	if !ok {
		return
	}
	rows, err := a.Store.TradesForAsset(id)
	if err != nil {
		slog.Error("trade journal query failed", "asset_id", id, "error", err)
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", "trade journal unavailable")
		return
	}
	trades := make([]tradeResponse, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, tradeResponse{
			TradeID:     row.TradeID,
			AssetID:     row.AssetID,
			Buyer:       row.Buyer,
			Seller:      row.Seller,
			Symbol:      row.Symbol,
			ListedPrice: row.ListedPrice,
			PaidAmount:  row.PaidAmount,
			Fee:         row.Fee,
			SettledAt:   row.SettledAt,
		})
	}
	writeJSON(w, http.StatusOK, trades)
}

func (a *App) pauseHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := a.Engine.Pause(who); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) unpauseHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	if err := a.Engine.Unpause(who); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type feeReceiverRequest struct {
	Receiver string `json:"receiver"`
}

func (a *App) feeReceiverHandler(w http.ResponseWriter, r *http.Request) {
	who, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req feeReceiverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.Engine.SetFeeReceiver(who, req.Receiver); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Paused:  a.Engine.Paused(),
		Assets:  a.Engine.TotalAssets(),
		UptimeS: int64(time.Since(a.started).Seconds()),
	})
}

func (a *App) metricsHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, infra.GlobalMetrics.Snapshot())
}
