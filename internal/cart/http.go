package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"TrailStore/internal/auth"
	"TrailStore/internal/events"
	"TrailStore/internal/shop"
	"TrailStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Carts   Store
	Catalog *CatalogClient
	Events  events.Publisher
	Log     *zap.Logger
}

type cartView struct {
	Lines []shop.Line     `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

func view(lines []shop.Line) cartView {
	if lines == nil {
		lines = []shop.Line{}
	}
	return cartView{Lines: lines, Total: shop.Total(lines)}
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	lines, err := s.Carts.Load(r.Context(), u.ID)
	if err != nil {
		s.logErr("load cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view(lines))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req addItemReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil || req.ProductID == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}

	lines, err := s.Carts.Load(r.Context(), u.ID)
	if err != nil {
		s.logErr("load cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	// Always a fresh read; adding against a cached product would let a
	// deleted or drained product slip into the cart unnoticed.
	p, err := s.Catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		s.writeCatalogError(w, r, err, req.ProductID)
		return
	}

	lines, err = shop.AddToCart(lines, []shop.Product{p}, req.ProductID)
	if err != nil {
		if errors.Is(err, shop.ErrOutOfStock) {
			kit.WriteError(w, r, http.StatusConflict, "out of stock", map[string]any{"product_id": req.ProductID})
			return
		}
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"product_id": req.ProductID})
		return
	}

	if err := s.Carts.Save(r.Context(), u.ID, lines); err != nil {
		s.logErr("save cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view(lines))
}

type changeQtyReq struct {
	Delta int `json:"delta"`
}

func (s *Server) changeQty(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad index", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req changeQtyReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	lines, err := s.Carts.Load(r.Context(), u.ID)
	if err != nil {
		s.logErr("load cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	// Out-of-range indices are a quiet no-op: the view may have re-rendered
	// while this request was in flight.
	lines = shop.ChangeQuantity(lines, index, req.Delta)

	if err := s.Carts.Save(r.Context(), u.ID, lines); err != nil {
		s.logErr("save cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view(lines))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad index", nil)
		return
	}

	lines, err := s.Carts.Load(r.Context(), u.ID)
	if err != nil {
		s.logErr("load cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	lines = shop.RemoveLine(lines, index)

	if err := s.Carts.Save(r.Context(), u.ID, lines); err != nil {
		s.logErr("save cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view(lines))
}

func (s *Server) empty(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	if err := s.Carts.Save(r.Context(), u.ID, nil); err != nil {
		s.logErr("clear cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, view(nil))
}

type orderResp struct {
	OrderID string          `json:"order_id"`
	Lines   []shop.Line     `json:"lines"`
	Total   decimal.Decimal `json:"total"`
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	lines, err := s.Carts.Load(r.Context(), u.ID)
	if err != nil {
		s.logErr("load cart failed", err, u.ID)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if len(lines) == 0 {
		kit.WriteError(w, r, http.StatusConflict, "empty cart", nil)
		return
	}

	if err := s.Catalog.Checkout(r.Context(), lines); err != nil {
		var se *shop.StockError
		switch {
		case errors.As(err, &se):
			kit.WriteError(w, r, http.StatusConflict, "insufficient stock", se)
		case errors.Is(err, ErrCatalogUnavailable):
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
		default:
			s.logErr("checkout failed", err, u.ID)
			kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
		}
		return
	}

	receipt := shop.NewReceipt(lines)
	orderID := "o_" + uuid.NewString()

	// Stock is already decremented; a failed cart clear must not undo the
	// order. Log it and report success.
	if err := s.Carts.Save(r.Context(), u.ID, nil); err != nil {
		s.logErr("clear cart after checkout failed", err, u.ID)
	}

	ev := events.OrderCompleted{
		OrderID: orderID,
		UserID:  u.ID,
		Total:   receipt.Total,
	}
	for _, l := range receipt.Lines {
		ev.Items = append(ev.Items, events.OrderItem{ProductID: l.ProductID, Qty: l.Qty, Price: l.Price})
	}
	if err := s.Events.PublishOrderCompleted(r.Context(), ev); err != nil {
		if s.Log != nil {
			s.Log.Warn("publish order completed failed", zap.Error(err), zap.String("order_id", orderID))
		}
	}

	kit.WriteJSON(w, http.StatusOK, orderResp{OrderID: orderID, Lines: receipt.Lines, Total: receipt.Total})
}

func (s *Server) writeCatalogError(w http.ResponseWriter, r *http.Request, err error, productID string) {
	switch {
	case errors.Is(err, ErrCatalogNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"product_id": productID})
	case errors.Is(err, ErrCatalogUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	default:
		s.logErr("catalog error", err, "")
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	}
}

func (s *Server) logErr(msg string, err error, userID string) {
	if s.Log == nil {
		return
	}
	fields := []zap.Field{zap.Error(err)}
	if userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	s.Log.Error(msg, fields...)
}
