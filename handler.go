package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/backend"
	"storefront-service/cart"
	"storefront-service/checkout"
	"storefront-service/events"
	"storefront-service/helper"
	"storefront-service/model"
	"storefront-service/orders"
	"storefront-service/userstore"

	"github.com/gorilla/mux"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"postgres": "ok", "redis": "ok"}
	status := http.StatusOK
	if db == nil || db.PingContext(ctx) != nil {
		checks["postgres"] = "down"
		status = http.StatusServiceUnavailable
	}
	if rdb == nil || rdb.Ping(ctx).Err() != nil {
		checks["redis"] = "down"
		status = http.StatusServiceUnavailable
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	helper.WriteJSON(w, status, map[string]any{"status": overall, "checks": checks})
}

// === demo users ===

func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := users.List()
	if err != nil {
		log.Println("[users] list failed:", err)
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "failed to read users")
		return
	}
	helper.WriteJSON(w, http.StatusOK, list)
}

func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := users.Create(req)
	switch {
	case errors.Is(err, userstore.ErrInvalidUser):
		helper.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, userstore.ErrDuplicate):
		helper.WriteErrorJSON(w, http.StatusConflict, "email or phone already registered")
		return
	case err != nil:
		log.Println("[users] create failed:", err)
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "failed to save user")
		return
	}
	helper.WriteJSON(w, http.StatusCreated, u)
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req model.LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := users.Authenticate(req.EmailOrPhone, req.Password)
	if errors.Is(err, userstore.ErrUserNotFound) {
		helper.WriteErrorJSON(w, http.StatusUnauthorized, "user not found")
		return
	}
	if errors.Is(err, userstore.ErrInvalidCredentials) {
		helper.WriteErrorJSON(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		log.Println("[users] login failed:", err)
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := helper.GenerateJWT(user.ID)
	if err != nil {
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	bus.Auth.Publish(events.AuthChanged{UserID: user.ID, Action: events.AuthLogin})

	var data = struct {
		Token string         `json:"token"`
		User  userstore.User `json:"user"`
	}{
		Token: token,
		User:  user,
	}

	helper.WriteJSON(w, http.StatusOK, data)
}

// LogoutHandler only announces the logout; tokens are stateless and expire on their own.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	bus.Auth.Publish(events.AuthChanged{
		UserID: helper.GetUserIDFromContext(r.Context()),
		Action: events.AuthLogout,
	})
	w.WriteHeader(http.StatusNoContent)
}

// === cart ===

func writeCart(w http.ResponseWriter, status int, c *cart.Cart) {
	helper.WriteJSON(w, status, c.View())
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidItem):
		helper.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrLineNotFound):
		helper.WriteErrorJSON(w, http.StatusNotFound, "cart line not found")
	default:
		log.Println("[cart] store error:", err)
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "failed to update cart")
	}
}

func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	c, err := carts.Load(r.Context(), helper.GetUserIDFromContext(r.Context()))
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req model.AddCartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := carts.Add(r.Context(), helper.GetUserIDFromContext(r.Context()), model.CartLine{
		ProductID: req.ProductID,
		Title:     req.Title,
		Image:     req.Image,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func SetCartQuantityHandler(w http.ResponseWriter, r *http.Request) {
	var req model.SetQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lineID := mux.Vars(r)["lineId"]
	c, err := carts.SetQuantity(r.Context(), helper.GetUserIDFromContext(r.Context()), lineID, req.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineId"]
	c, err := carts.Remove(r.Context(), helper.GetUserIDFromContext(r.Context()), lineID)
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeCart(w, http.StatusOK, c)
}

func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := carts.Clear(r.Context(), helper.GetUserIDFromContext(r.Context())); err != nil {
		writeCartError(w, err)
		return
	}
	writeCart(w, http.StatusOK, &cart.Cart{})
}

func CartContainsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, err := strconv.Atoi(q.Get("productId"))
	if err != nil || productID <= 0 {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid productId")
		return
	}

	ok, err := carts.Contains(r.Context(), helper.GetUserIDFromContext(r.Context()), productID, q.Get("size"), q.Get("color"))
	if err != nil {
		writeCartError(w, err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, map[string]bool{"contains": ok})
}

// === checkout ===

// writeBackendError keeps the backend's auth/not-found statuses and maps everything else
// to 502 with the message the shopper should see.
func writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		helper.WriteErrorJSON(w, apiErr.Status, backend.UserMessage(err))
		return
	}
	helper.WriteErrorJSON(w, http.StatusBadGateway, backend.UserMessage(err))
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	var vErr *checkout.ValidationError
	var sErr *checkout.SubmitError

	switch {
	case errors.As(err, &vErr):
		helper.WriteFieldErrorsJSON(w, vErr.Fields)
	case errors.As(err, &sErr):
		status := http.StatusBadGateway
		var apiErr *backend.APIError
		if errors.As(sErr, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		helper.WriteJSON(w, status, map[string]any{
			"error":   sErr.Message,
			"state":   checkout.StateFailed,
			"stage":   sErr.Stage,
			"orderId": sErr.OrderID,
		})
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrDiscountCodeRequired):
		helper.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrForbidden):
		helper.WriteErrorJSON(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, checkout.ErrNotBankTransfer), errors.Is(err, checkout.ErrIllegalTransition):
		helper.WriteErrorJSON(w, http.StatusConflict, err.Error())
	default:
		log.Println("[checkout] unexpected error:", err)
		helper.WriteErrorJSON(w, http.StatusInternalServerError, "internal error")
	}
}

func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := checkouts.Submit(ctx, helper.GetUserIDFromContext(ctx), helper.GetTokenFromContext(ctx), req)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	status := http.StatusCreated
	if resp.RedirectURL != "" {
		status = http.StatusOK
	}
	helper.WriteJSON(w, status, resp)
}

func ApplyDiscountHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.DiscountReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	applied, err := checkouts.ApplyDiscount(ctx, helper.GetUserIDFromContext(ctx), helper.GetTokenFromContext(ctx), req.Code)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, applied)
}

func ConfirmBankTransferHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := strings.TrimSpace(mux.Vars(r)["orderId"])
	if orderID == "" {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "orderId required")
		return
	}

	if err := checkouts.ConfirmBankTransfer(ctx, helper.GetUserIDFromContext(ctx), orderID); err != nil {
		writeCheckoutError(w, err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, map[string]string{
		"orderId": orderID,
		"state":   checkout.StateTransferConfirmed.String(),
	})
}

// === payment return pages ===

func VNPayReturnHandler(w http.ResponseWriter, r *http.Request) {
	helper.WriteJSON(w, http.StatusOK, payments.VNPayReturn(r.Context(), r.URL.Query()))
}

func MoMoReturnHandler(w http.ResponseWriter, r *http.Request) {
	helper.WriteJSON(w, http.StatusOK, payments.MoMoReturn(r.Context(), r.URL.Query()))
}

func OrderResultHandler(w http.ResponseWriter, r *http.Request) {
	helper.WriteJSON(w, http.StatusOK, payments.OrderResult(r.Context(), r.URL.Query()))
}

// === order history ===

func ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	params, err := orders.ParseListParams(r.URL.Query())
	if err != nil {
		helper.WriteErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := orderViews.List(r.Context(), helper.GetTokenFromContext(r.Context()), params)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, page)
}

func GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		helper.WriteErrorJSON(w, http.StatusBadRequest, "invalid order id")
		return
	}

	detail, err := orderViews.Get(r.Context(), helper.GetTokenFromContext(r.Context()), id)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	helper.WriteJSON(w, http.StatusOK, detail)
}

// === catalog passthrough ===

func writeRaw(w http.ResponseWriter, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	w.Write(raw)
}

func ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := catalog.ListProducts(r.Context(), r.URL.Query())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeRaw(w, raw)
}

func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := catalog.ListCategories(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeRaw(w, raw)
}

func ListPublicDiscountsHandler(w http.ResponseWriter, r *http.Request) {
	raw, err := discounts.ListPublic(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeRaw(w, raw)
}
