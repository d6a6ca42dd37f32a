package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/siteoptz/siteoptz/internal/checkout"
	"github.com/siteoptz/siteoptz/internal/respond"
)

type checkoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	OrderID string `json:"orderId"`
}

func (s *server) handleAPICheckout(w http.ResponseWriter, r *http.Request) {
	var req checkout.StartRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	sess, err := s.checkout.Start(r.Context(), &req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, checkoutResponse{Success: true, URL: sess.URL, OrderID: sess.OrderID})
}

func (s *server) handleAPICheckoutStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.checkout.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, sess)
}

// handleCheckoutForm is the no-JavaScript path from the plans on the home page.
func (s *server) handleCheckoutForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sess, err := s.checkout.Start(r.Context(), &checkout.StartRequest{
		Plan:         r.FormValue("plan"),
		BillingCycle: r.FormValue("billing_cycle"),
		Email:        r.FormValue("email"),
	})
	if err != nil {
		s.flashError(r.Context(), "We couldn't start checkout. Check your email and plan and try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, sess.URL, http.StatusSeeOther)
}
