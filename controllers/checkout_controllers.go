package controllers

import (
	"net/http"

	"github.com/devleo10/dishly/services"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

type checkoutRequest struct {
	OrderID         uint  `json:"orderId"`
	PaymentMethodID *uint `json:"paymentMethodId"`
}

func (cc *CheckoutController) Checkout(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	in := services.CheckoutInput{OrderID: req.OrderID}
	if req.PaymentMethodID != nil {
		in.PaymentMethodID = *req.PaymentMethodID
	}

	result, err := cc.checkout.Confirm(c.Request.Context(), actor, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout successful", gin.H{
		"order":   result.Order,
		"payment": result.Payment,
	})
}
