package controllers

import (
	"net/http"

	"github.com/devleo10/dishly/models"
	"github.com/devleo10/dishly/services"
	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
)

type PaymentMethodController struct {
	methods *services.PaymentMethodService
}

func NewPaymentMethodController(methods *services.PaymentMethodService) *PaymentMethodController {
	return &PaymentMethodController{methods: methods}
}

type createPaymentMethodRequest struct {
	Type           models.PaymentType `json:"type"`
	CardNumber     *string            `json:"cardNumber"`
	ExpiryDate     *string            `json:"expiryDate"`
	CardholderName *string            `json:"cardholderName"`
	IsDefault      bool               `json:"isDefault"`
}

type updatePaymentMethodRequest struct {
	Type           *models.PaymentType `json:"type"`
	CardNumber     *string             `json:"cardNumber"`
	ExpiryDate     *string             `json:"expiryDate"`
	CardholderName *string             `json:"cardholderName"`
	IsDefault      *bool               `json:"isDefault"`
}

func (pc *PaymentMethodController) ListPaymentMethods(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	methods, err := pc.methods.List(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

func (pc *PaymentMethodController) GetPaymentMethod(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "payment method")
	if !ok {
		return
	}

	method, err := pc.methods.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethod": method})
}

func (pc *PaymentMethodController) CreatePaymentMethod(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req createPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	method, err := pc.methods.Create(c.Request.Context(), actor, services.PaymentMethodInput{
		Type:           req.Type,
		CardNumber:     req.CardNumber,
		ExpiryDate:     req.ExpiryDate,
		CardholderName: req.CardholderName,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment method added successfully", gin.H{"paymentMethod": method})
}

func (pc *PaymentMethodController) UpdatePaymentMethod(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "payment method")
	if !ok {
		return
	}
	var req updatePaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}

	method, err := pc.methods.Update(c.Request.Context(), actor, id, services.PaymentMethodPatch{
		Type:           req.Type,
		CardNumber:     req.CardNumber,
		ExpiryDate:     req.ExpiryDate,
		CardholderName: req.CardholderName,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment method updated successfully", gin.H{"paymentMethod": method})
}

func (pc *PaymentMethodController) DeletePaymentMethod(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "payment method")
	if !ok {
		return
	}

	if err := pc.methods.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment method deleted successfully", nil)
}
