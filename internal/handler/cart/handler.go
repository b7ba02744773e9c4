package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/greenwell/internal/middleware"
	"github.com/jwalitptl/greenwell/internal/service/cart"
	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
	"github.com/jwalitptl/greenwell/pkg/httputil"
)

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,notblank"`
}

type Handler struct {
	service *cart.Service
}

func NewHandler(service *cart.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	c := r.Group("/cart")
	{
		c.GET("", h.GetCart)
		c.POST("/items", h.AddItem)
	}
}

func (h *Handler) GetCart(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetSession(c, sess.ID)
	httputil.RespondWithSuccess(c, http.StatusOK, cart.Summary{Count: sess.CartCount})
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(middleware.BindingMessage(err), err))
		return
	}

	sess, err := h.service.Add(c.Request.Context(), middleware.SessionID(c), req.ProductID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.SetSession(c, sess.ID)
	httputil.RespondWithSuccess(c, http.StatusCreated, cart.Summary{Count: sess.CartCount})
}
