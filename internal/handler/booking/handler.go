package booking

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/greenwell/internal/middleware"
	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/service/booking"
	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
	"github.com/jwalitptl/greenwell/pkg/httputil"
)

type ValidateRequest struct {
	Form model.BookingForm `json:"form"`
	Step int               `json:"step" binding:"required,min=1,max=3"`
}

type ValidateResponse struct {
	Valid  bool                   `json:"valid"`
	Errors model.ValidationErrors `json:"errors"`
}

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	b := r.Group("/booking")
	{
		b.POST("/validate", h.Validate)
		b.GET("", h.GetSession)
		b.PATCH("/form", h.UpdateForm)
		b.POST("/next", h.transition(h.service.Next))
		b.POST("/back", h.transition(h.service.Back))
		b.POST("/submit", h.transition(h.service.Submit))
		b.POST("/cancel", h.transition(h.service.Cancel))
		b.POST("/confirm", h.transition(h.service.Confirm))
	}
}

func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.BadRequest(middleware.BindingMessage(err), err))
		return
	}

	errs, err := h.service.Validate(req.Form, model.Step(req.Step))
	if err != nil {
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, ValidateResponse{Valid: errs.Valid(), Errors: errs})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.service.Load(c.Request.Context(), middleware.SessionID(c))
	respond(c, sess, err)
}

func (h *Handler) UpdateForm(c *gin.Context) {
	var patch model.FormPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(apperrors.BadRequest(middleware.BindingMessage(err), err))
		return
	}

	sess, err := h.service.Update(c.Request.Context(), middleware.SessionID(c), patch)
	respond(c, sess, err)
}

func (h *Handler) transition(fn func(ctx context.Context, id string) (*model.Session, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := fn(c.Request.Context(), middleware.SessionID(c))
		respond(c, sess, err)
	}
}

// respond refreshes the session cookie and answers with the session, also
// alongside a blocked or rejected outcome.
func respond(c *gin.Context, sess *model.Session, err error) {
	if sess != nil {
		middleware.SetSession(c, sess.ID)
	}
	if err != nil {
		if sess != nil {
			httputil.RespondWithErrorData(c, err, sess)
			return
		}
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, sess)
}
