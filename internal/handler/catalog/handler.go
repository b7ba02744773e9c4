package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/greenwell/internal/service/catalog"
	"github.com/jwalitptl/greenwell/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinicians := r.Group("/clinicians")
	{
		clinicians.GET("", h.ListClinicians)
		clinicians.GET("/:id", h.GetClinician)
	}
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/samples", h.Samples)
}

func (h *Handler) ListClinicians(c *gin.Context) {
	clinicians, err := h.service.ListClinicians(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, clinicians)
}

func (h *Handler) GetClinician(c *gin.Context) {
	clinician, err := h.service.GetClinician(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, clinician)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, product)
}

func (h *Handler) Samples(c *gin.Context) {
	samples, err := h.service.Samples(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, samples)
}
