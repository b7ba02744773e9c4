package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/greenwell/internal/middleware"
	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/service/booking"
	"github.com/jwalitptl/greenwell/internal/service/cart"
	"github.com/jwalitptl/greenwell/internal/service/catalog"
	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var funcs = template.FuncMap{
	"int": func(s model.Step) int { return int(s) },
	"join": strings.Join,
	"price": func(euros int) string { return "€" + strconv.Itoa(euros) },
	"progress": func(s model.Step) template.CSS {
		return template.CSS(fmt.Sprintf("width: %.2f%%", float64(s)*33.33))
	},
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
}

type page struct {
	Session    *model.Session
	Clinicians []model.Clinician
	Selected   *model.Clinician
	Products   []model.Product
	Samples    *catalog.Samples
	Steps      []model.Step
	Year       int
}

type Handler struct {
	bookings *booking.Service
	carts    *cart.Service
	catalog  *catalog.Service
}

func NewHandler(bookings *booking.Service, carts *cart.Service, products *catalog.Service) *Handler {
	return &Handler{bookings: bookings, carts: carts, catalog: products}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.POST("/cart", h.AddToCart)
	r.POST("/booking", h.Booking)
}

func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()

	sess, err := h.bookings.Load(ctx, middleware.SessionID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	middleware.SetSession(c, sess.ID)

	p := page{Session: sess, Steps: model.Steps, Year: time.Now().Year()}
	if p.Clinicians, err = h.catalog.ListClinicians(ctx); err != nil {
		RenderError(c, err)
		return
	}
	if p.Products, err = h.catalog.ListProducts(ctx); err != nil {
		RenderError(c, err)
		return
	}
	if p.Samples, err = h.catalog.Samples(ctx); err != nil {
		RenderError(c, err)
		return
	}
	for i := range p.Clinicians {
		if p.Clinicians[i].ID == sess.Form.DoctorID {
			p.Selected = &p.Clinicians[i]
		}
	}

	c.HTML(http.StatusOK, "index.tmpl", p)
}

func (h *Handler) AddToCart(c *gin.Context) {
	sess, err := h.carts.Add(c.Request.Context(), middleware.SessionID(c), c.PostForm("product_id"))
	if err != nil {
		RenderError(c, err)
		return
	}
	middleware.SetSession(c, sess.ID)
	c.Redirect(http.StatusSeeOther, "/#products")
}

// Booking applies the fields posted from the visible step, then the chosen
// action. Blocked or invalid actions still redirect; the page shows why.
func (h *Handler) Booking(c *gin.Context) {
	ctx := c.Request.Context()

	sess, err := h.bookings.Load(ctx, middleware.SessionID(c))
	if err != nil {
		RenderError(c, err)
		return
	}
	id := sess.ID
	middleware.SetSession(c, id)

	if patch, ok := postedPatch(c, sess.Step); ok {
		if _, err := h.bookings.Update(ctx, id, patch); err != nil && !isFlowError(err) {
			RenderError(c, err)
			return
		}
	}

	switch action := booking.Action(c.PostForm("action")); action {
	case booking.ActionNext:
		_, err = h.bookings.Next(ctx, id)
	case booking.ActionBack:
		_, err = h.bookings.Back(ctx, id)
	case booking.ActionSubmit:
		_, err = h.bookings.Submit(ctx, id)
	case booking.ActionCancel:
		_, err = h.bookings.Cancel(ctx, id)
	case booking.ActionConfirm:
		_, err = h.bookings.Confirm(ctx, id)
	case booking.ActionClinician:
		_, err = h.bookings.SelectClinician(ctx, id, c.PostForm("doctorId"))
	case "":
	default:
		RenderError(c, apperrors.BadRequest(fmt.Sprintf("unknown action %q", action), nil))
		return
	}
	if err != nil && !isFlowError(err) {
		RenderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/#appointment")
}

// postedPatch reads the inputs of step. Forms rendered for another step are
// stale and ignored; the review step has no inputs.
func postedPatch(c *gin.Context, step model.Step) (model.FormPatch, bool) {
	posted, err := strconv.Atoi(c.PostForm("step"))
	if err != nil || model.Step(posted) != step {
		return model.FormPatch{}, false
	}

	value := func(name string) *string {
		if v, ok := c.GetPostForm(name); ok {
			return &v
		}
		return nil
	}

	switch step {
	case model.StepDetails:
		return model.FormPatch{
			FullName:  value(model.FieldFullName),
			Email:     value(model.FieldEmail),
			Phone:     value(model.FieldPhone),
			Condition: value(model.FieldCondition),
		}, true
	case model.StepAppointment:
		// unchecked boxes are not posted at all
		consent := c.PostForm(model.FieldConsent) != ""
		return model.FormPatch{
			Date:    value(model.FieldDate),
			Time:    value(model.FieldTime),
			Consent: &consent,
		}, true
	default:
		return model.FormPatch{}, false
	}
}

// isFlowError reports outcomes the page renders itself: blocked steps,
// invalid transitions and rejected input.
func isFlowError(err error) bool {
	return apperrors.HasCode(err, apperrors.ErrUnprocessable) ||
		apperrors.HasCode(err, apperrors.ErrConflict) ||
		apperrors.HasCode(err, apperrors.ErrBadRequest)
}

// RenderError writes the HTML error page for err.
func RenderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong on our side. Please try again shortly."
	if appErr, ok := apperrors.As(err); ok {
		status = appErr.StatusCode()
		if status < http.StatusInternalServerError {
			message = appErr.Message
		}
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("page request failed")
	}

	c.HTML(status, "error.tmpl", gin.H{"Status": status, "Message": message})
}
