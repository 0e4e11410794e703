package activities

import (
	"errors"
	"net/http"

	"mergington/internal/shared/utils/response"
	"mergington/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Controller{
		service:   service,
		validator: validator.New(),
		log:       log,
	}
}

// ListActivities godoc
// @Summary      List activities
// @Description  Every activity keyed by name, with schedule, capacity and roster
// @Tags         activities
// @Produce      json
// @Success      200  {object}  map[string]ActivityResponse
// @Router       /activities [get]
func (ctrl *Controller) ListActivities(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.service.ListActivities(c.Request.Context()))
}

// GetActivity godoc
// @Summary      Get one activity
// @Tags         activities
// @Produce      json
// @Param        name  path      string  true  "Activity name"
// @Success      200   {object}  ActivityResponse
// @Failure      404   {object}  response.ErrorResponse
// @Router       /activities/{name} [get]
func (ctrl *Controller) GetActivity(c *gin.Context) {
	activity, err := ctrl.service.GetActivity(c.Request.Context(), c.Param("name"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// Signup godoc
// @Summary      Sign up for an activity
// @Tags         activities
// @Produce      json
// @Param        name   path      string  true  "Activity name"
// @Param        email  query     string  true  "Student email"
// @Success      200    {object}  ParticipationResponse
// @Failure      400    {object}  response.ErrorResponse
// @Failure      404    {object}  response.ErrorResponse
// @Failure      422    {object}  response.ErrorResponse
// @Router       /activities/{name}/signup [post]
func (ctrl *Controller) Signup(c *gin.Context) {
	req, ok := ctrl.bindParticipation(c)
	if !ok {
		return
	}

	resp, err := ctrl.service.Signup(c.Request.Context(), c.Param("name"), *req.Email)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Unregister godoc
// @Summary      Unregister from an activity
// @Tags         activities
// @Produce      json
// @Param        name   path      string  true  "Activity name"
// @Param        email  query     string  true  "Student email"
// @Success      200    {object}  ParticipationResponse
// @Failure      404    {object}  response.ErrorResponse
// @Failure      422    {object}  response.ErrorResponse
// @Router       /activities/{name}/unregister [delete]
func (ctrl *Controller) Unregister(c *gin.Context) {
	req, ok := ctrl.bindParticipation(c)
	if !ok {
		return
	}

	resp, err := ctrl.service.Unregister(c.Request.Context(), c.Param("name"), *req.Email)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (ctrl *Controller) bindParticipation(c *gin.Context) (*ParticipationRequest, bool) {
	var req ParticipationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "Invalid query parameters", err.Error())
		return nil, false
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "email query parameter is required", err.Error())
		return nil, false
	}

	return &req, true
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		response.RespondError(c, http.StatusNotFound, "Activity not found", nil)
	case errors.Is(err, ErrNotRegistered):
		response.RespondError(c, http.StatusNotFound, "Student is not registered for this activity", nil)
	case errors.Is(err, ErrAlreadySignedUp):
		response.RespondError(c, http.StatusBadRequest, "Student is already signed up", nil)
	case errors.Is(err, ErrActivityFull):
		response.RespondError(c, http.StatusBadRequest, "Activity is full", nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
