package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"icare-http-service/internal/error/code"
	"icare-http-service/internal/error/response"
	"icare-http-service/models"
	"icare-http-service/services"
	"icare-http-service/services/container"
)

// AlertController handles the fall-alert lifecycle endpoints
type AlertController struct {
	BaseControllerImpl
}

// NewAlertController creates a new alert controller
func (f *ControllerFactory) NewAlertController(ctx *gin.Context) *AlertController {
	return &AlertController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// CreateAlertRequest is the body the AI module posts on a detected
// fall. The fall pipeline names the patient reference patientId; the
// face pipeline uses maYTe. Both keys map onto the same field.
type CreateAlertRequest struct {
	MaYTe      *string `json:"maYTe" example:"BN001"`
	PatientID  *string `json:"patientId"`
	Location   string  `json:"location" example:"Phòng 302"`
	Confidence float64 `json:"confidence" binding:"required" example:"0.93"`
	Timestamp  *string `json:"timestamp" example:"2025-06-01T08:30:00Z"` // RFC3339 or naive UTC isoformat, defaults to receipt time
	FrameData  string  `json:"frameData"`                                // base64 JPEG, optional
}

// patientKey returns the patient reference regardless of which key the
// client used
func (r *CreateAlertRequest) patientKey() *string {
	if r.MaYTe != nil {
		return r.MaYTe
	}
	return r.PatientID
}

// UpdateAlertStatusRequest is the generic status transition body
type UpdateAlertStatusRequest struct {
	Status string `json:"status" binding:"required" example:"acknowledged"`
	Actor  string `json:"actor" example:"Y tá Lan"`
	Notes  string `json:"notes" example:"Đã kiểm tra, bệnh nhân ổn"`
}

// AcknowledgeAlertRequest is the dedicated acknowledge body
type AcknowledgeAlertRequest struct {
	AcknowledgedBy string `json:"acknowledgedBy" example:"Y tá Lan"`
}

// ResolveAlertRequest is the dedicated resolve body
type ResolveAlertRequest struct {
	ResolvedBy string `json:"resolvedBy" example:"Y tá Lan"`
	Notes      string `json:"notes" example:"Bệnh nhân đã được hỗ trợ"`
}

// CreateAlert handles a fall event reported by the AI module
// @Summary      Report a fall alert
// @Description  Creates an active fall alert and pushes it to connected dashboard sessions
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        request body CreateAlertRequest true "Fall event"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /fall-alert [post]
func (c *AlertController) CreateAlert() {
	var req CreateAlertRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, err.Error())
		return
	}

	input := services.CreateAlertInput{
		MaYTe:      req.patientKey(),
		Location:   req.Location,
		Confidence: req.Confidence,
		FrameData:  req.FrameData,
	}
	if req.Timestamp != nil && *req.Timestamp != "" {
		ts, err := parseClientTimestamp(*req.Timestamp)
		if err != nil {
			response.ParamError(c.Context, "timestamp không hợp lệ")
			return
		}
		input.Timestamp = &ts
	}

	view, err := c.Container.GetAlertService().CreateAlert(input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidConfidence) {
			response.ParamError(c.Context, err.Error())
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Created(c.Context, view)
}

// GetActiveAlerts returns every alert still awaiting attention
// @Summary      List active alerts
// @Tags         Alerts
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /alerts/active [get]
func (c *AlertController) GetActiveAlerts() {
	views, err := c.Container.GetAlertService().GetActiveAlerts()
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, views)
}

// GetAllAlerts returns a page of the alert history
// @Summary      List alert history
// @Tags         Alerts
// @Produce      json
// @Param        page     query int false "Page number"      default(1)
// @Param        pageSize query int false "Items per page"   default(10)
// @Success      200  {object}  response.Response
// @Router       /alerts [get]
func (c *AlertController) GetAllAlerts() {
	page, _ := strconv.Atoi(c.Context.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Context.DefaultQuery("pageSize", "10"))

	views, total, err := c.Container.GetAlertService().GetAllAlerts(page, pageSize)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, gin.H{
		"items":      views,
		"pagination": models.NewPaginationResult(int(total), page, pageSize),
	})
}

// GetAlertByID returns one alert's details
// @Summary      Get alert detail
// @Tags         Alerts
// @Produce      json
// @Param        id path int true "Alert ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /alerts/{id} [get]
func (c *AlertController) GetAlertByID() {
	id, err := c.alertID()
	if err != nil {
		return
	}

	alert, err := c.Container.GetAlertService().GetAlertByID(id)
	if err != nil {
		c.failAlert(err)
		return
	}
	response.Success(c.Context, alert.ToDetailView())
}

// GetAlertImage serves the captured frame as a JPEG
// @Summary      Get alert image
// @Tags         Alerts
// @Produce      jpeg
// @Param        id path int true "Alert ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /alerts/{id}/image [get]
func (c *AlertController) GetAlertImage() {
	id, err := c.alertID()
	if err != nil {
		return
	}

	image, err := c.Container.GetAlertService().GetAlertImage(id)
	if err != nil {
		c.failAlert(err)
		return
	}
	c.Context.Data(http.StatusOK, "image/jpeg", image)
}

// UpdateAlertStatus applies a lifecycle transition
// @Summary      Update alert status
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "Alert ID"
// @Param        request body UpdateAlertStatusRequest true "Transition"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /alerts/{id}/status [put]
func (c *AlertController) UpdateAlertStatus() {
	id, err := c.alertID()
	if err != nil {
		return
	}

	var req UpdateAlertStatusRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, err.Error())
		return
	}

	view, err := c.Container.GetAlertService().UpdateStatus(id, models.AlertStatus(req.Status), req.Actor, req.Notes)
	if err != nil {
		c.failAlert(err)
		return
	}
	response.Success(c.Context, view)
}

// AcknowledgeAlert marks an alert as seen by staff
// @Summary      Acknowledge alert
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        id      path int                     true "Alert ID"
// @Param        request body AcknowledgeAlertRequest true "Acknowledger"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /alerts/{id}/acknowledge [post]
func (c *AlertController) AcknowledgeAlert() {
	id, err := c.alertID()
	if err != nil {
		return
	}

	// The body is optional; the hub path supplies the acknowledger name,
	// the HTTP path may omit it
	var req AcknowledgeAlertRequest
	if c.Context.Request.ContentLength > 0 {
		if err := c.Context.ShouldBindJSON(&req); err != nil {
			response.ParamError(c.Context, err.Error())
			return
		}
	}

	if err := c.Container.GetAlertService().AcknowledgeAlert(id, req.AcknowledgedBy); err != nil {
		c.failAlert(err)
		return
	}
	response.Success(c.Context, gin.H{"id": id, "status": models.AlertStatusAcknowledged})
}

// ResolveAlert marks an alert as handled
// @Summary      Resolve alert
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        id      path int                 true "Alert ID"
// @Param        request body ResolveAlertRequest true "Resolution"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /alerts/{id}/resolve [post]
func (c *AlertController) ResolveAlert() {
	id, err := c.alertID()
	if err != nil {
		return
	}

	var req ResolveAlertRequest
	if c.Context.Request.ContentLength > 0 {
		if err := c.Context.ShouldBindJSON(&req); err != nil {
			response.ParamError(c.Context, err.Error())
			return
		}
	}

	if err := c.Container.GetAlertService().ResolveAlert(id, req.ResolvedBy, req.Notes); err != nil {
		c.failAlert(err)
		return
	}
	response.Success(c.Context, gin.H{"id": id, "status": models.AlertStatusResolved})
}

// GetAlertStatistics returns the dashboard summary block
// @Summary      Alert statistics
// @Tags         Alerts
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /alerts/stats [get]
func (c *AlertController) GetAlertStatistics() {
	stats, err := c.Container.GetAlertService().GetAlertStatistics()
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, stats)
}

// parseClientTimestamp accepts RFC3339 as well as the AI module's
// naive isoformat, which carries no offset and is UTC by convention
func parseClientTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05.999999999", value)
}

// alertID parses the :id path parameter, replying 400 on failure
func (c *AlertController) alertID() (uint, error) {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "id không hợp lệ")
		return 0, err
	}
	return uint(id), nil
}

// failAlert maps alert service errors onto the response envelope
func (c *AlertController) failAlert(err error) {
	switch {
	case errors.Is(err, services.ErrAlertNotFound):
		response.Fail(c.Context, code.ErrAlertNotFound, nil)
	case errors.Is(err, services.ErrInvalidAlertStatus):
		response.Fail(c.Context, code.ErrAlertInvalidStatus, nil)
	case errors.Is(err, services.ErrAlertTerminalLocked):
		response.Fail(c.Context, code.ErrAlertTerminalLocked, nil)
	case errors.Is(err, services.ErrAlertImageNotFound):
		response.Fail(c.Context, code.ErrAlertImageNotFound, nil)
	case errors.Is(err, services.ErrAlertImageCorrupt):
		response.Fail(c.Context, code.ErrAlertImageCorrupt, nil)
	case errors.Is(err, services.ErrInvalidConfidence):
		response.ParamError(c.Context, err.Error())
	default:
		response.Fail(c.Context, code.ErrDatabase, nil)
	}
}

// HandleAlertFunc returns a gin handler dispatching to one alert method
func HandleAlertFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewAlertController(ctx)

		switch method {
		case "createAlert":
			controller.CreateAlert()
		case "getActiveAlerts":
			controller.GetActiveAlerts()
		case "getAllAlerts":
			controller.GetAllAlerts()
		case "getAlertByID":
			controller.GetAlertByID()
		case "getAlertImage":
			controller.GetAlertImage()
		case "updateAlertStatus":
			controller.UpdateAlertStatus()
		case "acknowledgeAlert":
			controller.AcknowledgeAlert()
		case "resolveAlert":
			controller.ResolveAlert()
		case "getAlertStatistics":
			controller.GetAlertStatistics()
		default:
			response.ParamError(ctx, "phương thức không hợp lệ")
		}
	}
}
