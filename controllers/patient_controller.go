package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"icare-http-service/internal/error/code"
	"icare-http-service/internal/error/response"
	"icare-http-service/models"
	"icare-http-service/services"
	"icare-http-service/services/container"
)

// PatientController handles the patient directory endpoints
type PatientController struct {
	BaseControllerImpl
}

// NewPatientController creates a new patient controller
func (f *ControllerFactory) NewPatientController(ctx *gin.Context) *PatientController {
	return &PatientController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// PatientRequest is the create/update body
type PatientRequest struct {
	MaYTe       string  `json:"maYTe" binding:"required" example:"BN001"`
	TenBenhNhan string  `json:"tenBenhNhan" binding:"required" example:"Nguyễn Văn A"`
	NgaySinh    *string `json:"ngaySinh" example:"1950-04-12"`
	GioiTinh    *string `json:"gioiTinh" example:"Nam"`
	DiaChi      *string `json:"diaChi" example:"Hà Nội"`
	SoDienThoai *string `json:"soDienThoai" example:"0912345678"`
	Room        *string `json:"room" example:"302"`
}

func (r *PatientRequest) toModel() *models.Patient {
	return &models.Patient{
		MaYTe:       r.MaYTe,
		TenBenhNhan: r.TenBenhNhan,
		NgaySinh:    r.NgaySinh,
		GioiTinh:    r.GioiTinh,
		DiaChi:      r.DiaChi,
		SoDienThoai: r.SoDienThoai,
		Room:        r.Room,
	}
}

// GetPatients returns a page of the patient directory
// @Summary      List patients
// @Tags         Patients
// @Produce      json
// @Param        page     query int    false "Page number"    default(1)
// @Param        pageSize query int    false "Items per page" default(10)
// @Param        search   query string false "Name or maYTe filter"
// @Success      200  {object}  response.Response
// @Router       /patients [get]
func (c *PatientController) GetPatients() {
	page, _ := strconv.Atoi(c.Context.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Context.DefaultQuery("pageSize", "10"))
	search := c.Context.Query("search")

	patients, total, err := c.Container.GetPatientService().GetPatients(page, pageSize, search)
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, gin.H{
		"items":      patients,
		"pagination": models.NewPaginationResult(int(total), page, pageSize),
	})
}

// GetPatientByID returns one patient by primary key
// @Summary      Get patient
// @Tags         Patients
// @Produce      json
// @Param        id path int true "Patient ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /patient/{id} [get]
func (c *PatientController) GetPatientByID() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "id không hợp lệ")
		return
	}

	patient, err := c.Container.GetPatientService().GetPatientByID(uint(id))
	if err != nil {
		c.failPatient(err)
		return
	}
	response.Success(c.Context, patient)
}

// GetPatientByMaYTe returns one patient by medical code. The AI module
// uses this after a face match to show who was recognized.
// @Summary      Get patient by medical code
// @Tags         Patients
// @Produce      json
// @Param        maYTe path string true "Medical code"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /patients/by-face-id/{maYTe} [get]
func (c *PatientController) GetPatientByMaYTe() {
	maYTe := c.Context.Param("maYTe")
	patient, err := c.Container.GetPatientService().GetPatientByMaYTe(maYTe)
	if err != nil {
		c.failPatient(err)
		return
	}
	response.Success(c.Context, patient)
}

// CreatePatient registers a new patient
// @Summary      Create patient
// @Tags         Patients
// @Accept       json
// @Produce      json
// @Param        request body PatientRequest true "Patient"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /patients [post]
func (c *PatientController) CreatePatient() {
	var req PatientRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, err.Error())
		return
	}

	patient := req.toModel()
	if err := c.Container.GetPatientService().CreatePatient(patient); err != nil {
		c.failPatient(err)
		return
	}
	response.Created(c.Context, patient)
}

// UpdatePatient updates a patient's directory fields
// @Summary      Update patient
// @Tags         Patients
// @Accept       json
// @Produce      json
// @Param        id      path int            true "Patient ID"
// @Param        request body PatientRequest true "Patient"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /patient/{id} [put]
func (c *PatientController) UpdatePatient() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "id không hợp lệ")
		return
	}

	var req PatientRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, err.Error())
		return
	}

	patient, err := c.Container.GetPatientService().UpdatePatient(uint(id), req.toModel())
	if err != nil {
		c.failPatient(err)
		return
	}
	response.Success(c.Context, patient)
}

// DeletePatient removes a patient and their face registrations
// @Summary      Delete patient
// @Tags         Patients
// @Produce      json
// @Param        id path int true "Patient ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /patient/{id} [delete]
func (c *PatientController) DeletePatient() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "id không hợp lệ")
		return
	}

	if err := c.Container.GetPatientService().DeletePatient(uint(id)); err != nil {
		c.failPatient(err)
		return
	}
	response.Success(c.Context, gin.H{"id": id})
}

// failPatient maps patient service errors onto the response envelope
func (c *PatientController) failPatient(err error) {
	switch {
	case errors.Is(err, services.ErrPatientNotFound):
		response.Fail(c.Context, code.ErrPatientNotFound, nil)
	case errors.Is(err, services.ErrPatientAlreadyExists):
		response.Fail(c.Context, code.ErrPatientAlreadyExist, nil)
	default:
		response.Fail(c.Context, code.ErrDatabase, nil)
	}
}

// HandlePatientFunc returns a gin handler dispatching to one patient method
func HandlePatientFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewPatientController(ctx)

		switch method {
		case "getPatients":
			controller.GetPatients()
		case "getPatientByID":
			controller.GetPatientByID()
		case "getPatientByMaYTe":
			controller.GetPatientByMaYTe()
		case "createPatient":
			controller.CreatePatient()
		case "updatePatient":
			controller.UpdatePatient()
		case "deletePatient":
			controller.DeletePatient()
		default:
			response.ParamError(ctx, "phương thức không hợp lệ")
		}
	}
}
