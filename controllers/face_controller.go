package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"icare-http-service/internal/error/code"
	"icare-http-service/internal/error/response"
	"icare-http-service/services"
	"icare-http-service/services/container"
	"icare-http-service/utils"
)

// FaceController handles face recognition support endpoints: the daily
// detection log and the embedding gallery
type FaceController struct {
	BaseControllerImpl
}

// NewFaceController creates a new face controller
func (f *ControllerFactory) NewFaceController(ctx *gin.Context) *FaceController {
	return &FaceController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// DetectionRequest is the body the AI module posts on a recognized face
type DetectionRequest struct {
	MaYTe           string  `json:"maYTe" binding:"required" example:"BN001"`
	DisplayNameHint string  `json:"displayNameHint"` // fallback name when the code is not in the directory
	Confidence      float64 `json:"confidence" example:"0.97"`
	CameraID        string  `json:"cameraId" example:"cam-302"`
	Location        string  `json:"location" example:"Phòng 302"`
	Note            string  `json:"note"`
	DetectedAt      *string `json:"detectedAt" example:"2025-06-01T08:30:00Z"` // RFC3339, defaults to receipt time
}

// RegisterFaceRequest registers one embedding for a patient. The AI
// module uploads the components under embedding; vector is kept as an
// alias for the dashboard upload form.
type RegisterFaceRequest struct {
	MaYTe     string    `json:"maYTe" binding:"required" example:"BN001"`
	Embedding []float64 `json:"embedding"`
	Vector    []float64 `json:"vector"`
	ModelName string    `json:"modelName" example:"Facenet512"`
	ImagePath *string   `json:"imagePath"`
}

// components returns the embedding regardless of which key the client
// used
func (r *RegisterFaceRequest) components() []float64 {
	if len(r.Embedding) > 0 {
		return r.Embedding
	}
	return r.Vector
}

// RecordDetection logs a face sighting, once per patient per day
// @Summary      Report a face detection
// @Description  Records the sighting unless the patient was already recorded today
// @Tags         Face
// @Accept       json
// @Produce      json
// @Param        request body DetectionRequest true "Detection"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /face/detection [post]
func (c *FaceController) RecordDetection() {
	var req DetectionRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, err.Error())
		return
	}

	input := services.DetectionInput{
		MaYTe:           req.MaYTe,
		DisplayNameHint: req.DisplayNameHint,
		Confidence:      req.Confidence,
		CameraID:        req.CameraID,
		Location:        req.Location,
		Note:            req.Note,
	}
	if req.DetectedAt != nil && *req.DetectedAt != "" {
		ts, err := time.Parse(time.RFC3339, *req.DetectedAt)
		if err != nil {
			response.ParamError(c.Context, "detectedAt phải theo định dạng RFC3339")
			return
		}
		input.DetectedAt = &ts
	}

	outcome, err := c.Container.GetDetectionService().RecordDetection(input)
	if err != nil {
		if errors.Is(err, services.ErrDetectionMissingKey) || errors.Is(err, services.ErrInvalidConfidence) {
			response.ParamError(c.Context, err.Error())
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	// The AI module reads these beside the success flag, not under data
	response.SuccessFields(c.Context, gin.H{
		"patientName":     outcome.PatientName,
		"alreadyRecorded": outcome.AlreadyRecorded,
	})
}

// GetTodayDetections returns today's detection records
// @Summary      Today's detections
// @Tags         Face
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /face/detections/today [get]
func (c *FaceController) GetTodayDetections() {
	records, err := c.Container.GetDetectionService().GetTodayDetections()
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, records)
}

// GetTodayDetectedKeys returns the medical codes already recorded today
// @Summary      Today's detected medical codes
// @Description  The AI module polls this to skip already-reported patients
// @Tags         Face
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /face/detections/today/mayte-list [get]
func (c *FaceController) GetTodayDetectedKeys() {
	keys, err := c.Container.GetDetectionService().GetTodayDetectedKeys()
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, keys)
}

// ClearTodayDetections deletes today's detection records
// @Summary      Clear today's detections
// @Description  Operational reset; the next sighting of each patient is recorded again
// @Tags         Face
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /face/detections/today [delete]
func (c *FaceController) ClearTodayDetections() {
	deleted, err := c.Container.GetDetectionService().ClearToday()
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, gin.H{"deleted": deleted})
}

// GetRecentDetections returns the in-memory recent activity feed
// @Summary      Recent detection feed
// @Tags         Face
// @Produce      json
// @Param        limit query int false "Max entries" default(100)
// @Success      200  {object}  response.Response
// @Router       /face/detections/recent [get]
func (c *FaceController) GetRecentDetections() {
	limit, _ := strconv.Atoi(c.Context.DefaultQuery("limit", "0"))
	response.Success(c.Context, c.Container.GetDetectionService().RecentDetections(limit))
}

// RegisterFace stores a reference embedding for a patient
// @Summary      Register face embedding
// @Tags         Face
// @Accept       json
// @Produce      json
// @Param        request body RegisterFaceRequest true "Embedding"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /face/register [post]
func (c *FaceController) RegisterFace() {
	var req RegisterFaceRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, err.Error())
		return
	}

	vector := utils.Float64sToFloat32s(req.components())
	imageID, err := c.Container.GetFaceService().RegisterFace(req.MaYTe, vector, req.ModelName, req.ImagePath)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			response.Fail(c.Context, code.ErrPatientNotFound, nil)
		case errors.Is(err, services.ErrEmptyEmbedding):
			response.Fail(c.Context, code.ErrEmbeddingInvalid, nil)
		default:
			response.Fail(c.Context, code.ErrDatabase, nil)
		}
		return
	}
	response.Created(c.Context, gin.H{"imageId": imageID})
}

// GetAllEmbeddings returns the full gallery grouped by patient
// @Summary      Download all embeddings
// @Description  The AI module rebuilds its recognition index from this at startup
// @Tags         Face
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /face/embeddings [get]
func (c *FaceController) GetAllEmbeddings() {
	gallery, err := c.Container.GetFaceService().GetAllEmbeddings()
	if err != nil {
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, gallery)
}

// GetEmbeddingsByMaYTe returns one patient's embeddings
// @Summary      Download one patient's embeddings
// @Tags         Face
// @Produce      json
// @Param        maYTe path string true "Medical code"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /face/embeddings/by-patient/{maYTe} [get]
func (c *FaceController) GetEmbeddingsByMaYTe() {
	maYTe := c.Context.Param("maYTe")
	result, err := c.Container.GetFaceService().GetEmbeddingsByMaYTe(maYTe)
	if err != nil {
		if errors.Is(err, services.ErrPatientNotFound) {
			response.Fail(c.Context, code.ErrPatientNotFound, nil)
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, result)
}

// DeleteFaceImage removes one registered embedding
// @Summary      Delete face embedding
// @Tags         Face
// @Produce      json
// @Param        id path int true "Image ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /face/embeddings/{id} [delete]
func (c *FaceController) DeleteFaceImage() {
	id, err := strconv.ParseUint(c.Context.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(c.Context, "id không hợp lệ")
		return
	}

	if err := c.Container.GetFaceService().DeleteFaceImage(uint(id)); err != nil {
		if errors.Is(err, services.ErrFaceImageNotFound) {
			response.Fail(c.Context, code.ErrFaceImageNotFound, nil)
			return
		}
		response.Fail(c.Context, code.ErrDatabase, nil)
		return
	}
	response.Success(c.Context, gin.H{"id": id})
}

// HandleFaceFunc returns a gin handler dispatching to one face method
func HandleFaceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewFaceController(ctx)

		switch method {
		case "recordDetection":
			controller.RecordDetection()
		case "getTodayDetections":
			controller.GetTodayDetections()
		case "getTodayDetectedKeys":
			controller.GetTodayDetectedKeys()
		case "clearTodayDetections":
			controller.ClearTodayDetections()
		case "getRecentDetections":
			controller.GetRecentDetections()
		case "registerFace":
			controller.RegisterFace()
		case "getAllEmbeddings":
			controller.GetAllEmbeddings()
		case "getEmbeddingsByMaYTe":
			controller.GetEmbeddingsByMaYTe()
		case "deleteFaceImage":
			controller.DeleteFaceImage()
		default:
			response.ParamError(ctx, "phương thức không hợp lệ")
		}
	}
}
