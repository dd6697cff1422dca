package services

import (
	"errors"

	"gorm.io/gorm"

	"icare-http-service/config"
	"icare-http-service/models"
	"icare-http-service/utils"
)

// Sentinel errors for face registration
var (
	ErrFaceImageNotFound = errors.New("face image not found")
	ErrEmptyEmbedding    = errors.New("embedding vector is empty")
)

// InterfaceFaceService defines the face embedding store interface
type InterfaceFaceService interface {
	RegisterFace(maYTe string, vector []float32, modelName string, imagePath *string) (uint, error)
	GetAllEmbeddings() ([]models.PatientEmbeddings, error)
	GetEmbeddingsByMaYTe(maYTe string) (*models.PatientEmbeddings, error)
	DeleteFaceImage(id uint) error
}

// FaceService stores reference face embeddings for the recognition
// pipeline. Vectors are kept as packed bytes; the AI module pulls the
// whole gallery at startup and rebuilds its index client-side.
type FaceService struct {
	DB       *gorm.DB
	Config   *config.Config
	Patients InterfacePatientService
}

// NewFaceService creates a new face service
func NewFaceService(db *gorm.DB, cfg *config.Config, patients InterfacePatientService) InterfaceFaceService {
	return &FaceService{DB: db, Config: cfg, Patients: patients}
}

// RegisterFace stores one embedding for an existing patient and returns
// the new image id
func (s *FaceService) RegisterFace(maYTe string, vector []float32, modelName string, imagePath *string) (uint, error) {
	if len(vector) == 0 {
		return 0, ErrEmptyEmbedding
	}
	if _, err := s.Patients.GetPatientByMaYTe(maYTe); err != nil {
		return 0, err
	}

	image := models.FaceImage{
		MaYTe:     maYTe,
		Embedding: utils.EncodeEmbedding(vector),
		ImagePath: imagePath,
	}
	if modelName != "" {
		image.ModelName = modelName
	}
	if err := s.DB.Create(&image).Error; err != nil {
		return 0, err
	}

	config.Info("[Face] registered embedding %d for %s (%d dims)", image.ID, maYTe, len(vector))
	return image.ID, nil
}

// GetAllEmbeddings returns the full gallery grouped by patient
func (s *FaceService) GetAllEmbeddings() ([]models.PatientEmbeddings, error) {
	var images []models.FaceImage
	if err := s.DB.Order("ma_y_te, id").Find(&images).Error; err != nil {
		return nil, err
	}

	grouped := []models.PatientEmbeddings{}
	index := map[string]int{}
	for _, image := range images {
		vector, err := utils.DecodeEmbedding(image.Embedding)
		if err != nil {
			// A corrupt row must not take the whole gallery down
			config.Error("[Face] skipping corrupt embedding %d for %s: %v", image.ID, image.MaYTe, err)
			continue
		}

		i, ok := index[image.MaYTe]
		if !ok {
			grouped = append(grouped, models.PatientEmbeddings{
				MaYTe:       image.MaYTe,
				TenBenhNhan: s.Patients.ResolvePatientName(image.MaYTe),
			})
			i = len(grouped) - 1
			index[image.MaYTe] = i
		}
		grouped[i].Embeddings = append(grouped[i].Embeddings, models.EmbeddingEntry{
			ID:        image.ID,
			Vector:    vector,
			ModelName: image.ModelName,
		})
	}
	return grouped, nil
}

// GetEmbeddingsByMaYTe returns one patient's embeddings
func (s *FaceService) GetEmbeddingsByMaYTe(maYTe string) (*models.PatientEmbeddings, error) {
	if _, err := s.Patients.GetPatientByMaYTe(maYTe); err != nil {
		return nil, err
	}

	var images []models.FaceImage
	if err := s.DB.Where("ma_y_te = ?", maYTe).Order("id").Find(&images).Error; err != nil {
		return nil, err
	}

	result := &models.PatientEmbeddings{
		MaYTe:       maYTe,
		TenBenhNhan: s.Patients.ResolvePatientName(maYTe),
	}
	for _, image := range images {
		vector, err := utils.DecodeEmbedding(image.Embedding)
		if err != nil {
			config.Error("[Face] skipping corrupt embedding %d for %s: %v", image.ID, maYTe, err)
			continue
		}
		result.Embeddings = append(result.Embeddings, models.EmbeddingEntry{
			ID:        image.ID,
			Vector:    vector,
			ModelName: image.ModelName,
		})
	}
	return result, nil
}

// DeleteFaceImage removes one registered embedding
func (s *FaceService) DeleteFaceImage(id uint) error {
	result := s.DB.Delete(&models.FaceImage{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFaceImageNotFound
	}
	return nil
}
