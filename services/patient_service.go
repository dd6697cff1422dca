package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"icare-http-service/config"
	"icare-http-service/models"
)

// Sentinel errors shared by the service layer
var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPatientAlreadyExists = errors.New("patient with this maYTe already exists")
)

// InterfacePatientService defines the patient directory interface
type InterfacePatientService interface {
	GetPatients(page, pageSize int, search string) ([]models.Patient, int64, error)
	GetPatientByID(id uint) (*models.Patient, error)
	GetPatientByMaYTe(maYTe string) (*models.Patient, error)
	ResolvePatientName(maYTe string) string
	CreatePatient(patient *models.Patient) error
	UpdatePatient(id uint, patient *models.Patient) (*models.Patient, error)
	DeletePatient(id uint) error
}

// PatientService provides the patient directory used by the dashboard
// CRUD surface and by the two ingest paths for name resolution
type PatientService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPatientService creates a new patient service
func NewPatientService(db *gorm.DB, cfg *config.Config) InterfacePatientService {
	return &PatientService{DB: db, Config: cfg}
}

// GetPatients returns a page of patients, optionally filtered by a
// case-insensitive search over name and maYTe
func (s *PatientService) GetPatients(page, pageSize int, search string) ([]models.Patient, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	query := s.DB.Model(&models.Patient{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("ten_benh_nhan LIKE ? OR ma_y_te LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var patients []models.Patient
	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").Limit(pageSize).Offset(offset).Find(&patients).Error; err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

// GetPatientByID returns one patient by primary key
func (s *PatientService) GetPatientByID(id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := s.DB.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// GetPatientByMaYTe returns one patient by medical code
func (s *PatientService) GetPatientByMaYTe(maYTe string) (*models.Patient, error) {
	var patient models.Patient
	if err := s.DB.Where("ma_y_te = ?", maYTe).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &patient, nil
}

// ResolvePatientName looks up the display name for a medical code.
// Lookups are best-effort: any failure (missing patient, store error)
// degrades to "Unknown" so an ingest path never fails on resolution.
func (s *PatientService) ResolvePatientName(maYTe string) string {
	if maYTe == "" {
		return "Unknown"
	}
	patient, err := s.GetPatientByMaYTe(maYTe)
	if err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			config.Warning("[Patient] name lookup for %s failed: %v", maYTe, err)
		}
		return "Unknown"
	}
	return patient.TenBenhNhan
}

// CreatePatient inserts a new patient; maYTe must be unique
func (s *PatientService) CreatePatient(patient *models.Patient) error {
	var count int64
	if err := s.DB.Model(&models.Patient{}).Where("ma_y_te = ?", patient.MaYTe).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPatientAlreadyExists
	}
	return s.DB.Create(patient).Error
}

// UpdatePatient updates an existing patient's directory fields
func (s *PatientService) UpdatePatient(id uint, update *models.Patient) (*models.Patient, error) {
	patient, err := s.GetPatientByID(id)
	if err != nil {
		return nil, err
	}

	patient.TenBenhNhan = update.TenBenhNhan
	patient.NgaySinh = update.NgaySinh
	patient.GioiTinh = update.GioiTinh
	patient.DiaChi = update.DiaChi
	patient.SoDienThoai = update.SoDienThoai
	patient.Room = update.Room

	if err := s.DB.Save(patient).Error; err != nil {
		return nil, err
	}
	return patient, nil
}

// DeletePatient removes a patient and their registered face images
func (s *PatientService) DeletePatient(id uint) error {
	patient, err := s.GetPatientByID(id)
	if err != nil {
		return err
	}
	if err := s.DB.Where("ma_y_te = ?", patient.MaYTe).Delete(&models.FaceImage{}).Error; err != nil {
		return err
	}
	return s.DB.Delete(patient).Error
}
