package models

import (
	"time"
)

// Patient represents a registered patient in the hospital directory.
// JSON keys follow the wire names used by the AI module and the
// dashboard frontend (maYTe is the hospital-issued medical code).
type Patient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MaYTe       string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"maYTe"`
	TenBenhNhan string    `gorm:"type:varchar(100);not null" json:"tenBenhNhan"`
	NgaySinh    *string   `gorm:"type:varchar(20)" json:"ngaySinh,omitempty"`
	GioiTinh    *string   `gorm:"type:varchar(10)" json:"gioiTinh,omitempty"`
	DiaChi      *string   `gorm:"type:varchar(200)" json:"diaChi,omitempty"`
	SoDienThoai *string   `gorm:"type:varchar(20)" json:"soDienThoai,omitempty"`
	Room        *string   `gorm:"type:varchar(50)" json:"room,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	FaceImages []FaceImage `gorm:"foreignKey:MaYTe;references:MaYTe" json:"face_images,omitempty"`
}
