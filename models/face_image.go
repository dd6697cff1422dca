package models

// FaceImage stores one registered face embedding for a patient.
// The embedding is a fixed-length float32 vector packed little-endian,
// four bytes per component (512 components for Facenet512). The AI
// module downloads all embeddings at startup to run recognition locally.
type FaceImage struct {
	BaseModel
	MaYTe     string  `gorm:"type:varchar(50);index;not null" json:"maYTe"`
	Embedding []byte  `gorm:"type:mediumblob;not null" json:"-"`
	ModelName string  `gorm:"type:varchar(50);default:'Facenet512'" json:"modelName"`
	ImagePath *string `gorm:"type:varchar(255)" json:"imagePath,omitempty"`
}

// PatientEmbeddings groups a patient's embedding vectors for the
// AI module's bulk download endpoint.
type PatientEmbeddings struct {
	MaYTe       string           `json:"maYTe"`
	TenBenhNhan string           `json:"tenBenhNhan"`
	Embeddings  []EmbeddingEntry `json:"embeddings"`
}

// EmbeddingEntry is one decoded embedding vector
type EmbeddingEntry struct {
	ID        uint      `json:"id"`
	Vector    []float32 `json:"vector"`
	ModelName string    `json:"modelName"`
}
