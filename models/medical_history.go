package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	InterpretationText      = "text"
	InterpretationDiagnosis = "diagnosis"
)

// Interpretation is the tagged result of running a scan through an inference
// model: either free text or a structured diagnosis with a confidence score.
// Stored as JSONB so display logic never has to guess the shape.
type Interpretation struct {
	Kind       string  `json:"kind"`
	Text       string  `json:"text,omitempty"`
	Diagnosis  string  `json:"diagnosis,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

func TextInterpretation(text string) Interpretation {
	return Interpretation{Kind: InterpretationText, Text: text}
}

func DiagnosisInterpretation(diagnosis string, confidence float64) Interpretation {
	return Interpretation{Kind: InterpretationDiagnosis, Diagnosis: diagnosis, Confidence: confidence}
}

// Value implements the driver.Valuer interface
func (i Interpretation) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil // Return as string for JSONB type
}

// Scan implements the sql.Scanner interface
func (i *Interpretation) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Interpretation: unsupported type %T", value)
	}

	return json.Unmarshal(data, i)
}

type MedicalHistoryRecord struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	PatientID      uint           `json:"patient_id" gorm:"index"`
	Patient        User           `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	ScanRef        string         `json:"scan_ref"`
	ModelName      string         `json:"model_name"`
	Interpretation Interpretation `json:"interpretation" gorm:"type:jsonb"`
	AppointmentID  *uint          `json:"appointment_id"`
	RecordedAt     time.Time      `json:"recorded_at" gorm:"autoCreateTime"`
}
