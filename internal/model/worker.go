package model

import "time"

// Worker represents an employee record in the registry.
type Worker struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FirstName  string    `json:"first_name" gorm:"size:25;not null"`
	MiddleName string    `json:"middle_name" gorm:"size:25"`
	LastName   string    `json:"last_name" gorm:"size:25;not null"`
	Email      string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Position   string    `json:"position" gorm:"size:50;not null;index"`
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`
	HiredDate  time.Time `json:"hired_date" gorm:"<-:create;autoCreateTime"` // set once at creation
	UpdatedAt  time.Time `json:"updated_at"`

	// CreatedBy records the actor that created the record for audit purposes.
	// The reference is weak: deleting the user nulls it out.
	CreatedByID *uint `json:"created_by,omitempty" gorm:"index"`
	CreatedBy   *User `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}

// WorkerSummary is the list view of a worker. Email and creator are omitted.
type WorkerSummary struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	IsActive   bool   `json:"is_active"`
}

// Summary projects a worker onto its list view.
func (w *Worker) Summary() WorkerSummary {
	return WorkerSummary{
		ID:         w.ID,
		FirstName:  w.FirstName,
		MiddleName: w.MiddleName,
		LastName:   w.LastName,
		Position:   w.Position,
		IsActive:   w.IsActive,
	}
}
