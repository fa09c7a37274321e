package domain

import "time"

// Operator is a dashboard account that can triage reviews
type Operator struct {
	ID        string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Email     string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Name      string     `gorm:"column:name;size:100" json:"name"`
	Password  string     `gorm:"column:password;size:255;not null" json:"-"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}

// TableName returns the table name
func (Operator) TableName() string {
	return "operators"
}

// OperatorResponse is the operator shape returned to clients (no password hash)
type OperatorResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// ToResponse strips credentials
func (o *Operator) ToResponse() *OperatorResponse {
	return &OperatorResponse{
		ID:    o.ID,
		Email: o.Email,
		Name:  o.Name,
	}
}
