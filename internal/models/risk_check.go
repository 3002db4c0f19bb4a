package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThreatScoreThreshold is the lowest risk score counted as a threat.
const ThreatScoreThreshold = 1

// SecurityChecks are the four flags reported by the scoring oracle.
type SecurityChecks struct {
	DomainFlagged bool `json:"domain_flagged"`
	URLFlagged    bool `json:"url_flagged"`
	AIFlagged     bool `json:"ai_flagged"`
	NewDomain     bool `json:"new_domain"`
}

// RiskCheck is one scored URL submission. Rows are append-only.
type RiskCheck struct {
	ID              string         `json:"id" gorm:"primaryKey"`
	URL             string         `json:"url" gorm:"not null"`
	RiskScore       float64        `json:"risk_score" gorm:"not null;index"`
	SecurityChecks  SecurityChecks `json:"security_checks" gorm:"embedded;embeddedPrefix:check_"`
	RequestedUserID string         `json:"requested_user_id" gorm:"not null;index"`
	RequestedUser   *User          `json:"requested_user,omitempty" gorm:"foreignKey:RequestedUserID;references:ID"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (r *RiskCheck) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// IsThreat reports whether the check scored at or above the threat threshold.
func (r *RiskCheck) IsThreat() bool {
	return r.RiskScore >= ThreatScoreThreshold
}
