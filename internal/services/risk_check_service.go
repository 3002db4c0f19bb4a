package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Wikid82/phishwatch/internal/logger"
	"github.com/Wikid82/phishwatch/internal/metrics"
	"github.com/Wikid82/phishwatch/internal/models"
	"github.com/Wikid82/phishwatch/internal/util"
)

// SecurityChecksInput uses pointers so an absent key can be told apart from false.
type SecurityChecksInput struct {
	DomainFlagged *bool `json:"domain_flagged"`
	URLFlagged    *bool `json:"url_flagged"`
	AIFlagged     *bool `json:"ai_flagged"`
	NewDomain     *bool `json:"new_domain"`
}

// RecordCheckInput is a scoring result reported by the client.
type RecordCheckInput struct {
	URL            string               `json:"url"`
	RiskScore      *float64             `json:"risk_score"`
	SecurityChecks *SecurityChecksInput `json:"security_checks"`
}

// Requester is the verified identity of the caller recording a check.
type Requester struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// AllChecks is the admin view of the ledger.
type AllChecks struct {
	Checks       []models.RiskCheck `json:"url_checks"`
	ThreatChecks []models.RiskCheck `json:"threat_checks"`
	TotalScans   int                `json:"total_scans"`
}

// ScanStats aggregates the ledger for the admin dashboard.
type ScanStats struct {
	TotalScans  int64 `json:"total_scans"`
	ThreatScans int64 `json:"threat_scans"`
	ActiveUsers int64 `json:"active_users"`
}

type RiskCheckService struct {
	DB *gorm.DB
}

func NewRiskCheckService(db *gorm.DB) *RiskCheckService {
	return &RiskCheckService{DB: db}
}

// Record validates and appends a scoring result for the requester.
func (s *RiskCheckService) Record(ctx context.Context, in RecordCheckInput, requester Requester) (*models.RiskCheck, error) {
	checks, err := validateRecordCheck(in, requester)
	if err != nil {
		return nil, err
	}

	check := &models.RiskCheck{
		URL:             strings.TrimSpace(in.URL),
		RiskScore:       *in.RiskScore,
		SecurityChecks:  checks,
		RequestedUserID: requester.ID,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertUser(tx, requester); err != nil {
			return err
		}
		return tx.Create(check).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record risk check: %w", err)
	}

	metrics.IncRiskCheckRecorded(check.IsThreat())
	logger.Log().WithField("user_id", requester.ID).
		WithField("url", util.SanitizeForLog(check.URL)).
		WithField("risk_score", check.RiskScore).
		Info("risk check recorded")
	return check, nil
}

// ListForUser returns the user's checks, most recently updated first.
func (s *RiskCheckService) ListForUser(ctx context.Context, userID string) ([]models.RiskCheck, error) {
	checks := []models.RiskCheck{}
	if err := s.DB.WithContext(ctx).
		Where("requested_user_id = ?", userID).
		Order("updated_at desc").
		Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("list risk checks: %w", err)
	}
	if checks == nil {
		checks = []models.RiskCheck{}
	}
	return checks, nil
}

// ListAll returns every check with the requester's name and email joined in.
func (s *RiskCheckService) ListAll(ctx context.Context) (*AllChecks, error) {
	checks := []models.RiskCheck{}
	if err := s.DB.WithContext(ctx).
		Preload("RequestedUser", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Order("created_at desc").
		Find(&checks).Error; err != nil {
		return nil, fmt.Errorf("list all risk checks: %w", err)
	}

	threats := []models.RiskCheck{}
	for _, c := range checks {
		if c.IsThreat() {
			threats = append(threats, c)
		}
	}

	return &AllChecks{Checks: checks, ThreatChecks: threats, TotalScans: len(checks)}, nil
}

// Stats counts scans, threats and distinct requesters.
func (s *RiskCheckService) Stats(ctx context.Context) (*ScanStats, error) {
	var stats ScanStats
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.RiskCheck{}).Count(&stats.TotalScans).Error; err != nil {
		return nil, fmt.Errorf("count scans: %w", err)
	}
	if err := db.Model(&models.RiskCheck{}).
		Where("risk_score >= ?", models.ThreatScoreThreshold).
		Count(&stats.ThreatScans).Error; err != nil {
		return nil, fmt.Errorf("count threats: %w", err)
	}
	if err := db.Model(&models.RiskCheck{}).
		Distinct("requested_user_id").
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &stats, nil
}

func validateRecordCheck(in RecordCheckInput, requester Requester) (models.SecurityChecks, error) {
	if strings.TrimSpace(requester.ID) == "" {
		return models.SecurityChecks{}, validationErrorf("user id is required")
	}
	if strings.TrimSpace(in.URL) == "" || in.RiskScore == nil {
		return models.SecurityChecks{}, validationErrorf("Missing required fields")
	}
	if *in.RiskScore < 0 {
		return models.SecurityChecks{}, validationErrorf("risk_score must not be negative")
	}

	sc := in.SecurityChecks
	if sc == nil || sc.DomainFlagged == nil || sc.URLFlagged == nil || sc.AIFlagged == nil || sc.NewDomain == nil {
		return models.SecurityChecks{}, validationErrorf("Invalid security checks format")
	}

	return models.SecurityChecks{
		DomainFlagged: *sc.DomainFlagged,
		URLFlagged:    *sc.URLFlagged,
		AIFlagged:     *sc.AIFlagged,
		NewDomain:     *sc.NewDomain,
	}, nil
}

// upsertUser refreshes the requester's display identity from their claims.
func upsertUser(tx *gorm.DB, r Requester) error {
	role := r.Role
	if role == "" {
		role = models.RoleUser
	}
	user := models.User{ID: r.ID, Name: r.Name, Email: r.Email, Role: role}

	// Claims without a name or email keep what is already stored.
	columns := []string{"role", "updated_at"}
	if user.Name != "" {
		columns = append(columns, "name")
	}
	if user.Email != "" {
		columns = append(columns, "email")
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&user).Error
}
