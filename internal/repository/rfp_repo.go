package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RFPRepository is the storage interface for RFPs and their send records.
type RFPRepository interface {
	CreateRFP(ctx context.Context, rfp models.RFP) (*models.RFP, error)
	GetRFP(ctx context.Context, rfpId int64) (*models.RFP, error)
	ListRFPs(ctx context.Context, status string) ([]models.RFP, error)
	EditRFP(ctx context.Context, rfpId int64, updateFields map[string]interface{}) (*models.RFP, error)
	UpdateRFPStatus(ctx context.Context, rfpId int64, status models.RFPStatus) error
	DeleteRFP(ctx context.Context, rfpId int64) error
	UpsertSendRecord(ctx context.Context, record models.RFPVendor) error
}

const rfpColumns = `id, title, description, requirements, budget, deadline, evaluation_criteria,
	special_requirements, status, created_at, updated_at`

// editableRFPColumns maps request fields to columns; jsonb columns are marked true.
var editableRFPColumns = map[string]struct {
	column string
	json   bool
}{
	"title":               {"title", false},
	"description":         {"description", false},
	"budget":              {"budget", false},
	"deadline":            {"deadline", false},
	"specialRequirements": {"special_requirements", false},
	"status":              {"status", false},
	"requirements":        {"requirements", true},
	"evaluationCriteria":  {"evaluation_criteria", true},
}

// PostgresRFPRepository implements RFPRepository on PostgreSQL.
type PostgresRFPRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRFPRepository creates a PostgresRFPRepository.
func NewPostgresRFPRepository(db *pgxpool.Pool) *PostgresRFPRepository {
	return &PostgresRFPRepository{DB: db}
}

func scanRFP(row scanner) (*models.RFP, error) {
	var rfp models.RFP
	err := row.Scan(
		&rfp.ID,
		&rfp.Title,
		&rfp.Description,
		&rfp.Requirements,
		&rfp.Budget,
		&rfp.Deadline,
		&rfp.EvaluationCriteria,
		&rfp.SpecialRequirements,
		&rfp.Status,
		&rfp.CreatedAt,
		&rfp.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if rfp.Requirements == nil {
		rfp.Requirements = []models.Requirement{}
	}
	if rfp.EvaluationCriteria == nil {
		rfp.EvaluationCriteria = []string{}
	}
	return &rfp, nil
}

// CreateRFP inserts a new RFP.
func (r *PostgresRFPRepository) CreateRFP(ctx context.Context, rfp models.RFP) (*models.RFP, error) {
	if rfp.Requirements == nil {
		rfp.Requirements = []models.Requirement{}
	}
	if rfp.EvaluationCriteria == nil {
		rfp.EvaluationCriteria = []string{}
	}
	if rfp.Status == "" {
		rfp.Status = models.DraftRFP
	}
	query := `INSERT INTO rfp (title, description, requirements, budget, deadline, evaluation_criteria, special_requirements, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING ` + rfpColumns
	return scanRFP(r.DB.QueryRow(
		ctx,
		query,
		rfp.Title,
		rfp.Description,
		rfp.Requirements,
		rfp.Budget,
		rfp.Deadline,
		rfp.EvaluationCriteria,
		rfp.SpecialRequirements,
		rfp.Status))
}

// GetRFP returns an RFP by id.
func (r *PostgresRFPRepository) GetRFP(ctx context.Context, rfpId int64) (*models.RFP, error) {
	query := `SELECT ` + rfpColumns + ` FROM rfp WHERE id = $1`
	return scanRFP(r.DB.QueryRow(ctx, query, rfpId))
}

// ListRFPs returns RFPs newest first, optionally filtered by status.
func (r *PostgresRFPRepository) ListRFPs(ctx context.Context, status string) ([]models.RFP, error) {
	query := `SELECT ` + rfpColumns + ` FROM rfp`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rfps := []models.RFP{}
	for rows.Next() {
		rfp, err := scanRFP(rows)
		if err != nil {
			return nil, err
		}
		rfps = append(rfps, *rfp)
	}
	return rfps, rows.Err()
}

// EditRFP updates the given fields of an RFP.
func (r *PostgresRFPRepository) EditRFP(ctx context.Context, rfpId int64, updateFields map[string]interface{}) (*models.RFP, error) {
	var updates []string
	args := []interface{}{rfpId}
	argIndex := 2

	for field, value := range updateFields {
		col, ok := editableRFPColumns[field]
		if !ok {
			continue
		}
		if col.json {
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", field, err)
			}
			value = string(encoded)
		}
		updates = append(updates, fmt.Sprintf("%s = $%d", col.column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if len(updates) == 0 {
		return nil, ErrNoFields
	}

	updates = append(updates, "updated_at = now()")
	query := fmt.Sprintf("UPDATE rfp SET %s WHERE id = $1 RETURNING %s", strings.Join(updates, ", "), rfpColumns)
	return scanRFP(r.DB.QueryRow(ctx, query, args...))
}

// UpdateRFPStatus changes the lifecycle status of an RFP.
func (r *PostgresRFPRepository) UpdateRFPStatus(ctx context.Context, rfpId int64, status models.RFPStatus) error {
	tag, err := r.DB.Exec(ctx, `UPDATE rfp SET status = $1, updated_at = now() WHERE id = $2`, status, rfpId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteRFP removes an RFP together with its proposals and send records.
func (r *PostgresRFPRepository) DeleteRFP(ctx context.Context, rfpId int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM rfp WHERE id = $1`, rfpId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertSendRecord stores the delivery status of an RFP email to a vendor.
// A failed delivery keeps the previous sent_at.
func (r *PostgresRFPRepository) UpsertSendRecord(ctx context.Context, record models.RFPVendor) error {
	if record.EmailStatus == models.SentEmail && record.SentAt == nil {
		now := time.Now().UTC()
		record.SentAt = &now
	}
	query := `INSERT INTO rfp_vendor (rfp_id, vendor_id, sent_at, email_status)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (rfp_id, vendor_id) DO UPDATE SET
	              sent_at = COALESCE(EXCLUDED.sent_at, rfp_vendor.sent_at),
	              email_status = EXCLUDED.email_status`
	_, err := r.DB.Exec(ctx, query, record.RFPID, record.VendorID, record.SentAt, record.EmailStatus)
	return err
}
