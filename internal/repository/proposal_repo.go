package repository

import (
	"context"
	"fmt"

	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// ProposalScore is a comparison outcome to be stored on a proposal.
type ProposalScore struct {
	ProposalID int64
	Score      float64
	Analysis   models.Analysis
}

// ProposalRepository is the storage interface for proposals.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposal models.Proposal) (*models.Proposal, error)
	FindProposal(ctx context.Context, rfpId, vendorId int64) (*models.Proposal, error)
	GetProposal(ctx context.Context, proposalId int64) (*models.Proposal, error)
	ListProposalsByRFP(ctx context.Context, rfpId int64) ([]models.Proposal, error)
	GetProposalsByIDs(ctx context.Context, rfpId int64, proposalIds []int64) ([]models.Proposal, error)
	SaveScores(ctx context.Context, scores []ProposalScore) error
	UpdateProposalStatus(ctx context.Context, proposalId int64, status models.ProposalStatus) (*models.Proposal, error)
}

const proposalColumns = `p.id, p.rfp_id, p.vendor_id, p.pricing, p.total_cost, p.payment_terms, p.delivery_timeline,
	p.warranty, p.special_conditions, COALESCE(p.raw_email_content, ''), p.parsed_data, p.ai_score, p.ai_analysis,
	p.status, p.received_at, p.created_at`

const proposalWithVendor = `SELECT ` + proposalColumns + `,
	v.id, v.name, v.email, v.contact_person, v.phone, v.company_info, v.created_at
	FROM proposal p
	JOIN vendor v ON v.id = p.vendor_id`

// PostgresProposalRepository implements ProposalRepository on PostgreSQL.
type PostgresProposalRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresProposalRepository creates a PostgresProposalRepository.
func NewPostgresProposalRepository(db *pgxpool.Pool) *PostgresProposalRepository {
	return &PostgresProposalRepository{DB: db}
}

func proposalDest(p *models.Proposal) []any {
	return []any{
		&p.ID,
		&p.RFPID,
		&p.VendorID,
		&p.Pricing,
		&p.TotalCost,
		&p.PaymentTerms,
		&p.DeliveryTimeline,
		&p.Warranty,
		&p.SpecialConditions,
		&p.RawEmailContent,
		&p.ParsedData,
		&p.AIScore,
		&p.AIAnalysis,
		&p.Status,
		&p.ReceivedAt,
		&p.CreatedAt,
	}
}

func scanProposal(row scanner) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := row.Scan(proposalDest(&proposal)...); err != nil {
		return nil, mapError(err)
	}
	return &proposal, nil
}

func scanProposalWithVendor(row scanner) (*models.Proposal, error) {
	var proposal models.Proposal
	var vendor models.Vendor
	dest := append(proposalDest(&proposal),
		&vendor.ID,
		&vendor.Name,
		&vendor.Email,
		&vendor.ContactPerson,
		&vendor.Phone,
		&vendor.CompanyInfo,
		&vendor.CreatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, mapError(err)
	}
	proposal.Vendor = &vendor
	return &proposal, nil
}

func (r *PostgresProposalRepository) queryProposals(ctx context.Context, query string, args ...interface{}) ([]models.Proposal, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	proposals := []models.Proposal{}
	for rows.Next() {
		proposal, err := scanProposalWithVendor(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, *proposal)
	}
	return proposals, rows.Err()
}

// CreateProposal inserts a proposal. The (rfp_id, vendor_id) unique key turns
// a concurrent duplicate into ErrDuplicate.
func (r *PostgresProposalRepository) CreateProposal(ctx context.Context, proposal models.Proposal) (*models.Proposal, error) {
	if proposal.Pricing == nil {
		proposal.Pricing = []models.PricingItem{}
	}
	query := `INSERT INTO proposal AS p (rfp_id, vendor_id, pricing, total_cost, payment_terms, delivery_timeline,
	              warranty, special_conditions, raw_email_content, parsed_data, status, received_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (rfp_id, vendor_id) DO NOTHING
	          RETURNING ` + proposalColumns
	created, err := scanProposal(r.DB.QueryRow(
		ctx,
		query,
		proposal.RFPID,
		proposal.VendorID,
		proposal.Pricing,
		proposal.TotalCost,
		proposal.PaymentTerms,
		proposal.DeliveryTimeline,
		proposal.Warranty,
		proposal.SpecialConditions,
		proposal.RawEmailContent,
		proposal.ParsedData,
		proposal.Status,
		proposal.ReceivedAt))
	if err == ErrNotFound {
		return nil, ErrDuplicate
	}
	return created, err
}

// FindProposal returns the proposal of a vendor for an RFP.
func (r *PostgresProposalRepository) FindProposal(ctx context.Context, rfpId, vendorId int64) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposal p WHERE p.rfp_id = $1 AND p.vendor_id = $2`
	return scanProposal(r.DB.QueryRow(ctx, query, rfpId, vendorId))
}

// GetProposal returns a proposal with its vendor.
func (r *PostgresProposalRepository) GetProposal(ctx context.Context, proposalId int64) (*models.Proposal, error) {
	return scanProposalWithVendor(r.DB.QueryRow(ctx, proposalWithVendor+` WHERE p.id = $1`, proposalId))
}

// ListProposalsByRFP returns the proposals of an RFP, newest first.
func (r *PostgresProposalRepository) ListProposalsByRFP(ctx context.Context, rfpId int64) ([]models.Proposal, error) {
	query := proposalWithVendor + ` WHERE p.rfp_id = $1 ORDER BY p.received_at DESC NULLS LAST, p.id DESC`
	return r.queryProposals(ctx, query, rfpId)
}

// GetProposalsByIDs returns the proposals among proposalIds that belong to the RFP.
// Unknown ids are silently ignored.
func (r *PostgresProposalRepository) GetProposalsByIDs(ctx context.Context, rfpId int64, proposalIds []int64) ([]models.Proposal, error) {
	query := proposalWithVendor + ` WHERE p.rfp_id = $1 AND p.id = ANY($2) ORDER BY p.id`
	return r.queryProposals(ctx, query, rfpId, pq.Array(proposalIds))
}

// SaveScores writes all scores in one transaction.
func (r *PostgresProposalRepository) SaveScores(ctx context.Context, scores []ProposalScore) error {
	return pgx.BeginFunc(ctx, r.DB, func(tx pgx.Tx) error {
		for _, s := range scores {
			tag, err := tx.Exec(ctx,
				`UPDATE proposal SET ai_score = $1, ai_analysis = $2 WHERE id = $3`,
				s.Score, s.Analysis, s.ProposalID)
			if err != nil {
				return fmt.Errorf("save score for proposal %d: %w", s.ProposalID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("save score for proposal %d: %w", s.ProposalID, ErrNotFound)
			}
		}
		return nil
	})
}

// UpdateProposalStatus changes the review status of a proposal.
func (r *PostgresProposalRepository) UpdateProposalStatus(ctx context.Context, proposalId int64, status models.ProposalStatus) (*models.Proposal, error) {
	query := `UPDATE proposal AS p SET status = $1 WHERE p.id = $2 RETURNING ` + proposalColumns
	return scanProposal(r.DB.QueryRow(ctx, query, status, proposalId))
}
