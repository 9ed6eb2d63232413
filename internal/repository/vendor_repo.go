package repository

import (
	"context"

	"github.com/senyabanana/procurement-service/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// VendorRepository is the storage interface for vendors.
type VendorRepository interface {
	CreateVendor(ctx context.Context, vendorReq models.VendorRequest) (*models.Vendor, error)
	GetVendor(ctx context.Context, vendorId int64) (*models.Vendor, error)
	GetVendorByEmail(ctx context.Context, email string) (*models.Vendor, error)
	GetVendorsByIDs(ctx context.Context, vendorIds []int64) ([]models.Vendor, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, vendorId int64, vendorReq models.VendorRequest) (*models.Vendor, error)
	DeleteVendor(ctx context.Context, vendorId int64) error
}

const vendorColumns = `id, name, email, contact_person, phone, company_info, created_at`

// PostgresVendorRepository implements VendorRepository on PostgreSQL.
type PostgresVendorRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresVendorRepository creates a PostgresVendorRepository.
func NewPostgresVendorRepository(db *pgxpool.Pool) *PostgresVendorRepository {
	return &PostgresVendorRepository{DB: db}
}

func scanVendor(row scanner) (*models.Vendor, error) {
	var vendor models.Vendor
	err := row.Scan(
		&vendor.ID,
		&vendor.Name,
		&vendor.Email,
		&vendor.ContactPerson,
		&vendor.Phone,
		&vendor.CompanyInfo,
		&vendor.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &vendor, nil
}

func (r *PostgresVendorRepository) queryVendors(ctx context.Context, query string, args ...interface{}) ([]models.Vendor, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vendors := []models.Vendor{}
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, *vendor)
	}
	return vendors, rows.Err()
}

// CreateVendor inserts a vendor. A taken email yields ErrDuplicate.
func (r *PostgresVendorRepository) CreateVendor(ctx context.Context, vendorReq models.VendorRequest) (*models.Vendor, error) {
	query := `INSERT INTO vendor (name, email, contact_person, phone, company_info)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + vendorColumns
	return scanVendor(r.DB.QueryRow(
		ctx,
		query,
		vendorReq.Name,
		vendorReq.Email,
		vendorReq.ContactPerson,
		vendorReq.Phone,
		vendorReq.CompanyInfo))
}

// GetVendor returns a vendor by id.
func (r *PostgresVendorRepository) GetVendor(ctx context.Context, vendorId int64) (*models.Vendor, error) {
	return scanVendor(r.DB.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendor WHERE id = $1`, vendorId))
}

// GetVendorByEmail returns the vendor registered with exactly this email.
func (r *PostgresVendorRepository) GetVendorByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	return scanVendor(r.DB.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendor WHERE email = $1`, email))
}

// GetVendorsByIDs returns the vendors among the given ids that exist.
func (r *PostgresVendorRepository) GetVendorsByIDs(ctx context.Context, vendorIds []int64) ([]models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendor WHERE id = ANY($1) ORDER BY id`
	return r.queryVendors(ctx, query, pq.Array(vendorIds))
}

// ListVendors returns all vendors ordered by name.
func (r *PostgresVendorRepository) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	return r.queryVendors(ctx, `SELECT `+vendorColumns+` FROM vendor ORDER BY name`)
}

// UpdateVendor overwrites the vendor fields.
func (r *PostgresVendorRepository) UpdateVendor(ctx context.Context, vendorId int64, vendorReq models.VendorRequest) (*models.Vendor, error) {
	query := `UPDATE vendor SET name = $2, email = $3, contact_person = $4, phone = $5, company_info = $6
	          WHERE id = $1
	          RETURNING ` + vendorColumns
	return scanVendor(r.DB.QueryRow(
		ctx,
		query,
		vendorId,
		vendorReq.Name,
		vendorReq.Email,
		vendorReq.ContactPerson,
		vendorReq.Phone,
		vendorReq.CompanyInfo))
}

// DeleteVendor removes a vendor.
func (r *PostgresVendorRepository) DeleteVendor(ctx context.Context, vendorId int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM vendor WHERE id = $1`, vendorId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
