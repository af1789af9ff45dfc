package postgres

import (
	"context"
	"errors"
	"time"

	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByIdentityID(ctx context.Context, identityID string) (*userDatamodel.User, error) {
	return r.first(ctx, "identity_id = ?", identityID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&count).Error
	return count, err
}

// CreateWithMembership inserts the user and, when given, its first company
// membership in one transaction.
func (r *UserRepository) CreateWithMembership(ctx context.Context, u *userDatamodel.User, membership *userDatamodel.UserCompany) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if membership != nil {
			membership.UserID = u.ID
			if err := tx.Create(membership).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Touch(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

type membershipRow struct {
	ID          string
	CompanyID   string
	CompanyName string
	Role        string
	IsActive    bool
	JoinedAt    time.Time
}

func (r *UserRepository) ListMemberships(ctx context.Context, userID string) ([]user.Membership, error) {
	var rows []membershipRow
	err := r.db.WithContext(ctx).
		Table(userDatamodel.UserCompany{}.TableName()+" uc").
		Select("uc.id, uc.company_id, c.name AS company_name, uc.role, uc.is_active, uc.joined_at").
		Joins("JOIN "+companyDatamodel.Company{}.TableName()+" c ON c.id = uc.company_id").
		Where("uc.user_id = ? AND uc.is_active = ? AND c.is_active = ?", userID, true, true).
		Order("uc.joined_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	memberships := make([]user.Membership, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, user.Membership{
			ID:          row.ID,
			CompanyID:   row.CompanyID,
			CompanyName: row.CompanyName,
			Role:        user.Role(row.Role),
			IsActive:    row.IsActive,
			JoinedAt:    row.JoinedAt,
		})
	}
	return memberships, nil
}

func (r *UserRepository) ListActive(ctx context.Context, roles []user.Role, companyIDs []string) ([]*userDatamodel.User, error) {
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("users.is_active = ?", true)

	if len(roles) > 0 {
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		q = q.Where("users.role IN ?", names)
	}

	if companyIDs != nil {
		members := r.db.Model(&userDatamodel.UserCompany{}).
			Select("user_id").
			Where("company_id IN ? AND is_active = ?", companyIDs, true)
		q = q.Where("users.id IN (?)", members)
	}

	var users []*userDatamodel.User
	err := q.Order("users.full_name ASC").Find(&users).Error
	return users, err
}

// IsActiveMember reports whether the user holds an active membership in the
// company.
func (r *UserRepository) IsActiveMember(ctx context.Context, userID, companyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.UserCompany{}).
		Where("user_id = ? AND company_id = ? AND is_active = ?", userID, companyID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ActiveCompanyIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.UserCompany{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("company_id", &ids).Error
	return ids, err
}
