package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/company-management/internal/auth"
	authPostgres "github.com/frahmantamala/company-management/internal/auth/postgres"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/identity"
	identityPostgres "github.com/frahmantamala/company-management/internal/identity/postgres"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedEmail    string
	seedPassword string
	seedName     string
	seedCompany  string
	seedCredits  int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a super admin and a demo company",
	Long:  `Create the first super admin account and a demo company it belongs to. Safe to run twice.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.Init(cfg.Server.Env, cfg.Observability.Logging.Level)
		lg := logger.LoggerWrapper()

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		users := userPostgres.NewUserRepository(gormDB)
		tokens := identity.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenIssuer, cfg.Security.TokenDuration)
		provider := identity.NewLocalProvider(identityPostgres.NewAccountRepository(gormDB), tokens, cfg.Security.BCryptCost, lg)
		authService := auth.NewService(users, authPostgres.NewDirectoryRepository(gormDB), provider, lg)

		existing, err := users.GetByEmail(ctx, seedEmail)
		if err != nil {
			log.Fatalf("failed to look up %s: %v", seedEmail, err)
		}

		var userID string
		if existing != nil {
			fmt.Println("super admin already exists; will ensure role and company:", seedEmail)
			userID = existing.ID
		} else {
			created, err := authService.Register(ctx, auth.RegisterDTO{
				Email:    seedEmail,
				Password: seedPassword,
				FullName: seedName,
			})
			if err != nil {
				log.Fatalf("failed to register super admin: %v", err)
			}
			userID = created.ID
			fmt.Println("Seeded super admin:", seedEmail)
		}

		if err := seedCompanyFor(ctx, gormDB, userID); err != nil {
			log.Fatalf("failed to seed company: %v", err)
		}
		fmt.Println("Seeding finished")
	},
}

func seedCompanyFor(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userDatamodel.User{}).
			Where("id = ?", userID).
			Update("role", string(user.RoleSuperAdmin)).Error; err != nil {
			return fmt.Errorf("promote user: %w", err)
		}

		var company companyDatamodel.Company
		err := tx.Where("name = ?", seedCompany).First(&company).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			company = companyDatamodel.Company{
				ID:           uuid.NewString(),
				Name:         seedCompany,
				IsActive:     true,
				TotalCredits: seedCredits,
			}
			if err := tx.Create(&company).Error; err != nil {
				return fmt.Errorf("create company: %w", err)
			}
			fmt.Println("Seeded company:", seedCompany)
		case err != nil:
			return fmt.Errorf("look up company: %w", err)
		}

		var count int64
		if err := tx.Model(&userDatamodel.UserCompany{}).
			Where("user_id = ? AND company_id = ?", userID, company.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("look up membership: %w", err)
		}
		if count > 0 {
			return nil
		}

		return tx.Create(&userDatamodel.UserCompany{
			ID:        uuid.NewString(),
			UserID:    userID,
			CompanyID: company.ID,
			Role:      string(user.RoleSuperAdmin),
			IsActive:  true,
			JoinedAt:  time.Now(),
		}).Error
	})
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@example.com", "super admin email")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "super admin password")
	seedCmd.Flags().StringVar(&seedName, "name", "Super Admin", "super admin full name")
	seedCmd.Flags().StringVar(&seedCompany, "company", "Demo Company", "demo company name")
	seedCmd.Flags().Int64Var(&seedCredits, "credits", 1000, "initial credits for a newly created demo company")
}
