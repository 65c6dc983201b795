package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/club-finance/internal/auth"
	memberDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/member"
	"github.com/frahmantamala/club-finance/internal/dues"
	duesPostgres "github.com/frahmantamala/club-finance/internal/dues/postgres"
	"github.com/frahmantamala/club-finance/internal/member"
)

var (
	clearData    bool
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one member per role and an active dues cycle for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		ctx := context.Background()
		defer deps.Close(ctx)

		if clearData {
			if err := clearSeedData(deps.Gorm); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := auth.HashPassword(seedPassword, deps.Config.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		seeds := []struct {
			Email     string
			FirstName string
			LastName  string
			Role      auth.Role
			Status    member.Status
		}{
			{"admin@club.test", "Ada", "Admin", auth.RoleAdmin, member.StatusActive},
			{"treasurer@club.test", "Tess", "Treasurer", auth.RoleTreasurer, member.StatusActive},
			{"president@club.test", "Priya", "President", auth.RolePresident, member.StatusActive},
			{"member@club.test", "Milo", "Member", auth.RoleMember, member.StatusActive},
			{"newcomer@club.test", "", "", auth.RoleMember, member.StatusPendingProfile},
		}

		now := time.Now().UTC()
		for _, s := range seeds {
			row := memberDatamodel.Member{
				ID:           uuid.NewString(),
				Email:        s.Email,
				FirstName:    s.FirstName,
				LastName:     s.LastName,
				PasswordHash: hash,
				Role:         string(s.Role),
				Status:       string(s.Status),
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			res := deps.Gorm.WithContext(ctx).
				Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
				Create(&row)
			if res.Error != nil {
				log.Fatalf("failed to insert member %s: %v", s.Email, res.Error)
			}
			if res.RowsAffected == 0 {
				fmt.Println("member already exists:", s.Email)
				continue
			}
			fmt.Printf("Seeded %s member: %s\n", s.Role, s.Email)
		}

		cycles := duesPostgres.NewCycleRepository(deps.Gorm)
		if active, err := cycles.GetActive(ctx); err == nil {
			fmt.Println("active dues cycle already exists:", active.ID)
			return
		}

		var adminID string
		if err := deps.Gorm.WithContext(ctx).Raw("SELECT id FROM members WHERE email = ?", seeds[0].Email).Row().Scan(&adminID); err != nil {
			log.Fatalf("failed to lookup admin member id: %v", err)
		}

		cycle := &dues.Cycle{
			ID:        uuid.NewString(),
			StartDate: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
			Amount:    5000,
			IsActive:  true,
			CreatedBy: adminID,
			CreatedAt: now,
		}
		if err := cycles.CreateActive(ctx, cycle); err != nil {
			log.Fatalf("failed to create dues cycle: %v", err)
		}
		fmt.Printf("Seeded active dues cycle %s ending %s\n", cycle.ID, cycle.EndDate.Format("2006-01-02"))
	},
}

func clearSeedData(db *gorm.DB) error {
	tables := []string{
		"dues_notifications",
		"member_dues",
		"dues_cycles",
		"payment_confirmations",
		"expenses",
		"activities",
		"members",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password", "Password for every seeded member")
}
