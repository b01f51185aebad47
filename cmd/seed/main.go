package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sigeu/internal/config"
	"sigeu/internal/db"
	apperrors "sigeu/internal/errors"
	"sigeu/internal/logger"
	"sigeu/internal/model"
	"sigeu/internal/repository"
	"sigeu/internal/service"
)

// seedOrganizations are the external partners loaded into a fresh database.
var seedOrganizations = []service.OrganizationInput{
	{Name: "Fundación Cultural Andina", Email: strPtr("contacto@culturalandina.org"), Type: "Fundación", Description: strPtr("Promoción de actividades artísticas y culturales")},
	{Name: "Cámara de Comercio Regional", Email: strPtr("eventos@camararegional.org"), Type: "Empresa"},
	{Name: "Asociación de Egresados", Type: "Asociación", Phone: strPtr("6015550100")},
}

func main() {
	log := logger.New(logger.Config{Env: config.EnvDevelopment})
	log.Info().Msg("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.Options{Log: log})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Msg("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	orgRepo := repository.NewOrganizationRepository(gormDB)
	eventRepo := repository.NewEventRepository(gormDB)

	admin, created, err := seedAdmin(ctx, userRepo, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin")
	}
	if admin == nil {
		log.Warn().Msg("SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set, skipping admin")
	} else {
		log.Info().Str("email", admin.Email).Bool("created", created).Msg("admin ready")
	}

	orgs, skipped, err := seedOrgs(ctx, service.NewOrganizationService(orgRepo))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed organizations")
	}

	if admin != nil && created && len(orgs) > 0 {
		events := service.NewEventService(eventRepo, orgRepo)
		event, err := events.Create(ctx, sampleEvent(orgs[0].ID), admin.ID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed sample event")
		}
		log.Info().Uint("id", event.ID).Str("estado", string(event.Status)).Msg("sample event created")
	}

	log.Info().
		Int("organizations_created", len(orgs)).
		Int("organizations_existing", skipped).
		Msg("Seed completed successfully!")
}

// seedAdmin creates the bootstrap administrator unless the email is taken.
func seedAdmin(ctx context.Context, repo repository.UserRepository, email, password string) (*model.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, false, nil
	}

	existing, err := repo.FindActiveByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("error checking admin %s: %w", email, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Administrador",
		LastName:     "SIGEU",
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("error creating admin %s: %w", email, err)
	}
	return admin, true, nil
}

// seedOrgs registers the sample organizations, skipping names already taken.
func seedOrgs(ctx context.Context, svc service.OrganizationService) (created []*model.Organization, skipped int, err error) {
	for _, in := range seedOrganizations {
		org, err := svc.Create(ctx, in)
		if errors.Is(err, apperrors.ErrConflict) {
			skipped++
			continue
		}
		if err != nil {
			return created, skipped, fmt.Errorf("error creating organization %s: %w", in.Name, err)
		}
		created = append(created, org)
	}
	return created, skipped, nil
}

func sampleEvent(orgID uint) model.EventInput {
	start := time.Now().UTC().AddDate(0, 1, 0).Truncate(time.Hour)
	end := start.Add(3 * time.Hour)
	capacity := 200
	cost := decimal.NewFromInt(15000)
	return model.EventInput{
		Title:                  "Semana de la Ciencia",
		Description:            "Charlas y talleres abiertos a toda la comunidad universitaria",
		StartsAt:               &start,
		EndsAt:                 &end,
		Location:               "Auditorio principal",
		Capacity:               &capacity,
		EntryCost:              &cost,
		Category:               "Académico",
		ExternalOrganizationID: &orgID,
	}
}

func strPtr(s string) *string { return &s }
