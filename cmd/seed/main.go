package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/database"
	"stagedoor/internal/shared/utils/codes"
	"stagedoor/internal/shows"
	"stagedoor/internal/venues"
	"stagedoor/internal/vouchers"

	"github.com/google/uuid"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	fmt.Println("🌱 Starting Stagedoor Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, cfg: cfg}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"discounts",
		"vouchers",
		"tickets",
		"accounts",
		"reservations",
		"shows",
		"productions",
		"pricing_models",
		"seats",
		"seating_groups",
		"venues",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	venueID, groupIDs, err := s.SeedVenue()
	if err != nil {
		return fmt.Errorf("failed to seed venue: %w", err)
	}

	if err := s.SeedPricingModels(groupIDs); err != nil {
		return fmt.Errorf("failed to seed pricing models: %w", err)
	}

	if err := s.SeedShows(venueID); err != nil {
		return fmt.Errorf("failed to seed shows: %w", err)
	}

	if err := s.SeedVouchers(); err != nil {
		return fmt.Errorf("failed to seed vouchers: %w", err)
	}

	// Stale sessions and rate-limit windows from earlier runs would
	// point at truncated rows.
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedVenue creates the theater with two seating groups and their seats
func (s *Seeder) SeedVenue() (uuid.UUID, map[string]uuid.UUID, error) {
	fmt.Println("  🏛️ Seeding venue...")

	venue := venues.Venue{
		ID:          uuid.New(),
		Name:        "Gamla Teatern",
		Description: "Historic main stage with stalls and balcony seating",
		Address:     "Teatergatan 1, Stockholm",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&venue).Error; err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to create venue: %w", err)
	}
	fmt.Printf("    ✅ Created venue: %s\n", venue.Name)

	groupIDs := make(map[string]uuid.UUID)

	groupsData := []struct {
		key  string
		name string
		rows int
		cols int
	}{
		{"stalls", "Parkett", 4, 8},
		{"balcony", "Balkong", 2, 6},
	}

	for _, groupData := range groupsData {
		group := venues.SeatingGroup{
			ID:        uuid.New(),
			VenueID:   venue.ID,
			Name:      groupData.name,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&group).Error; err != nil {
			return uuid.Nil, nil, fmt.Errorf("failed to create seating group %s: %w", groupData.name, err)
		}
		groupIDs[groupData.key] = group.ID

		var seats []venues.Seat
		for row := 1; row <= groupData.rows; row++ {
			for col := 1; col <= groupData.cols; col++ {
				seats = append(seats, venues.Seat{
					ID:        uuid.New(),
					GroupID:   group.ID,
					Name:      fmt.Sprintf("%s %d:%d", groupData.name, row, col),
					XPos:      col * 40,
					YPos:      row * 40,
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				})
			}
		}
		if err := s.db.PostgreSQL.Create(&seats).Error; err != nil {
			return uuid.Nil, nil, fmt.Errorf("failed to create seats for %s: %w", groupData.name, err)
		}
		fmt.Printf("    ✅ Created seating group: %s (%d seats)\n", group.Name, len(seats))
	}

	return venue.ID, groupIDs, nil
}

// SeedPricingModels creates a current and a historical price table per group
func (s *Seeder) SeedPricingModels(groupIDs map[string]uuid.UUID) error {
	fmt.Println("  💰 Seeding pricing models...")

	pricingData := []struct {
		groupKey  string
		validFrom time.Time
		prices    venues.PriceTable
	}{
		// Last season's prices stay around for historical lookups.
		{"stalls", time.Now().AddDate(-1, 0, 0), venues.PriceTable{
			venues.TicketTypeNormal:  250,
			venues.TicketTypeStudent: 150,
			venues.TicketTypeSponsor: 400,
		}},
		{"stalls", time.Now().AddDate(0, -1, 0), venues.PriceTable{
			venues.TicketTypeNormal:  280,
			venues.TicketTypeStudent: 170,
			venues.TicketTypeSponsor: 450,
		}},
		{"balcony", time.Now().AddDate(-1, 0, 0), venues.PriceTable{
			venues.TicketTypeNormal:  200,
			venues.TicketTypeStudent: 120,
			venues.TicketTypeSponsor: 350,
		}},
		{"balcony", time.Now().AddDate(0, -1, 0), venues.PriceTable{
			venues.TicketTypeNormal:  220,
			venues.TicketTypeStudent: 140,
			venues.TicketTypeSponsor: 380,
		}},
	}

	for _, data := range pricingData {
		model := venues.PricingModel{
			ID:             uuid.New(),
			SeatingGroupID: groupIDs[data.groupKey],
			Prices:         data.prices,
			ValidFrom:      data.validFrom,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to create pricing model for %s: %w", data.groupKey, err)
		}
		fmt.Printf("    ✅ Created pricing model: %s (valid from %s)\n", data.groupKey, data.validFrom.Format("2006-01-02"))
	}

	return nil
}

// SeedShows creates a production with upcoming shows in both seating modes
func (s *Seeder) SeedShows(venueID uuid.UUID) error {
	fmt.Println("  🎭 Seeding production and shows...")

	production := shows.Production{
		ID:          uuid.New(),
		Name:        "Vårrevyn 2026",
		AltName:     "Spring Revue 2026",
		Description: "The annual spring revue, two acts of song and satire",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.db.PostgreSQL.Create(&production).Error; err != nil {
		return fmt.Errorf("failed to create production: %w", err)
	}
	fmt.Printf("    ✅ Created production: %s\n", production.Name)

	showsData := []struct {
		slug        string
		daysAhead   int
		hour        int
		freeSeating bool
		visible     bool
		description string
	}{
		{"premiere", 7, 19, false, true, "Opening night, reserved seating"},
		{"matinee", 9, 15, false, true, "Saturday matinée, reserved seating"},
		{"student-night", 14, 19, true, true, "Student night, unnumbered seating"},
		{"dress-rehearsal", 5, 18, false, false, "Closed dress rehearsal"},
	}

	for _, showData := range showsData {
		date := time.Now().AddDate(0, 0, showData.daysAhead)
		date = time.Date(date.Year(), date.Month(), date.Day(), showData.hour, 0, 0, 0, time.Local)

		show := shows.Show{
			ID:               uuid.New(),
			ProductionID:     production.ID,
			VenueID:          venueID,
			Date:             date,
			Visible:          showData.visible,
			Slug:             showData.slug,
			ShortDescription: showData.description,
			FreeSeating:      showData.freeSeating,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&show).Error; err != nil {
			return fmt.Errorf("failed to create show %s: %w", showData.slug, err)
		}
		fmt.Printf("    ✅ Created show: %s (%s)\n", show.Slug, show.Date.Format("2006-01-02 15:04"))
	}

	return nil
}

// SeedVouchers creates a handful of test vouchers
func (s *Seeder) SeedVouchers() error {
	fmt.Println("  🎟️ Seeding vouchers...")

	expiry := vouchers.NextSeasonExpiry(time.Now(), s.cfg.Voucher.SeasonCutoffMonth, s.cfg.Voucher.SeasonCutoffDay)

	vouchersData := []struct {
		amount int
		note   string
	}{
		{100, "Sponsor thank-you"},
		{250, "Cast and crew comp"},
		{500, "Raffle prize"},
	}

	for _, voucherData := range vouchersData {
		code, err := codes.NewVoucherCode()
		if err != nil {
			return fmt.Errorf("failed to generate voucher code: %w", err)
		}

		voucher := vouchers.Voucher{
			ID:         uuid.New(),
			Code:       code,
			Amount:     voucherData.amount,
			ExpiryDate: expiry,
			CreatedBy:  "seeder",
			Note:       voucherData.note,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := s.db.PostgreSQL.Create(&voucher).Error; err != nil {
			return fmt.Errorf("failed to create voucher: %w", err)
		}
		fmt.Printf("    ✅ Created voucher: %s (%d kr, %s)\n", voucher.Code, voucher.Amount, voucher.Note)
	}

	return nil
}
