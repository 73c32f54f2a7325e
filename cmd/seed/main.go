// Command seed provisions a database with a synthetic support queue: a few
// heavy companies and users dominate ticket volume, wait and solve times are
// lognormal, and every ticket gets exactly one active and one inactive
// status event. Useful for local dashboards and load testing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lorrc/support-analytics-backend/internal/config"
	"github.com/lorrc/support-analytics-backend/internal/infrastructure/logging"
)

var issueCategories = []string{"Technical", "Billing", "Account", "General Inquiry"}

type generatorParams struct {
	Companies   int
	Users       int
	Staff       int
	Tickets     int
	HistoryDays int
}

func main() {
	var (
		seed           = flag.Int64("seed", 42, "RNG seed, fixed by default for reproducible datasets")
		migrationsPath = flag.String("migrations", "migrations", "path to the migrations directory")
		tickets        = flag.Int("tickets", 5000, "number of tickets to generate")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      "text",
		Output:      os.Stdout,
		ServiceName: "support-analytics-seed",
		Environment: cfg.App.Environment,
	})

	if err := applyMigrations(*migrationsPath, cfg.Database.URL); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	logger.Info("schema up to date")

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	params := generatorParams{
		Companies:   50,
		Users:       1000,
		Staff:       50,
		Tickets:     *tickets,
		HistoryDays: 180,
	}

	rng := rand.New(rand.NewSource(*seed))
	data := generate(rng, params, time.Now().UTC())

	if err := insert(ctx, pool, data); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding complete",
		"companies", params.Companies,
		"users", params.Users,
		"staff", params.Staff,
		"tickets", params.Tickets,
	)
}

func applyMigrations(path, databaseURL string) error {
	mig, err := migrate.New("file://"+path, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type dataset struct {
	companies [][]any
	users     [][]any
	staff     [][]any
	tickets   [][]any
	matches   [][]any
	statuses  [][]any
}

// generate builds the synthetic queue. Company sizes are lognormal(2, 1);
// users are assigned to companies proportionally to company size, so big
// companies dominate. The first 100 users carry most of the ticket volume.
func generate(rng *rand.Rand, params generatorParams, now time.Time) *dataset {
	data := &dataset{}

	companySizes := make([]float64, params.Companies)
	for i := range companySizes {
		companySizes[i] = lognormal(rng, 2, 1)
		data.companies = append(data.companies, []any{
			int64(i + 1),
			fmt.Sprintf("Company_%d", i+1),
			companySizes[i],
		})
	}
	companyPicker := newWeightedPicker(companySizes)

	userCompany := make([]int64, params.Users)
	for i := range userCompany {
		userCompany[i] = int64(companyPicker.pick(rng) + 1)
		data.users = append(data.users, []any{
			int64(i + 1),
			fmt.Sprintf("User_%d", i+1),
			userCompany[i],
		})
	}

	experiencePicker := newWeightedPicker([]float64{0.4, 0.4, 0.2})
	experienceLevels := []string{"Junior", "Mid", "Senior"}
	for i := 0; i < params.Staff; i++ {
		data.staff = append(data.staff, []any{
			int64(i + 1),
			fmt.Sprintf("Staff_%d", i+1),
			experienceLevels[experiencePicker.pick(rng)],
		})
	}

	// A small cohort of power users files most tickets.
	userWeights := make([]float64, params.Users)
	for i := range userWeights {
		if i < 100 {
			userWeights[i] = 0.05
		} else {
			userWeights[i] = 0.95 / float64(params.Users-100)
		}
	}
	userPicker := newWeightedPicker(userWeights)
	categoryPicker := newWeightedPicker([]float64{0.5, 0.2, 0.2, 0.1})

	historyStart := now.AddDate(0, 0, -params.HistoryDays)
	historySeconds := int64(now.Sub(historyStart) / time.Second)

	for i := 0; i < params.Tickets; i++ {
		ticketID := int64(i + 1)
		userIdx := userPicker.pick(rng)
		createdAt := historyStart.Add(time.Duration(rng.Int63n(historySeconds)) * time.Second)

		data.tickets = append(data.tickets, []any{
			ticketID,
			int64(userIdx + 1),
			userCompany[userIdx],
			issueCategories[categoryPicker.pick(rng)],
			createdAt,
		})

		// Wait before a staff member picks the ticket up, then a
		// lognormal handling period before it goes inactive.
		maxWait := 120 + math.Round(lognormal(rng, 2, 1)*60)
		matchedAt := createdAt.Add(time.Duration(rng.Int63n(int64(maxWait)+1)) * time.Second)
		inactiveAt := matchedAt.Add(time.Duration(math.Round(lognormal(rng, 3, 0.3)*60)) * time.Second)

		data.matches = append(data.matches, []any{
			ticketID,
			int64(rng.Intn(params.Staff) + 1),
			matchedAt,
		})
		data.statuses = append(data.statuses,
			[]any{ticketID, "active", matchedAt},
			[]any{ticketID, "inactive", inactiveAt},
		)
	}

	return data
}

func insert(ctx context.Context, pool *pgxpool.Pool, data *dataset) error {
	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"companies", []string{"company_id", "company_name", "company_size"}, data.companies},
		{"users", []string{"user_id", "user_name", "company_id"}, data.users},
		{"support_staff", []string{"staff_id", "staff_name", "experience_level"}, data.staff},
		{"support_tickets", []string{"ticket_id", "user_id", "company_id", "issue_category", "created_at"}, data.tickets},
		{"matches", []string{"ticket_id", "staff_id", "matched_at"}, data.matches},
		{"ticket_status", []string{"ticket_id", "status", "timestamp"}, data.statuses},
	}

	for _, c := range copies {
		if _, err := pool.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows)); err != nil {
			return fmt.Errorf("copy into %s: %w", c.table, err)
		}
	}
	return nil
}

func lognormal(rng *rand.Rand, mean, sigma float64) float64 {
	return math.Exp(mean + sigma*rng.NormFloat64())
}

// weightedPicker draws indices proportionally to their weights.
type weightedPicker struct {
	cumulative []float64
	total      float64
}

func newWeightedPicker(weights []float64) *weightedPicker {
	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	return &weightedPicker{cumulative: cumulative, total: total}
}

func (p *weightedPicker) pick(rng *rand.Rand) int {
	target := rng.Float64() * p.total
	idx := sort.SearchFloat64s(p.cumulative, target)
	if idx >= len(p.cumulative) {
		idx = len(p.cumulative) - 1
	}
	return idx
}
