// Seeds the database with demo accounts and service proposals so the API
// has something to show on a fresh install.
package main

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"jend_services/internal/adapters/observability"
	"jend_services/internal/app"
	"jend_services/internal/auth"
	"jend_services/internal/domain"
	"jend_services/internal/shared"
	mysqlrepo "jend_services/internal/storage/mysql"
)

type seedProposal struct {
	name        string
	description string
	location    string
	sector      string
	category    string
}

var seedAccounts = []struct {
	name, email, password string
}{
	{"Amine Ben Salah", "amine@jend.tn", "demo-pass-1"},
	{"Leila Trabelsi", "leila@jend.tn", "demo-pass-2"},
	{"Sami Gharbi", "sami@jend.tn", "demo-pass-3"},
}

var seedProposals = []seedProposal{
	{"Tennis court El Menzah", "Clay court with evening lighting, hourly booking.", "36.84,10.17", "sport", "outdoor"},
	{"Hammam Sidi Bou", "Traditional baths, family slots on weekends.", "36.87,10.34", "wellness", "indoor"},
	{"Kayak La Marsa", "Guided coastal kayak tours, gear included.", "36.88,10.32", "sport", "outdoor"},
	{"Co-working Lac 2", "Day passes with meeting rooms and fiber.", "36.83,10.27", "work", "indoor"},
	{"Pottery workshop Nabeul", "Two-hour introduction, all material provided.", "36.45,10.73", "craft", "indoor"},
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	accountsRepo := mysqlrepo.NewAccountRepo(db)
	proposalsRepo := mysqlrepo.NewProposalRepo(db)
	accounts := app.NewAccountService(accountsRepo, auth.Argon2Hasher{})
	proposals := app.NewProposalService(proposalsRepo)

	owner := seedOwner(ctx, accounts)

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, p := range seedProposals {
		p := p

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(p seedProposal) {
			defer wg.Done()
			defer sem.Release(1)

			sector, category := p.sector, p.category
			_, err := proposals.Create(ctx, app.ProposalInput{
				Name:        p.name,
				Description: p.description,
				Location:    p.location,
				Sector:      &sector,
				Category:    &category,
			}, owner)
			if err != nil {
				log.Warn().Str("name", p.name).Err(err).Msg("seed proposal failed")
				return
			}
			log.Info().Str("name", p.name).Msg("seeded proposal")
		}(p)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

// seedOwner creates the demo accounts, skipping ones already present, and
// returns the first as the owner of the seeded proposals.
func seedOwner(ctx context.Context, accounts *app.AccountService) domain.Account {
	var owner domain.Account
	for i, sa := range seedAccounts {
		acc, err := accounts.Create(ctx, sa.name, sa.email, sa.password)
		if errors.Is(err, domain.ErrEmailTaken) {
			acc, err = accounts.GetByEmail(ctx, sa.email)
		}
		if err != nil {
			log.Fatal().Str("email", sa.email).Err(err).Msg("seed account failed")
		}
		if i == 0 {
			owner = acc
		}
	}
	return owner
}
