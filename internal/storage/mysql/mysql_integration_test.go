//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"jend_services/internal/domain"
	mysqlrepo "jend_services/internal/storage/mysql"
)

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=jend",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "jend")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepos_MySQL_CRUD(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	accounts := mysqlrepo.NewAccountRepo(db)
	proposals := mysqlrepo.NewProposalRepo(db)
	reviews := mysqlrepo.NewReviewRepo(db)

	// --- accounts ---
	acc, err := accounts.Create(ctx, domain.Account{Name: "Amine", Email: "amine@x.tn", Password: "hash-1"})
	if err != nil {
		t.Fatalf("Create account: %v", err)
	}
	if acc.ID == 0 || acc.CreatedAt.IsZero() {
		t.Fatalf("account not fully populated: %+v", acc)
	}

	if exists, err := accounts.ExistsByEmail(ctx, "amine@x.tn"); err != nil || !exists {
		t.Fatalf("ExistsByEmail: exists=%v err=%v", exists, err)
	}
	if exists, _ := accounts.ExistsByEmail(ctx, "nobody@x.tn"); exists {
		t.Fatal("ExistsByEmail(nobody) = true")
	}

	if err := accounts.UpdatePassword(ctx, acc.ID, "hash-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	got, err := accounts.FindByEmail(ctx, "amine@x.tn")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.Password != "hash-2" {
		t.Fatalf("password not updated: %q", got.Password)
	}

	if err := accounts.UpdatePassword(ctx, 99999, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdatePassword(missing) err=%v, want ErrNotFound", err)
	}
	if _, err := accounts.FindByID(ctx, 99999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByID(missing) err=%v, want ErrNotFound", err)
	}

	// --- proposals ---
	sp, err := proposals.Save(ctx, domain.ServiceProposal{
		Name:         "Tennis court",
		Description:  "Clay court, hourly booking",
		Location:     "36.81,10.17",
		ProposedByID: &acc.ID,
		OwnerEmail:   pstr("amine@x.tn"),
		Sector:       pstr("sport"),
	})
	if err != nil {
		t.Fatalf("Save proposal: %v", err)
	}
	if sp.ID == 0 || sp.Sector == nil || *sp.Sector != "sport" {
		t.Fatalf("proposal not round-tripped: %+v", sp)
	}
	if sp.Provider != nil || sp.EndDate != nil {
		t.Fatalf("unset optionals came back non-nil: %+v", sp)
	}

	sp.Votes = 3
	sp.Category = pstr("outdoor")
	sp, err = proposals.Save(ctx, sp)
	if err != nil {
		t.Fatalf("update proposal: %v", err)
	}
	if sp.Votes != 3 || sp.Category == nil || *sp.Category != "outdoor" {
		t.Fatalf("update not persisted: %+v", sp)
	}

	all, err := proposals.FindAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("FindAll: n=%d err=%v", len(all), err)
	}

	// --- reviews ---
	day := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rv, err := reviews.Save(ctx, domain.Review{
		ServiceID:   sp.ID,
		ClientEmail: "amine@x.tn",
		ClientName:  "Amine",
		Provider:    pstr("Tennis court"),
		Rating:      pfloat(4.5),
		Comment:     "well kept",
		ReviewDate:  day,
		BookingFrom: day.AddDate(0, 0, -7),
		BookingTo:   day,
	})
	if err != nil {
		t.Fatalf("Save review: %v", err)
	}
	if rv.Rating == nil || *rv.Rating != 4.5 {
		t.Fatalf("rating not round-tripped: %+v", rv)
	}

	if ok, err := reviews.ExistsByServiceAndEmail(ctx, sp.ID, "amine@x.tn"); err != nil || !ok {
		t.Fatalf("ExistsByServiceAndEmail: ok=%v err=%v", ok, err)
	}
	byService, err := reviews.FindByServiceID(ctx, sp.ID)
	if err != nil || len(byService) != 1 {
		t.Fatalf("FindByServiceID: n=%d err=%v", len(byService), err)
	}
	byClient, err := reviews.FindByClientEmail(ctx, "amine@x.tn")
	if err != nil || len(byClient) != 1 {
		t.Fatalf("FindByClientEmail: n=%d err=%v", len(byClient), err)
	}

	if err := reviews.DeleteByID(ctx, rv.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := reviews.DeleteByID(ctx, rv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("DeleteByID(again) err=%v, want ErrNotFound", err)
	}

	// --- proposal delete cascades ---
	if err := proposals.Delete(ctx, sp.ID); err != nil {
		t.Fatalf("Delete proposal: %v", err)
	}
	if _, err := proposals.FindByID(ctx, sp.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("FindByID(deleted) err=%v, want ErrNotFound", err)
	}
}

func TestRepos_MySQL_AggregateColumns(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	proposals := mysqlrepo.NewProposalRepo(db)

	sp, err := proposals.Save(ctx, domain.ServiceProposal{
		Name:        "Hammam",
		Description: "Traditional baths",
		Location:    "36.80,10.18",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if sp.AverageRating != 0 || sp.ReviewCount != 0 {
		t.Fatalf("fresh proposal should carry a zero aggregate: %+v", sp)
	}

	sp.AverageRating = 4.3
	sp.ReviewCount = 7
	sp, err = proposals.Save(ctx, sp)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if sp.AverageRating != 4.3 || sp.ReviewCount != 7 {
		t.Fatalf("aggregate not persisted: %+v", sp)
	}
}
