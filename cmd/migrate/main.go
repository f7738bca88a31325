// Command migrate creates the storefront schema and seeds the default admin
// and reference vehicles. It is safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:embed schema.sql
var schema string

type vehicle struct {
	make  string
	model string
	year  int
}

var seedVehicles = []vehicle{
	{"Toyota", "Yaris", 2020},
	{"Toyota", "Corolla", 2021},
	{"Honda", "Civic", 2019},
	{"VW", "Golf", 2018},
	{"Nissan", "Qashqai", 2022},
}

func main() {
	adminEmail := flag.String("admin-email", "admin@autostyle.com", "email of the seeded admin")
	adminPassword := flag.String("admin-password", "password123", "password of the seeded admin")
	skipSeed := flag.Bool("skip-seed", false, "only create the schema")
	flag.Parse()

	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Infow("no .env file loaded, using process environment", "error", err)
	}

	addr := os.Getenv("DB_ADDR")
	if addr == "" {
		logger.Fatal("DB_ADDR is not set")
	}

	db, err := sql.Open("postgres", addr)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatalw("cannot reach database", "error", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Fatalw("schema migration failed", "error", err)
	}
	logger.Info("schema is up to date")

	if *skipSeed {
		return
	}

	if err := seed(ctx, db, *adminEmail, *adminPassword); err != nil {
		logger.Fatalw("seeding failed", "error", err)
	}
	logger.Infow("seed data loaded", "admin", *adminEmail, "vehicles", len(seedVehicles))
}

func seed(ctx context.Context, db *sql.DB, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING`, email, string(hash)); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// trim is NULL for the seeds, so the unique constraint never fires
	for _, v := range seedVehicles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO vehicles (make, model, year)
			SELECT $1::varchar, $2::varchar, $3::int
			WHERE NOT EXISTS (
				SELECT 1 FROM vehicles
				WHERE make = $1 AND model = $2 AND year = $3 AND trim IS NULL
			)`, v.make, v.model, v.year); err != nil {
			return fmt.Errorf("seed vehicle %s %s %d: %w", v.make, v.model, v.year, err)
		}
	}

	return tx.Commit()
}
