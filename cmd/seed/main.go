package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medibot/clinic-assistant/internal/booking"
	"github.com/medibot/clinic-assistant/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedAppointments(context.Background(), pool, 40); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments fills the next two weeks with fake bookings, skipping
// slots that fall outside clinic hours or collide with an earlier pick.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d appointments", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	taken := make(map[time.Time]bool)
	inserted := 0

	for inserted < count {
		start := randomSlot()
		if !booking.WithinOperatingHours(start) || taken[start] {
			continue
		}
		taken[start] = true

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_name, start_time, end_time, created_at)
			VALUES ($1, $2, $3, $4, now())
		`, uuid.New(), gofakeit.Name(), start, start.Add(30*time.Minute))
		if err != nil {
			return err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}

// randomSlot picks a half-hour boundary within the next 14 days.
func randomSlot() time.Time {
	day := gofakeit.Number(1, 14)
	hour := gofakeit.Number(8, 18)
	half := gofakeit.Number(0, 1) * 30

	base := time.Now().AddDate(0, 0, day)
	return time.Date(base.Year(), base.Month(), base.Day(), hour, half, 0, 0, base.Location())
}
