// seed inserts a demo provider with one service and the default Mon-Fri
// working hours, printing the generated ids.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookora/bookora/internal/db"
	"github.com/bookora/bookora/internal/schedule"
	"github.com/bookora/bookora/internal/storage"
)

func main() {
	var (
		dbURL    = flag.String("database-url", os.Getenv("DATABASE_URL"), "postgres connection string")
		name     = flag.String("name", "Demo Barbershop", "provider name")
		owner    = flag.String("owner", "", "owner user id (uuid, optional)")
		service  = flag.String("service", "Haircut", "service title")
		duration = flag.Int("duration", 45, "service duration in minutes")
	)
	flag.Parse()

	if strings.TrimSpace(*dbURL) == "" {
		fatal("database url is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := db.Open(ctx, *dbURL)
	if err != nil {
		fatal(err.Error())
	}
	defer pool.Close()

	providerID := uuid.NewString()
	ownerArg := any(nil)
	if strings.TrimSpace(*owner) != "" {
		ownerArg = *owner
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO providers (id, name, owner_user_id)
		VALUES ($1, $2, $3)
	`, providerID, *name, ownerArg); err != nil {
		fatal("insert provider: " + err.Error())
	}

	serviceID := uuid.NewString()
	if _, err := pool.Exec(ctx, `
		INSERT INTO services (id, provider_id, title, duration_minutes, active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, serviceID, providerID, *service, *duration); err != nil {
		fatal("insert service: " + err.Error())
	}

	registry := schedule.NewRegistry(storage.NewScheduleRepository(pool))
	hours, err := registry.ApplyDefault(ctx, providerID)
	if err != nil {
		fatal("apply default working hours: " + err.Error())
	}

	fmt.Println("provider:", providerID)
	fmt.Println("service: ", serviceID)
	for _, wh := range hours {
		fmt.Printf("hours:    weekday %d %s-%s\n", wh.Weekday, wh.StartTime, wh.EndTime)
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
