package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/alecgard/scoutline/internal/auth"
	"github.com/alecgard/scoutline/internal/config"
	"github.com/alecgard/scoutline/internal/credential"
	"github.com/alecgard/scoutline/internal/password"
	"github.com/alecgard/scoutline/internal/token"
	"github.com/alecgard/scoutline/internal/validation"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo player and a demo coach",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const demoPassword = "Scoutline1!"

var demoPlayer = validation.PlayerRegistration{
	FirstName: "Jordan",
	LastName:  "Reyes",
	Email:     "player@scoutline.dev",
	Password:  demoPassword,
	Sex:       "female",
	Sport:     "Soccer",
	Position:  "Midfielder",
	GPA:       validation.Number(3.7),
	Country:   "usa",
	State:     "CA",
}

var demoCoach = validation.CoachRegistration{
	FirstName:        "Sam",
	LastName:         "Okafor",
	Email:            "coach@scoutline.dev",
	Password:         demoPassword,
	CoachingCategory: "head",
	Sports:           []string{"Soccer"},
	University:       "Pacific State University",
	Country:          "usa",
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := auth.NewService(auth.Deps{
		Store:  credential.NewStore(pool),
		Hasher: password.NewHasher(cfg.Auth.BcryptCost),
		Tokens: token.NewService(token.Options{Secret: cfg.Auth.JWTSecret, TTL: cfg.Auth.JWTExpiresIn}),
	})

	playerID, err := svc.RegisterPlayer(ctx, demoPlayer)
	if err := seeded("player", demoPlayer.Email, playerID, err); err != nil {
		return err
	}
	coachID, err := svc.RegisterCoach(ctx, demoCoach)
	if err := seeded("coach", demoCoach.Email, coachID, err); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n=== Demo Accounts ===\n")
	fmt.Fprintf(out, "Player:    %s\n", demoPlayer.Email)
	fmt.Fprintf(out, "Coach:     %s\n", demoCoach.Email)
	fmt.Fprintf(out, "Password:  %s\n", demoPassword)
	fmt.Fprintf(out, "\nTry it:\n")
	fmt.Fprintf(out, "  curl -i -X POST http://localhost:%d/auth/login/player -H 'Content-Type: application/json' -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n",
		cfg.Server.Port, demoPlayer.Email, demoPassword)

	return nil
}

// seeded logs the result of one demo registration. An account left over from
// an earlier seed is not an error.
func seeded(role, email, id string, err error) error {
	switch {
	case err == nil:
		slog.Info("created demo account", "role", role, "id", id)
		return nil
	case errors.Is(err, auth.ErrEmailTaken):
		slog.Info("demo account already exists, skipping", "role", role, "email", email)
		return nil
	default:
		return fmt.Errorf("creating demo %s: %w", role, err)
	}
}
