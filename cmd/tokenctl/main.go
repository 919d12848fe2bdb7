// Command tokenctl manages registration admission tokens out of band.
// Registration is closed to the public: an administrator mints a token here
// and hands it to the person allowed to create an account.
//
// Usage:
//
//	tokenctl [-d dsn] add [token]
//	tokenctl [-d dsn] list
//	tokenctl [-d dsn] revoke <token>
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"classtrack-server/internal/common"
	"classtrack-server/internal/server/config"
	"classtrack-server/internal/server/repositories/repomanager"
)

const generatedTokenBytes = 16

func main() {
	dsn := flag.String("d", "", "PostgreSQL DSN (defaults to server configuration)")
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *dsn == "" {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		*dsn = cfg.DatabaseDSN
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	repo := rm.RegisterTokens(db)

	switch cmd := flag.Arg(0); cmd {
	case "add":
		token := flag.Arg(1)
		if token == "" {
			token, err = common.MakeRandHexString(generatedTokenBytes)
			if err != nil {
				log.Fatalf("error generating token: %v", err)
			}
		}
		if err := repo.Create(ctx, token); err != nil {
			log.Fatalf("error creating token: %v", err)
		}
		fmt.Println(token)

	case "list":
		tokens, err := repo.List(ctx)
		if err != nil {
			log.Fatalf("error listing tokens: %v", err)
		}
		for _, t := range tokens {
			fmt.Println(t.Token)
		}

	case "revoke":
		token := flag.Arg(1)
		if token == "" {
			log.Fatal("revoke requires a token argument")
		}
		if err := repo.Consume(ctx, token); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				log.Fatalf("token %q does not exist", token)
			}
			log.Fatalf("error revoking token: %v", err)
		}

	default:
		log.Fatalf("unknown command %q", cmd)
	}
}
