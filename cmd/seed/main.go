package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"github.com/Skotchmaster/qr_cart/internal/repo"
	"github.com/Skotchmaster/qr_cart/internal/seed"
	pkgconfig "github.com/Skotchmaster/qr_cart/pkg/config"
	"github.com/Skotchmaster/qr_cart/pkg/db"
)

func main() {
	n := flag.Int("n", 10, "number of products to insert")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	env := pkgconfig.OS()
	if err := env.Require("DATABASE_URL"); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gdb, err := db.Open(ctx, env("DATABASE_URL"))
	if err != nil {
		log.Fatal("Cannot connect to database: ", err)
	}
	defer db.Close(gdb)

	if err := repo.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	products, err := seed.Products(ctx, &repo.GormRepo{DB: gdb}, gofakeit.New(0), *n)
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range products {
		log.Printf("seeded %s %q price=%s stock=%d", p.ID, p.Name, p.Price, p.Stock)
	}
}
