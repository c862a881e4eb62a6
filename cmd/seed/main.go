package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/valeriy167/paint-store/config"
	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/db"
	"github.com/valeriy167/paint-store/pkg/redis"
	"github.com/valeriy167/paint-store/pkg/util"
	"gorm.io/gorm"
)

func main() {
	filePath := flag.String("file", "", "catalog .xlsx to import (optional)")
	assumeYes := flag.Bool("yes", false, "import without asking for confirmation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	fmt.Println("Contact info row is in place")

	if err := ensureModerator(db.GetDB()); err != nil {
		log.Fatal("Failed to create moderator:", err)
	}

	var contactCache service.ContactCache
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			fmt.Println("Redis unavailable, cached contact info expires on its own TTL")
		} else {
			defer redis.Close()
			contactCache = redis.NewStore(redis.GetClient())
		}
	}
	contacts := service.NewContactService(repository.NewContactRepository(db.GetDB()), contactCache, cfg.Redis.ContactCacheTTL)
	updated, err := seedContactInfo(context.Background(), contacts, os.Getenv)
	if err != nil {
		log.Fatal("Failed to seed contact info:", err)
	}
	if updated {
		fmt.Println("Contact info updated from SEED_CONTACT_*")
	}

	if *filePath == "" {
		return
	}

	fmt.Printf("Reading XLSX file: %s\n", *filePath)
	rows, err := readCatalogFromXLSX(*filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total products to import: %d\n", len(rows))

	if !*assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	imported, err := importCatalog(
		repository.NewManufacturerRepository(db.GetDB()),
		repository.NewProductRepository(db.GetDB()),
		rows,
	)
	if err != nil {
		log.Fatal("Failed to import catalog:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", imported)
}

// ensureModerator creates the moderator account named by SEED_MODERATOR_*
// when it does not exist yet.
func ensureModerator(gdb *gorm.DB) error {
	username := os.Getenv("SEED_MODERATOR_USERNAME")
	password := os.Getenv("SEED_MODERATOR_PASSWORD")
	if username == "" || password == "" {
		fmt.Println("SEED_MODERATOR_USERNAME/SEED_MODERATOR_PASSWORD not set, skipping moderator")
		return nil
	}

	users := repository.NewUserRepository(gdb)
	if _, err := users.FindByUsername(username); err == nil {
		fmt.Printf("Moderator %q already exists\n", username)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	email := os.Getenv("SEED_MODERATOR_EMAIL")
	if email == "" {
		email = username + "@localhost"
	}

	if err := users.Create(&model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsModerator:  true,
	}); err != nil {
		return err
	}
	fmt.Printf("Moderator %q created\n", username)
	return nil
}
