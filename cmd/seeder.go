package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/product-catalog/internal/auth"
	"github.com/frahmantamala/product-catalog/internal/product"
	"github.com/frahmantamala/product-catalog/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a super user and sample products for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			db.Exec("DELETE FROM products")
			db.Exec("DELETE FROM users")
		}

		seedSuperUser(db, cfg.Security.BCryptCost)
		seedProducts(db)
	},
}

// seedSuperUser inserts an administrator holding every operation. The
// password is for local development only.
func seedSuperUser(db *gorm.DB, bcryptCost int) {
	email := "admin@product-catalog.local"

	var existing user.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Println("super user already exists:", email)
		return
	}

	hash, err := auth.HashPassword("superPassword", bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	super := &user.User{
		ID:           uuid.NewString(),
		FirstName:    "Super",
		LastName:     "Administrator",
		Email:        email,
		PasswordHash: hash,
		Operations:   auth.AllOperations,
		Audit:        false,
	}

	if err := db.Create(super).Error; err != nil {
		log.Fatalf("failed to insert super user: %v", err)
	}
	fmt.Println("Seeded super user:", email)
}

func seedProducts(db *gorm.DB) {
	samples := []product.Product{
		{
			SKU:           "10000001",
			Code:          "10000001",
			UnitOfMeasure: "CARTON",
			MaterialID:    "10001",
			Description:   "Sample carton product",
			Category:      "cigarettes",
			Manufacturer:  "Sample Manufacturing",
			ConsumerUnits: 10,
		},
		{
			SKU:           "10000002",
			Code:          "10000002",
			UnitOfMeasure: "PACK",
			MaterialID:    "10002",
			Description:   "Sample pack product",
			Category:      "cigarettes",
			Manufacturer:  "Sample Manufacturing",
			ConsumerUnits: 1,
		},
		{
			SKU:           "20000001",
			Code:          "20000001",
			UnitOfMeasure: "CAN",
			MaterialID:    "20001",
			Description:   "Sample smokeless product",
			Category:      "smokeless",
			Manufacturer:  "Sample Manufacturing",
			ConsumerUnits: 1,
		},
	}

	for i := range samples {
		p := &samples[i]

		var existing product.Product
		if err := db.Where("sku = ?", p.SKU).First(&existing).Error; err == nil {
			fmt.Println("product already exists:", p.SKU)
			continue
		}

		p.ID = uuid.NewString()
		if err := db.Create(p).Error; err != nil {
			log.Fatalf("failed to insert product %s: %v", p.SKU, err)
		}
		fmt.Println("Seeded product:", p.SKU)
	}
}
