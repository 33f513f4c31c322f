package main

import (
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/neosiam/returnhub/internal/config"
	"github.com/neosiam/returnhub/internal/database"
	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/sequence"
	"github.com/neosiam/returnhub/internal/utils"
)

func main() {
	fmt.Println("🌱 ReturnHub Demo Data Seeder")
	fmt.Println("=" + string(make([]rune, 60)))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.ReturnRequest{},
		&models.CollectionOrder{},
		&models.ShipmentManifest{},
		&models.ReturnRecord{},
		&models.NCRRecord{},
		&sequence.Counter{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var rmaCount int64
	db.Model(&models.ReturnRequest{}).Count(&rmaCount)
	if rmaCount > 0 {
		fmt.Printf("⚠️  Database already has %d return requests. Clear it first? (y/N): ", rmaCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		// Clear existing data
		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE return_records CASCADE")
		db.Exec("TRUNCATE TABLE ncr_records CASCADE")
		db.Exec("TRUNCATE TABLE shipment_manifests CASCADE")
		db.Exec("TRUNCATE TABLE collection_orders CASCADE")
		db.Exec("TRUNCATE TABLE return_requests CASCADE")
		db.Exec("TRUNCATE TABLE sequence_counters CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	// 1. Create demo users
	fmt.Println("👤 Creating users...")
	users := []struct {
		username string
		email    string
		name     string
		role     string
		branch   string
	}{
		{"admin", "admin@returnhub.local", "Demo Admin", models.RoleAdmin, "Head Office"},
		{"qa", "qa@returnhub.local", "Demo QA", models.RoleQA, "Head Office"},
		{"ops", "ops@returnhub.local", "Demo Operations", models.RoleOperations, "Head Office"},
		{"driver1", "driver1@returnhub.local", "Somchai Jaidee", models.RoleDriver, ""},
		{"branch-bkk", "branch-bkk@returnhub.local", "Bangkok Branch", models.RoleBranch, "Bangkok"},
	}

	for _, u := range users {
		hashed, err := utils.HashPassword("demo1234")
		if err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		user := models.UserAuth{
			Username: u.username,
			Email:    u.email,
			Name:     u.name,
			Role:     u.role,
			Branch:   u.branch,
			Password: hashed,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("⚠️  Failed to create user %s: %v", u.username, err)
		} else {
			fmt.Printf("   ✓ Created user: %s [%s]\n", u.username, u.role)
		}
	}
	fmt.Printf("✅ Created %d users (password: demo1234)\n\n", len(users))

	// 2. Create return requests (RMAs)
	fmt.Println("📋 Creating return requests...")
	rmas := []models.ReturnRequest{
		{
			ID:              "RMA-2024-001",
			RMANumber:       "RMA-2024-001",
			Status:          models.RMAApprovedForPickup,
			CustomerName:    "Charoen Kit Shop",
			CustomerAddress: "123 Sukhumvit Rd, Bangkok",
			CustomerContact: "Khun Somsak 081-234-5678",
			ItemSummary:     "Mouse x10, Keyboard x5",
			Branch:          "Bangkok",
			RequestedDate:   "2024-06-01",
		},
		{
			ID:              "RMA-2024-002",
			RMANumber:       "RMA-2024-002",
			Status:          models.RMAApprovedForPickup,
			CustomerName:    "Charoen Kit Shop",
			CustomerAddress: "123 Sukhumvit Rd, Bangkok",
			CustomerContact: "Khun Somsak 081-234-5678",
			ItemSummary:     "Monitor x2",
			Branch:          "Bangkok",
			RequestedDate:   "2024-06-02",
		},
		{
			ID:              "RMA-2024-003",
			RMANumber:       "RMA-2024-003",
			Status:          models.RMAApprovedForPickup,
			CustomerName:    "Thai Trading Co.",
			CustomerAddress: "789 Bangna-Trad Rd, Bangkok",
			CustomerContact: "Khun Ake 02-111-2222",
			ItemSummary:     "Printer x1",
			Branch:          "Bangkok",
			RequestedDate:   "2024-06-03",
		},
		{
			ID:                "RMA-2024-004",
			RMANumber:         "RMA-2024-004",
			Status:            models.RMAPickupScheduled,
			CustomerName:      "Siam Ltd.",
			CustomerAddress:   "456 Phetkasem Rd, Nakhon Pathom",
			CustomerContact:   "Khun Wilai 089-987-6543",
			ItemSummary:       "Laptop x5, Mouse x5",
			Branch:            "Nakhon Pathom",
			RequestedDate:     "2024-05-28",
			CollectionOrderID: "COL-202406-001",
		},
	}

	for _, rma := range rmas {
		if err := db.Create(&rma).Error; err != nil {
			log.Printf("⚠️  Failed to create RMA %s: %v", rma.ID, err)
		} else {
			fmt.Printf("   ✓ Created RMA: %s [%s] - %s\n", rma.ID, rma.Status, rma.CustomerName)
		}
	}
	fmt.Printf("✅ Created %d return requests\n\n", len(rmas))

	// 3. Create collection orders
	fmt.Println("🚚 Creating collection orders...")
	proof := datatypes.NewJSONType(models.ProofOfCollection{
		CollectedAt:  "2024-06-05T10:00:00Z",
		SignatureRef: "signed",
		PhotoRefs:    []string{"photos/col-202405-002-box.jpg"},
	})
	orders := []models.CollectionOrder{
		{
			ID:            "COL-202406-001",
			Status:        models.CollectionPending,
			DriverID:      "D-001",
			VehiclePlate:  "1A-1234",
			PickupName:    "Siam Ltd.",
			PickupAddress: "456 Phetkasem Rd, Nakhon Pathom",
			PickupContact: "Khun Wilai 089-987-6543",
			PickupDate:    "2024-06-16",
			BoxCount:      3,
			Description:   "Computer equipment",
			RMAIDs:        datatypes.NewJSONSlice([]string{"RMA-2024-004"}),
		},
		{
			ID:            "COL-202405-002",
			Status:        models.CollectionCollected,
			DriverID:      "D-002",
			VehiclePlate:  "2B-5678",
			PickupName:    "Beauty Shop",
			PickupAddress: "999 Lat Phrao Rd, Bangkok",
			PickupContact: "Khun Suay 087-654-3210",
			PickupDate:    "2024-06-05",
			BoxCount:      2,
			Description:   "Cosmetics",
			RMAIDs:        datatypes.NewJSONSlice([]string{"RMA-2024-005"}),
			Proof:         &proof,
		},
	}

	for _, order := range orders {
		if err := db.Create(&order).Error; err != nil {
			log.Printf("⚠️  Failed to create collection order %s: %v", order.ID, err)
		} else {
			fmt.Printf("   ✓ Created order: %s [%s] - %s\n", order.ID, order.Status, order.PickupName)
		}
	}
	fmt.Printf("✅ Created %d collection orders\n\n", len(orders))

	// Counters continue after the seeded document numbers
	counters := []sequence.Counter{
		{Key: sequence.KeyCollection, Scope: "202406", Value: 1},
		{Key: sequence.KeyManifest, Scope: "2024", Value: 0},
		{Key: sequence.KeyNCR, Scope: "2024", Value: 1},
	}
	for _, c := range counters {
		if err := db.Create(&c).Error; err != nil {
			log.Printf("⚠️  Failed to seed counter %s/%s: %v", c.Key, c.Scope, err)
		}
	}

	// 4. Create operations-hub records across both workflows
	fmt.Println("📊 Creating operations records...")
	now := time.Now()
	records := []models.ReturnRecord{
		{
			ID:           models.NewReturnRecordID(now),
			NCRNumber:    "NCR-2024-0001",
			RefNo:        "REF-1001",
			ProductCode:  "KB-104",
			ProductName:  "Mechanical Keyboard 104 Keys",
			Quantity:     5,
			Unit:         "Unit",
			CustomerName: "Charoen Kit Shop",
			Branch:       "Bangkok",
			Category:     "Electronics",
			Date:         "2024-06-04",
			Status:       models.StatusRequested,
			Disposition:  models.DispositionPending,
			DocumentType: models.OriginNCR,
			Origin:       models.OriginNCR,
			Founder:      "Demo QA",
			Reason:       "NCR: keys not registering",
		},
		{
			ID:           models.NewReturnRecordID(now),
			NCRNumber:    "NCR-2024-0001",
			RefNo:        "REF-1002",
			ProductCode:  "MN-24",
			ProductName:  "24 inch Monitor",
			Quantity:     2,
			Unit:         "Unit",
			CustomerName: "Charoen Kit Shop",
			Branch:       "Bangkok",
			Category:     "Electronics",
			Date:         "2024-06-04",
			Status:       models.StatusColJobAccepted,
			Disposition:  models.DispositionRTV,
			DocumentType: models.OriginNCR,
			Origin:       models.OriginNCR,
			Founder:      "Demo QA",
			Reason:       "NCR: dead pixels on arrival",
		},
		{
			ID:                models.NewReturnRecordID(now),
			CollectionOrderID: "COL-202405-002",
			ProductCode:       "CS-SET",
			ProductName:       "Cosmetics Return Set",
			Quantity:          12,
			Unit:              "Box",
			CustomerName:      "Beauty Shop",
			Branch:            "Bangkok",
			Category:          "General",
			Date:              "2024-06-05",
			Status:            models.StatusColConsolidated,
			Disposition:       models.DispositionSell,
			DocumentType:      models.OriginLogistics,
			Origin:            models.OriginLogistics,
			Reason:            "Customer over-order",
		},
		{
			ID:           models.NewReturnRecordID(now),
			NCRNumber:    "NCR-2024-0001",
			ProductCode:  "PR-LAS",
			ProductName:  "Laser Printer",
			Quantity:     1,
			Unit:         "Unit",
			CustomerName: "Thai Trading Co.",
			Branch:       "Bangkok",
			Category:     "Electronics",
			Date:         "2024-06-03",
			Status:       models.StatusSettledOnField,
			Disposition:  models.DispositionClaim,
			DocumentType: models.OriginNCR,
			Origin:       models.OriginNCR,
			Founder:      "Demo QA",
			Reason:       "NCR: damaged in transit, settled on site",

			IsFieldSettled:        true,
			FieldSettlementAmount: 4500,
			FieldSettlementName:   "Khun Ake",
		},
	}

	for _, rec := range records {
		if err := db.Create(&rec).Error; err != nil {
			log.Printf("⚠️  Failed to create record %s: %v", rec.ID, err)
		} else {
			fmt.Printf("   ✓ Created record: %s [%s] %s\n", rec.ID, rec.Status, rec.ProductName)
		}
	}
	fmt.Printf("✅ Created %d operations records\n\n", len(records))

	// Summary
	fmt.Println()
	fmt.Println("=" + string(make([]rune, 60)))
	fmt.Println("🎉 Demo data created successfully!")
	fmt.Println()
	fmt.Println("📊 Summary:")
	fmt.Printf("   • %d users (login with password demo1234)\n", len(users))
	fmt.Printf("   • %d return requests (3 approved for pickup)\n", len(rmas))
	fmt.Printf("   • %d collection orders (1 ready for consolidation)\n", len(orders))
	fmt.Printf("   • %d operations records across both workflows\n", len(records))
	fmt.Println()
	fmt.Println("🚀 Start the server:")
	fmt.Println("   go run ./cmd/api/main.go")
	fmt.Println("   Then visit: http://localhost:3001")
	fmt.Println("=" + string(make([]rune, 60)))
}
