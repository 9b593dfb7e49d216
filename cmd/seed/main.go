package main

import (
	"fmt"
	"log"

	"github.com/forkline-pos/forkline/internal/config"
	"github.com/forkline-pos/forkline/internal/database"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/utils"
)

func uintPtr(v uint) *uint { return &v }

func main() {
	fmt.Println("🌱 Forkline Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.Property{},
		&models.Rvc{},
		&models.Workstation{},
		&models.WorkstationDevice{},
		&models.Employee{},
		&models.TaxGroup{},
		&models.PrintClass{},
		&models.PrintClassRouting{},
		&models.MenuItem{},
		&models.Modifier{},
		&models.OrderDevice{},
		&models.KdsDevice{},
		&models.Check{},
		&models.CheckItem{},
		&models.Round{},
		&models.KdsTicket{},
		&models.KdsTicketItem{},
		&models.Tender{},
		&models.Payment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	// Refuse to seed on top of existing configuration
	var propertyCount int64
	db.Model(&models.Property{}).Count(&propertyCount)
	if propertyCount > 0 {
		fmt.Printf("⚠️  Database already has %d properties. Clear it first? (y/N): ", propertyCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		fmt.Println("🗑️  Clearing existing data...")
		for _, table := range []string{
			"audit_logs", "payments", "tenders",
			"kds_ticket_items", "kds_tickets", "rounds", "check_items", "checks",
			"modifiers", "menu_items", "print_class_routings", "print_classes", "tax_groups",
			"order_devices", "kds_devices",
			"workstation_devices", "workstations", "employees", "rvcs", "properties",
		} {
			db.Exec("TRUNCATE TABLE " + table + " CASCADE")
		}
		fmt.Println("✅ Data cleared")
	}

	fmt.Println("📦 Creating demo data...")

	// 1. Property with two revenue centers: the dining room does explicit
	// sends, the bar runs in dynamic order mode.
	property := models.Property{ID: 1, Name: "Harbor House", Timezone: "Europe/Berlin"}
	db.Create(&property)

	rvcs := []models.Rvc{
		{ID: 1, PropertyID: 1, Name: "Dining Room", DefaultOrderType: "dine_in"},
		{ID: 2, PropertyID: 1, Name: "Bar", DynamicOrderMode: true, DefaultOrderType: "dine_in"},
	}
	db.Create(&rvcs)
	fmt.Printf("   ✓ Property %q with %d revenue centers\n", property.Name, len(rvcs))

	// 2. Kitchen displays and the order devices that front them. The second
	// fry display is deliberately inactive to exercise the routing skip.
	kdsDevices := []models.KdsDevice{
		{ID: 1, PropertyID: 1, Name: "Grill Display", StationType: models.StationGrill},
		{ID: 2, PropertyID: 1, Name: "Fry Display", StationType: models.StationFry},
		{ID: 3, PropertyID: 1, Name: "Salad Display", StationType: models.StationSalad},
		{ID: 4, PropertyID: 1, Name: "Expo Display", StationType: models.StationExpo},
		{ID: 5, PropertyID: 1, Name: "Bar Display", StationType: models.StationBar},
		{ID: 6, PropertyID: 1, Name: "Fry Display (spare)", StationType: models.StationFry, IsActive: false},
	}
	db.Create(&kdsDevices)

	orderDevices := []models.OrderDevice{
		{ID: 1, PropertyID: 1, Name: "Hot Line", KdsDeviceID: uintPtr(1)},
		{ID: 2, PropertyID: 1, Name: "Fry Station", KdsDeviceID: uintPtr(2)},
		{ID: 3, PropertyID: 1, Name: "Cold Line", KdsDeviceID: uintPtr(3)},
		{ID: 4, PropertyID: 1, Name: "Expo", KdsDeviceID: uintPtr(4)},
		{ID: 5, PropertyID: 1, Name: "Bar Printer", KdsDeviceID: uintPtr(5)},
		{ID: 6, PropertyID: 1, Name: "Takeout Counter"}, // no linked display
	}
	db.Create(&orderDevices)
	fmt.Printf("   ✓ %d KDS devices, %d order devices\n", len(kdsDevices), len(orderDevices))

	// 3. Print classes with routing at all three levels: the bar overrides
	// "Drinks" at rvc level, hot food routes at property level, desserts
	// only have a global rule.
	printClasses := []models.PrintClass{
		{ID: 1, Name: "Hot Food"},
		{ID: 2, Name: "Cold Food"},
		{ID: 3, Name: "Drinks"},
		{ID: 4, Name: "Desserts"},
	}
	db.Create(&printClasses)

	routes := []models.PrintClassRouting{
		// Property level: hot food fans out to grill + expo, cold to salad + expo
		{PrintClassID: 1, PropertyID: uintPtr(1), OrderDeviceID: 1, SortOrder: 0},
		{PrintClassID: 1, PropertyID: uintPtr(1), OrderDeviceID: 4, SortOrder: 1},
		{PrintClassID: 2, PropertyID: uintPtr(1), OrderDeviceID: 3, SortOrder: 0},
		{PrintClassID: 2, PropertyID: uintPtr(1), OrderDeviceID: 4, SortOrder: 1},
		// Property level: drinks go to expo by default...
		{PrintClassID: 3, PropertyID: uintPtr(1), OrderDeviceID: 4, SortOrder: 0},
		// ...but the bar rvc overrides them to its own printer
		{PrintClassID: 3, PropertyID: uintPtr(1), RvcID: uintPtr(2), OrderDeviceID: 5, SortOrder: 0},
		// Global fallback only
		{PrintClassID: 4, OrderDeviceID: 4, SortOrder: 0},
	}
	db.Create(&routes)
	fmt.Printf("   ✓ %d print classes, %d routing rules\n", len(printClasses), len(routes))

	// 4. Tax groups and menu
	taxGroups := []models.TaxGroup{
		{ID: 1, Name: "Standard", Mode: models.TaxModeAddOn, Rate: 0.08},
		{ID: 2, Name: "Alcohol (inclusive)", Mode: models.TaxModeInclusive, Rate: 0.19},
	}
	db.Create(&taxGroups)

	menuItems := []models.MenuItem{
		{ID: 1, PropertyID: 1, Name: "Cheeseburger", Price: 12.50, PrintClassID: uintPtr(1), TaxGroupID: uintPtr(1), Category: "Mains"},
		{ID: 2, PropertyID: 1, Name: "Fish & Chips", Price: 14.00, PrintClassID: uintPtr(1), TaxGroupID: uintPtr(1), Category: "Mains"},
		{ID: 3, PropertyID: 1, Name: "Caesar Salad", Price: 9.50, PrintClassID: uintPtr(2), TaxGroupID: uintPtr(1), Category: "Starters"},
		{ID: 4, PropertyID: 1, Name: "House Lager", Price: 5.00, PrintClassID: uintPtr(3), TaxGroupID: uintPtr(2), Category: "Drinks"},
		{ID: 5, PropertyID: 1, Name: "Old Fashioned", Price: 11.00, PrintClassID: uintPtr(3), TaxGroupID: uintPtr(2), Category: "Drinks"},
		{ID: 6, PropertyID: 1, Name: "Cheesecake", Price: 6.50, PrintClassID: uintPtr(4), TaxGroupID: uintPtr(1), Category: "Desserts"},
		{ID: 7, PropertyID: 1, Name: "Open Food", Price: 0.01, TaxGroupID: uintPtr(1), Category: "Misc"}, // no print class: never routed
	}
	db.Create(&menuItems)

	modifiers := []models.Modifier{
		{MenuItemID: 1, Name: "Extra Cheese", PriceDelta: 1.50},
		{MenuItemID: 1, Name: "No Onions"},
		{MenuItemID: 1, Name: "Bacon", PriceDelta: 2.00},
		{MenuItemID: 3, Name: "Add Chicken", PriceDelta: 3.50},
		{MenuItemID: 5, Name: "Top Shelf", PriceDelta: 3.00},
	}
	db.Create(&modifiers)
	fmt.Printf("   ✓ %d menu items, %d modifiers\n", len(menuItems), len(modifiers))

	// 5. Workstations: terminal 2 only sees the bar printer
	workstations := []models.Workstation{
		{ID: 1, RvcID: 1, Name: "Terminal 1", IsDefault: true},
		{ID: 2, RvcID: 2, Name: "Bar Terminal"},
	}
	db.Create(&workstations)
	db.Create(&models.WorkstationDevice{WorkstationID: 2, OrderDeviceID: 5})

	// 6. Staff and tenders. Demo PINs: server 1234, manager 4321, admin 9999.
	employees := []models.Employee{
		{ID: 1, PropertyID: 1, Name: "Alex Rivera", Role: models.RoleServer, PinHash: mustHash("1234")},
		{ID: 2, PropertyID: 1, Name: "Sam Okafor", Role: models.RoleBartender, PinHash: mustHash("2345")},
		{ID: 3, PropertyID: 1, Name: "Dana Petrov", Role: models.RoleManager, PinHash: mustHash("4321")},
		{ID: 4, PropertyID: 1, Name: "Kim Nguyen", Role: models.RoleAdmin, PinHash: mustHash("9999")},
	}
	db.Create(&employees)

	tenders := []models.Tender{
		{ID: 1, PropertyID: 1, Name: "Cash", Kind: models.TenderCash},
		{ID: 2, PropertyID: 1, Name: "Card", Kind: models.TenderCard},
		{ID: 3, PropertyID: 1, Name: "Gift Card", Kind: models.TenderGiftCard},
	}
	db.Create(&tenders)
	fmt.Printf("   ✓ %d employees, %d tenders\n", len(employees), len(tenders))

	fmt.Println("✅ Demo data seeded")
	fmt.Println("   Sign in with PIN 1234 (server) or 4321 (manager)")
}

func mustHash(pin string) string {
	h, err := utils.HashPIN(pin)
	if err != nil {
		log.Fatalf("❌ Failed to hash PIN: %v", err)
	}
	return h
}
