package database

import (
	"fmt"
	"log"

	"github.com/sangkips/lotus-pos/internal/domain/entity"
	"github.com/sangkips/lotus-pos/internal/domain/enum"
	"gorm.io/gorm"
)

// SeedDefaultData seeds tables, buffet packages and a starter menu. Rows that
// already exist (matched by name) are left alone.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	tables := []entity.RestaurantTable{
		{Name: "T1", Capacity: 2, Status: enum.TableStatusAvailable},
		{Name: "T2", Capacity: 4, Status: enum.TableStatusAvailable},
		{Name: "T3", Capacity: 4, Status: enum.TableStatusAvailable},
		{Name: "T4", Capacity: 6, Status: enum.TableStatusAvailable},
		{Name: "VIP", Capacity: 10, Status: enum.TableStatusAvailable},
	}
	for i := range tables {
		var existing entity.RestaurantTable
		if err := db.Where("name = ?", tables[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&tables[i]).Error; err != nil {
				log.Printf("Warning: failed to create table %s: %v", tables[i].Name, err)
			}
		}
	}

	// Package ids 1..3 are the ticket ids the invoice reader treats as buffet lines
	packages := []entity.BuffetPackage{
		{ID: 1, Name: "Buffet Standard", Price: 199000, Active: true},
		{ID: 2, Name: "Buffet Premium", Price: 299000, Active: true},
		{ID: 3, Name: "Buffet Kids", Price: 99000, Active: true},
	}
	for i := range packages {
		var existing entity.BuffetPackage
		if err := db.Where("name = ?", packages[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&packages[i]).Error; err != nil {
				log.Printf("Warning: failed to create buffet package %s: %v", packages[i].Name, err)
			}
		}
	}

	// Menu ids start at 101 so they never collide with the ticket ids above
	foods := []entity.FoodItem{
		{ID: 101, Name: "Spring Rolls", Category: "starter", Price: 45000, Available: true},
		{ID: 102, Name: "Lotus Salad", Category: "starter", Price: 55000, Available: true},
		{ID: 103, Name: "Grilled Prawns", Category: "main", Price: 120000, Available: true},
		{ID: 104, Name: "Beef Pho", Category: "main", Price: 65000, Available: true},
		{ID: 105, Name: "Herbal Tea", Category: "drink", Price: 30000, Available: true},
		{ID: 106, Name: "Coconut Water", Category: "drink", Price: 35000, Available: true},
	}
	for i := range foods {
		var existing entity.FoodItem
		if err := db.Where("name = ?", foods[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&foods[i]).Error; err != nil {
				log.Printf("Warning: failed to create food item %s: %v", foods[i].Name, err)
			}
		}
	}

	// explicit ids bypass the Postgres serial sequences
	if db.Dialector.Name() == DriverPostgres {
		for _, table := range []string{"buffet_packages", "food_items"} {
			if err := db.Exec(syncSequenceSQL(table)).Error; err != nil {
				return fmt.Errorf("failed to sync %s id sequence: %w", table, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}

// syncSequenceSQL moves table's id sequence past the highest stored id so the
// next insert without an id does not collide with a seeded row.
func syncSequenceSQL(table string) string {
	return fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT COALESCE(MAX(id), 1) FROM %[1]s))", table)
}
