package main

import (
	"fmt"
	"log"

	"share-system/config"
	"share-system/internal/service"
	dbPkg "share-system/pkg/db"
)

// 默认管理员账号
const (
	seedUsername = "admin"
	seedEmail    = "admin@example.com"
	seedPassword = "admin123"
)

func main() {
	cfg := config.LoadConfig()

	orm, err := dbPkg.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer func() {
		if sqlDB, err := orm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	fmt.Println("Database connected successfully")
	fmt.Printf("Driver: %s\n", cfg.Database.Driver)
	if cfg.Database.Driver == "sqlite" {
		fmt.Printf("Path: %s\n", cfg.Database.Path)
	} else {
		fmt.Printf("Database: %s\n", cfg.Database.Database)
	}

	// Confirm
	fmt.Print("\nWARNING: This operation will DROP ALL TABLES [user, friendship, friend_request, share, folder, share_in_folder]!\n")
	fmt.Print("Type 'YES' to confirm: ")
	var confirm string
	_, _ = fmt.Scanln(&confirm)
	if confirm != "YES" {
		fmt.Println("Operation cancelled")
		return
	}

	fmt.Print("Dropping tables... ")
	if err := dbPkg.DropAll(orm); err != nil {
		log.Fatalf("Failed: %v", err)
	}
	fmt.Println("Success")

	fmt.Print("Migrating tables... ")
	if err := dbPkg.AutoMigrate(orm); err != nil {
		log.Fatalf("Failed: %v", err)
	}
	fmt.Println("Success")

	// 注册时会一并创建默认文件夹
	services := service.NewServices(orm, cfg.Sharing)
	fmt.Printf("Seeding user %s... ", seedUsername)
	user, err := services.Users.Register(seedUsername, seedEmail, seedPassword)
	if err != nil {
		log.Fatalf("Failed: %v", err)
	}
	fmt.Printf("Success (id=%d)\n", user.ID)

	fmt.Println("\nDatabase reset completed!")
	fmt.Printf("Login with %s / %s\n", seedUsername, seedPassword)
}
