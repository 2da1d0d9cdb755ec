package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/platewise/reservations/accounts"
	"github.com/platewise/reservations/auditlog"
	"github.com/platewise/reservations/config"
	"github.com/platewise/reservations/menu"
	"github.com/platewise/reservations/storage"
	"github.com/platewise/reservations/store"
	"github.com/platewise/reservations/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	files, err := storage.New(cfg.DataDir)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to prepare data directory: %v", err)
	}

	audit, err := auditlog.Open(filepath.Join(cfg.DataDir, "audit.db"))
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open audit log: %v", err)
	}

	reservations, err := store.New(files, cfg.Clock())
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load reservations: %v", err)
	}

	accountMgr, err := accounts.NewManager(files, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load accounts: %v", err)
	}

	utils.InfoLogger.Printf("Reservation desk ready (data dir %s, reference date %s %s)",
		cfg.DataDir, cfg.ReferenceDate, cfg.Clock().TimeString())

	menu.New(os.Stdin, os.Stdout, reservations, accountMgr, audit).Run()

	utils.InfoLogger.Println("Shutting down")
}
