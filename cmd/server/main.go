package main

import (
	"bufio"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"farmbook/backend/internal/api"
	"farmbook/backend/internal/config"
	"farmbook/backend/internal/sheet"
	"farmbook/backend/internal/sms"
	"farmbook/backend/internal/store"
)

func main() {
	loadEnvFiles(".env", "backend/.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var remote store.RemoteOpener
	client, err := sheet.NewClient(cfg.SheetBaseURL, cfg.SheetAccessToken)
	if err != nil {
		log.Printf("warning: remote sheet client unavailable: %v", err)
	} else {
		remote = client
	}

	var fallback *store.FallbackStore
	if cfg.FallbackEnabled {
		fallback = store.NewFallbackStore(cfg.FallbackPath)
	}
	adapter := store.NewAdapter(remote, cfg.SheetID, fallback, cfg.FallbackMirror)

	smsClient := sms.NewClient(cfg.ArkeselAPIKey, cfg.ArkeselSenderID)
	if smsClient == nil {
		log.Printf("warning: ARKESEL_API_KEY not set, sms sending disabled")
	}

	srv := api.NewServer(adapter, smsClient, cfg)
	log.Printf("farmbook backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, srv.Mux()); err != nil {
		log.Fatal(err)
	}
}

func loadEnvFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := loadEnvFile(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("warning: failed to load %s: %v", p, err)
		}
	}
}

func loadEnvFile(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		val = strings.Trim(val, "\"'")
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, val)
		}
	}

	return scanner.Err()
}
