// Package handlers implements the HTTP endpoints of the grading API.
package handlers

import (
	"github.com/sirupsen/logrus"

	"pricing-grader/internal/config"
	"pricing-grader/internal/sim"
	"pricing-grader/internal/storage"
)

// Handler bundles the shared dependencies of all endpoints. The RNG bank
// cache is injected here once at startup; handlers never construct their own.
type Handler struct {
	Cfg   *config.Config
	Banks *sim.BankCache
	DB    *storage.DB
	Files *storage.FileStore
	Log   *logrus.Logger
}

// New creates the API handler set.
func New(cfg *config.Config, banks *sim.BankCache, db *storage.DB, files *storage.FileStore, log *logrus.Logger) *Handler {
	return &Handler{Cfg: cfg, Banks: banks, DB: db, Files: files, Log: log}
}
