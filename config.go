// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pdftitle/xtract/logger"
)

type ParsingMode string

const (
	Strict     ParsingMode = "strict"
	BestEffort ParsingMode = "best-effort"
)

type Config struct {
	MaxConcurrentPDFs int           `validate:"min=1,max=10"`
	MaxWorkersPerPDF  int           `validate:"min=1,max=10"`
	WorkerTimeout     time.Duration `validate:"required"`
	ParsingMode       ParsingMode   `validate:"oneof=strict best-effort"`
	MaxRetries        int           `validate:"min=0,max=3"`
	MaxTotalChars     int           `validate:"min=0"`
	DebugOn           bool
	Logger            logger.LogFunc
	// JournalBlocklistPath, if set, names a newline-delimited file of
	// running-header journal names the title heuristic (C8) must reject.
	JournalBlocklistPath string
	// Title tunes the acceptability/selection thresholds the title
	// heuristic (C8) applies on top of the blocklist; the zero value
	// falls back to DefaultTitleConfig's constants.
	Title TitleConfig
	// Metrics           MetricsInterface
}

// TitleConfig exposes the C8 title-heuristic tunables (spec.md §6) as
// per-Config overrides instead of the package-level constants title.go
// otherwise falls back to, so callers extracting titles from a corpus
// with unusually large or small running text can retune the heuristic
// without a code change.
type TitleConfig struct {
	MinAcceptableAvgFontSize float64 `validate:"min=0"`
	TitleSizeRatio           float64 `validate:"min=0,max=1"`
	TitleMinSize             float64 `validate:"min=0"`
	TitleSmallPageThreshold  float64 `validate:"min=0"`
}

// DefaultTitleConfig matches the package-level constants in title.go.
func DefaultTitleConfig() TitleConfig {
	return TitleConfig{
		MinAcceptableAvgFontSize: minAcceptableAvgFontSize,
		TitleSizeRatio:           titleSizeRatio,
		TitleMinSize:             titleMinSize,
		TitleSmallPageThreshold:  titleSmallPageThreshold,
	}
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxConcurrentPDFs: 5,
		MaxWorkersPerPDF:  1,
		WorkerTimeout:     5 * time.Second,
		ParsingMode:       BestEffort,
		MaxRetries:        3,
		MaxTotalChars:     0,
		DebugOn:           false,
		Title:             DefaultTitleConfig(),
	}
}

func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
