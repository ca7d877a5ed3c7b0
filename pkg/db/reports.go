/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/sensora/pkg/models"
)

const (
	insertReportSQL = `INSERT INTO sensora_detect_reports
		(integration_id, consumed_ms, online_count, offline_count, finished_at)
		VALUES ($1, $2, $3, $4, $5)`

	latestReportSQL = `SELECT consumed_ms, online_count, offline_count, finished_at
		FROM sensora_detect_reports
		WHERE integration_id = $1
		ORDER BY finished_at DESC
		LIMIT 1`
)

// ReportStore keeps the history of completed sweeps.
type ReportStore struct {
	db Querier
}

func NewReportStore(db Querier) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) SaveReport(ctx context.Context, integrationID string, report *models.DetectReport) error {
	if report == nil {
		return nil
	}

	if _, err := s.db.Exec(ctx, insertReportSQL,
		integrationID, report.ConsumedTime, report.OnlineCount, report.OfflineCount, report.FinishedAt); err != nil {
		return fmt.Errorf("save detect report: %w", err)
	}

	return nil
}

// LatestReport returns the newest stored report or models.ErrNotFound.
func (s *ReportStore) LatestReport(ctx context.Context, integrationID string) (*models.DetectReport, error) {
	var report models.DetectReport

	err := s.db.QueryRow(ctx, latestReportSQL, integrationID).Scan(
		&report.ConsumedTime, &report.OnlineCount, &report.OfflineCount, &report.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load latest detect report: %w", err)
	}

	return &report, nil
}
