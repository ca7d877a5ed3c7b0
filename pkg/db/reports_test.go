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
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/sensora/pkg/models"
)

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

type fakeQuerier struct {
	execSQL  string
	execArgs []any
	row      pgx.Row
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.execSQL, q.execArgs = sql, args

	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (q *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return q.row
}

func TestReportStoreSave(t *testing.T) {
	q := &fakeQuerier{}
	store := NewReportStore(q)

	finished := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)
	report := &models.DetectReport{ConsumedTime: 120, OnlineCount: 7, OfflineCount: 2, FinishedAt: finished}

	require.NoError(t, store.SaveReport(context.Background(), "lab", report))
	assert.Equal(t, insertReportSQL, q.execSQL)
	assert.Equal(t, []any{"lab", int64(120), int64(7), int64(2), finished}, q.execArgs)

	require.NoError(t, store.SaveReport(context.Background(), "lab", nil))
}

func TestReportStoreLatest(t *testing.T) {
	finished := time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC)

	q := &fakeQuerier{row: scanFunc(func(dest ...any) error {
		*dest[0].(*int64) = 90
		*dest[1].(*int64) = 3
		*dest[2].(*int64) = 1
		*dest[3].(*time.Time) = finished

		return nil
	})}

	report, err := NewReportStore(q).LatestReport(context.Background(), "lab")
	require.NoError(t, err)
	assert.Equal(t, &models.DetectReport{ConsumedTime: 90, OnlineCount: 3, OfflineCount: 1, FinishedAt: finished}, report)
}

func TestReportStoreLatestEmptyHistory(t *testing.T) {
	q := &fakeQuerier{row: scanFunc(func(...any) error { return pgx.ErrNoRows })}

	_, err := NewReportStore(q).LatestReport(context.Background(), "lab")
	require.ErrorIs(t, err, models.ErrNotFound)

	q.row = scanFunc(func(...any) error { return errors.New("connection reset") })

	_, err = NewReportStore(q).LatestReport(context.Background(), "lab")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}
