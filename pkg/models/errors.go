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

package models

import "errors"

var (
	// ErrNotFound is returned when a device or report does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a device identifier is already registered.
	ErrConflict = errors.New("conflict")
	// ErrSweepInProgress is returned when a benchmark is requested while one is running.
	ErrSweepInProgress = errors.New("benchmark sweep already in progress")
	// ErrSweepCanceled is returned when a sweep's context ends before every
	// device was probed. No report is produced for it.
	ErrSweepCanceled = errors.New("benchmark sweep canceled")
	// ErrInvalidDevice is returned when an add-device request fails validation.
	ErrInvalidDevice = errors.New("invalid device")

	errInvalidDuration = errors.New("invalid duration")
)
