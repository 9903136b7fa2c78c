// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides the PostgreSQL-backed implementation of
// the core repo interfaces, managing a connection pool with the GORM
// framework over the pgx driver. Entity specific repositories live
// in the sessionsrp, servicesrp, and washersrp sub-packages.
package postgres

// Schema contains the DDL statements of the project tables. It is
// executed by the `db init` command and by the repository tests; a
// re-execution is harmless since all statements are conditional.
const Schema = `
CREATE TABLE IF NOT EXISTS parking_sessions (
    sid uuid PRIMARY KEY,
    plate varchar(16) NOT NULL,
    vehicle_class varchar(16) NOT NULL,
    entry_time timestamptz NOT NULL,
    exit_time timestamptz,
    helmet_count integer NOT NULL DEFAULT 0,
    status varchar(16) NOT NULL,
    total_cost bigint NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS parking_sessions_plate_idx
    ON parking_sessions (plate);
CREATE INDEX IF NOT EXISTS parking_sessions_entry_time_idx
    ON parking_sessions (entry_time);
CREATE UNIQUE INDEX IF NOT EXISTS parking_sessions_active_plate_idx
    ON parking_sessions (plate) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS washing_services (
    sid uuid PRIMARY KEY,
    plate varchar(16) NOT NULL,
    service_type varchar(16) NOT NULL,
    price bigint NOT NULL,
    washer_id bigint,
    status varchar(16) NOT NULL,
    created_at timestamptz NOT NULL,
    started_at timestamptz,
    completed_at timestamptz
);
CREATE INDEX IF NOT EXISTS washing_services_created_at_idx
    ON washing_services (created_at);

CREATE TABLE IF NOT EXISTS washers (
    wid bigint PRIMARY KEY,
    name varchar(64) NOT NULL,
    commission_percent double precision NOT NULL DEFAULT 0
);
`
