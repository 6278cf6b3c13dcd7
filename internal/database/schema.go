package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema creates the tables idempotently.  stay_reserved_dates has no
// surrogate key: (stay_id, date) is the primary key and rejects a second
// booking of the same night.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
        username      VARCHAR(64)  NOT NULL PRIMARY KEY,
        password_hash VARCHAR(255) NOT NULL,
        role          ENUM('HOST','GUEST') NOT NULL,
        created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS stays (
        id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name         VARCHAR(255) NOT NULL,
        description  TEXT NOT NULL,
        address      VARCHAR(512) NOT NULL,
        guest_number INT NOT NULL,
        host         VARCHAR(64) NOT NULL,
        KEY idx_stays_host (host),
        CONSTRAINT fk_stays_host FOREIGN KEY (host) REFERENCES users (username)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS stay_images (
        url     VARCHAR(512) NOT NULL PRIMARY KEY,
        stay_id BIGINT UNSIGNED NOT NULL,
        KEY idx_stay_images_stay (stay_id),
        CONSTRAINT fk_stay_images_stay FOREIGN KEY (stay_id) REFERENCES stays (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
        id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        checkin_date  DATE NOT NULL,
        checkout_date DATE NOT NULL,
        guest         VARCHAR(64) NOT NULL,
        stay_id       BIGINT UNSIGNED NOT NULL,
        KEY idx_reservations_guest (guest),
        KEY idx_reservations_stay_checkout (stay_id, checkout_date),
        CONSTRAINT fk_reservations_guest FOREIGN KEY (guest) REFERENCES users (username),
        CONSTRAINT fk_reservations_stay FOREIGN KEY (stay_id) REFERENCES stays (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS stay_reserved_dates (
        stay_id BIGINT UNSIGNED NOT NULL,
        date    DATE NOT NULL,
        PRIMARY KEY (stay_id, date),
        CONSTRAINT fk_reserved_dates_stay FOREIGN KEY (stay_id) REFERENCES stays (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
