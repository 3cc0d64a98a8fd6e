package database

import (
    "context"
    "database/sql"
    "fmt"
)

// schema is applied in order on startup.  Every statement is idempotent.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        id            CHAR(36)     NOT NULL PRIMARY KEY,
        full_name     VARCHAR(100) NOT NULL,
        email         VARCHAR(255) NOT NULL,
        password_hash VARCHAR(255) NOT NULL,
        phone         VARCHAR(20)  NULL,
        created_at    DATETIME(3)  NOT NULL,
        updated_at    DATETIME(3)  NOT NULL,
        UNIQUE KEY uq_users_email (email)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS user_tokens (
        id         CHAR(36)    NOT NULL PRIMARY KEY,
        user_id    CHAR(36)    NOT NULL,
        token_hash CHAR(64)    NOT NULL,
        expires_at DATETIME(3) NOT NULL,
        created_at DATETIME(3) NOT NULL,
        updated_at DATETIME(3) NOT NULL,
        UNIQUE KEY uq_user_tokens_hash (token_hash),
        KEY idx_user_tokens_user (user_id),
        KEY idx_user_tokens_expires (expires_at),
        CONSTRAINT fk_user_tokens_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS customers (
        id         CHAR(36)     NOT NULL PRIMARY KEY,
        user_id    CHAR(36)     NOT NULL,
        full_name  VARCHAR(100) NOT NULL,
        email      VARCHAR(255) NULL,
        phone      VARCHAR(20)  NULL,
        gender     VARCHAR(20)  NULL,
        address    VARCHAR(500) NULL,
        created_at DATETIME(3)  NOT NULL,
        updated_at DATETIME(3)  NOT NULL,
        KEY idx_customers_owner_created (user_id, created_at),
        CONSTRAINT fk_customers_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

    `CREATE TABLE IF NOT EXISTS measurements (
        id          CHAR(36)    NOT NULL PRIMARY KEY,
        customer_id CHAR(36)    NOT NULL,
        type        VARCHAR(50) NOT NULL,
        data        JSON        NOT NULL,
        notes       TEXT        NULL,
        created_at  DATETIME(3) NOT NULL,
        updated_at  DATETIME(3) NOT NULL,
        KEY idx_measurements_customer (customer_id, created_at),
        CONSTRAINT fk_measurements_customer FOREIGN KEY (customer_id) REFERENCES customers (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the tables the API needs if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
    for i, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("migrate step %d: %w", i+1, err)
        }
    }
    return nil
}
