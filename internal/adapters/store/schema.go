package store

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		genre TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		email2 TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		user_code TEXT NOT NULL DEFAULT '',
		buyer_id TEXT NOT NULL DEFAULT '',
		producer_id TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL DEFAULT '',
		domain2 TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
	`CREATE INDEX IF NOT EXISTS idx_users_domain ON users(domain)`,
	`CREATE TABLE IF NOT EXISTS msg_emails (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		user_ud TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		ai_name1 TEXT NOT NULL DEFAULT '',
		ai_name2 TEXT NOT NULL DEFAULT '',
		ai_name1pre TEXT NOT NULL DEFAULT '',
		ai_name2pre TEXT NOT NULL DEFAULT '',
		ai_name3 TEXT NOT NULL DEFAULT '',
		ai_genre TEXT NOT NULL DEFAULT '',
		ai_email TEXT NOT NULL DEFAULT '',
		ai_domain TEXT NOT NULL DEFAULT '',
		ai_is_personal INTEGER NOT NULL DEFAULT 0,
		ai_confidence REAL NOT NULL DEFAULT 0,
		ai_status TEXT NOT NULL DEFAULT 'unprocessed',
		ai_notes TEXT NOT NULL DEFAULT '',
		ai_domain_convention TEXT NOT NULL DEFAULT '',
		ai_version TEXT NOT NULL DEFAULT '',
		ai_model TEXT NOT NULL DEFAULT '',
		ai_processed_at INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_msg_emails_ai_status ON msg_emails(ai_status)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		genre VARCHAR(8) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL DEFAULT '',
		email2 VARCHAR(255) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		user_code VARCHAR(64) NOT NULL DEFAULT '',
		buyer_id VARCHAR(64) NOT NULL DEFAULT '',
		producer_id VARCHAR(64) NOT NULL DEFAULT '',
		domain VARCHAR(255) NOT NULL DEFAULT '',
		domain2 VARCHAR(255) NOT NULL DEFAULT '',
		INDEX idx_users_email (email),
		INDEX idx_users_domain (domain)
	)`,
	`CREATE TABLE IF NOT EXISTS msg_emails (
		id VARCHAR(64) PRIMARY KEY,
		input TEXT NOT NULL,
		address VARCHAR(255) NOT NULL DEFAULT '',
		user_ud VARCHAR(64) NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		ai_name1 VARCHAR(100) NOT NULL DEFAULT '',
		ai_name2 VARCHAR(100) NOT NULL DEFAULT '',
		ai_name1pre VARCHAR(20) NOT NULL DEFAULT '',
		ai_name2pre VARCHAR(20) NOT NULL DEFAULT '',
		ai_name3 VARCHAR(255) NOT NULL DEFAULT '',
		ai_genre VARCHAR(8) NOT NULL DEFAULT '',
		ai_email VARCHAR(255) NOT NULL DEFAULT '',
		ai_domain VARCHAR(255) NOT NULL DEFAULT '',
		ai_is_personal TINYINT(1) NOT NULL DEFAULT 0,
		ai_confidence DECIMAL(3,2) NOT NULL DEFAULT 0,
		ai_status VARCHAR(32) NOT NULL DEFAULT 'unprocessed',
		ai_notes TEXT,
		ai_domain_convention VARCHAR(32) NOT NULL DEFAULT '',
		ai_version VARCHAR(32) NOT NULL DEFAULT '',
		ai_model VARCHAR(128) NOT NULL DEFAULT '',
		ai_processed_at BIGINT NULL,
		INDEX idx_msg_emails_ai_status (ai_status)
	)`,
}
