package postgres

var schema = `
CREATE TABLE IF NOT EXISTS stock (
	id BIGSERIAL PRIMARY KEY,
	code VARCHAR(255) NOT NULL UNIQUE,
	name VARCHAR(255) NOT NULL,
	balance NUMERIC NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS ledger (
	id BIGSERIAL PRIMARY KEY,
	recorded_at VARCHAR(32) NOT NULL,
	code VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL,
	kind VARCHAR(32) NOT NULL,
	quantity NUMERIC NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	actor VARCHAR(255) NOT NULL DEFAULT ''
);
`
