package database

import "context"

// Schemas are applied in order at startup. Statements must stay idempotent.
var Schemas = []string{`
CREATE TABLE IF NOT EXISTS groups (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT,
	invite_code TEXT NOT NULL UNIQUE,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`, `
CREATE TABLE IF NOT EXISTS group_members (
	group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	user_id UUID NOT NULL,
	role TEXT NOT NULL DEFAULT 'member',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),

	PRIMARY KEY (group_id, user_id)
);
`, `
CREATE TABLE IF NOT EXISTS meeting_instances (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	series_id UUID,
	series_index INT,
	series_total INT,
	date TIMESTAMPTZ NOT NULL,
	title TEXT NOT NULL,
	description TEXT,
	group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	created_by UUID NOT NULL,
	version INT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),

	CHECK (series_id IS NULL OR (series_index IS NOT NULL AND series_total IS NOT NULL))
);
`, `
CREATE INDEX IF NOT EXISTS idx_meeting_instances_series_id ON meeting_instances(series_id);
`, `
CREATE INDEX IF NOT EXISTS idx_meeting_instances_group_id ON meeting_instances(group_id);
`, `
CREATE TABLE IF NOT EXISTS attendees (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	meeting_id UUID NOT NULL REFERENCES meeting_instances(id) ON DELETE CASCADE,
	user_id UUID NOT NULL,
	status TEXT NOT NULL DEFAULT 'invited',
	is_series_rsvp BOOLEAN NOT NULL DEFAULT false,
	responded_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),

	UNIQUE (meeting_id, user_id)
);
`, `
CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id UUID NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	type TEXT NOT NULL,
	data JSONB,
	is_read BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`, `
CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
`}

// EnsureSchema applies the schema statements.
func (d *Database) EnsureSchema(ctx context.Context) error {
	for _, stmt := range Schemas {
		if _, err := d.sqlx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
