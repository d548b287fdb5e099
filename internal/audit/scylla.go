package audit

import (
	"context"

	"github.com/gocql/gocql"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS audit_logs (
		id timeuuid PRIMARY KEY,
		user_id text,
		user_email text,
		action text,
		ip_address text,
		user_agent text,
		success boolean,
		error_msg text,
		timestamp timestamp
	)`

const insertEntry = `
	INSERT INTO audit_logs (
		id, user_id, user_email, action, ip_address, user_agent,
		success, error_msg, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ScyllaSink écrit dans la table audit_logs du keyspace de la session.
type ScyllaSink struct {
	session *gocql.Session
}

func NewScyllaSink(session *gocql.Session) *ScyllaSink {
	return &ScyllaSink{session: session}
}

func (s *ScyllaSink) EnsureSchema(ctx context.Context) error {
	return s.session.Query(createTable).WithContext(ctx).Exec()
}

func (s *ScyllaSink) Write(ctx context.Context, e Entry) error {
	return s.session.Query(insertEntry,
		gocql.UUIDFromTime(e.Timestamp), e.UserID, e.UserEmail, e.Action,
		e.IPAddress, e.UserAgent, e.Success, e.ErrorMsg, e.Timestamp,
	).WithContext(ctx).Exec()
}
