package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/spamlookup/spamlookup-backend/internal/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// PostgresUserStore is the PostgreSQL UserStore.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, username, phone_number, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, user.ID, user.Name, user.Username, user.PhoneNumber, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *PostgresUserStore) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	var u models.User
	var email sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, name, username, phone_number, email, password_hash
		FROM users WHERE `+where, arg).Scan(
		&u.ID, &u.CreatedAt, &u.Name, &u.Username, &u.PhoneNumber, &email, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, "id = $1", id)
}

func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getOne(ctx, "LOWER(username) = LOWER($1)", username)
}

func (s *PostgresUserStore) GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	return s.getOne(ctx, "phone_number = $1", phoneNumber)
}

func (s *PostgresUserStore) SearchByName(ctx context.Context, query string) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, name, username, phone_number, email, password_hash
		FROM users
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at, id
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		var email sql.NullString
		if err := rows.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Username, &u.PhoneNumber, &email, &u.PasswordHash); err != nil {
			return nil, err
		}
		u.Email = email.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// PostgresContactStore is the PostgreSQL ContactStore.
type PostgresContactStore struct {
	db *sql.DB
}

func NewPostgresContactStore(db *sql.DB) *PostgresContactStore {
	return &PostgresContactStore{db: db}
}

const contactColumns = "id, created_at, owner_id, name, phone_number, is_spam, is_anonymous"

func scanContact(row interface{ Scan(...interface{}) error }) (*models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.CreatedAt, &c.OwnerID, &c.Name, &c.PhoneNumber, &c.IsSpam, &c.IsAnonymous)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresContactStore) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO contacts (id, owner_id, name, phone_number, is_spam, is_anonymous)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, contact.ID, contact.OwnerID, contact.Name, contact.PhoneNumber, contact.IsSpam, contact.IsAnonymous).Scan(&contact.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *PostgresContactStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresContactStore) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (s *PostgresContactStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	return s.queryMany(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE owner_id = $1 ORDER BY created_at, id`, ownerID)
}

func (s *PostgresContactStore) FirstByPhone(ctx context.Context, phoneNumber string) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE phone_number = $1 ORDER BY created_at, id LIMIT 1`, phoneNumber))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresContactStore) ListByPhone(ctx context.Context, phoneNumber string) ([]models.Contact, error) {
	return s.queryMany(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE phone_number = $1 ORDER BY created_at, id`, phoneNumber)
}

func (s *PostgresContactStore) SearchByName(ctx context.Context, query string) ([]models.Contact, error) {
	// starts-with is subsumed by contains; both kept to match the documented filter
	return s.queryMany(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE name ILIKE $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY created_at, id
	`, query)
}

func (s *PostgresContactStore) OwnerHasPhone(ctx context.Context, ownerID uuid.UUID, phoneNumber string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM contacts WHERE owner_id = $1 AND phone_number = $2)
	`, ownerID, phoneNumber).Scan(&exists)
	return exists, err
}

func (s *PostgresContactStore) Update(ctx context.Context, contact *models.Contact) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET name = $2, phone_number = $3, is_spam = $4, is_anonymous = $5
		WHERE id = $1
	`, contact.ID, contact.Name, contact.PhoneNumber, contact.IsSpam, contact.IsAnonymous)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresContactStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PostgresSpamStore is the PostgreSQL SpamStore. Increments are single
// upsert statements, so concurrent reports for the same number never lose
// updates.
type PostgresSpamStore struct {
	db *sql.DB
}

func NewPostgresSpamStore(db *sql.DB) *PostgresSpamStore {
	return &PostgresSpamStore{db: db}
}

func (s *PostgresSpamStore) IncrementReport(ctx context.Context, phoneNumber string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spam_reports (phone_number, spam_count, last_reported_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (phone_number)
		DO UPDATE SET spam_count = spam_reports.spam_count + 1, last_reported_at = NOW()
	`, phoneNumber)
	return err
}

func (s *PostgresSpamStore) IncrementReporter(ctx context.Context, userID uuid.UUID, phoneNumber string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spam_reporters (id, user_id, phone_number, report_count, first_reported_at, last_reported_at)
		VALUES ($1, $2, $3, 1, NOW(), NOW())
		ON CONFLICT (user_id, phone_number)
		DO UPDATE SET report_count = spam_reporters.report_count + 1, last_reported_at = NOW()
	`, uuid.New(), userID, phoneNumber)
	return err
}

func (s *PostgresSpamStore) GetReport(ctx context.Context, phoneNumber string) (*models.SpamReport, error) {
	var r models.SpamReport
	err := s.db.QueryRowContext(ctx, `
		SELECT phone_number, spam_count, last_reported_at
		FROM spam_reports WHERE phone_number = $1
	`, phoneNumber).Scan(&r.PhoneNumber, &r.SpamCount, &r.LastReportedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *PostgresSpamStore) GetReporter(ctx context.Context, userID uuid.UUID, phoneNumber string) (*models.SpamReporter, error) {
	var r models.SpamReporter
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, phone_number, report_count, first_reported_at, last_reported_at
		FROM spam_reporters WHERE user_id = $1 AND phone_number = $2
	`, userID, phoneNumber).Scan(&r.UserID, &r.PhoneNumber, &r.ReportCount, &r.FirstReportedAt, &r.LastReportedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// NewPostgresStores returns a Stores bundle backed by the given database.
func NewPostgresStores(db *sql.DB) *Stores {
	return &Stores{
		Users:    NewPostgresUserStore(db),
		Contacts: NewPostgresContactStore(db),
		Spam:     NewPostgresSpamStore(db),
	}
}
