package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spamlookup/spamlookup-backend/internal/models"
)

// MemoryUserStore is an in-memory UserStore. Iteration order is insertion
// order, matching the creation-order contract of the Postgres backend.
type MemoryUserStore struct {
	mu    sync.Mutex
	users []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (s *MemoryUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.PhoneNumber == user.PhoneNumber {
			return ErrDuplicate
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if strings.EqualFold(s.users[i].Username, username) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) GetByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].PhoneNumber == phoneNumber {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) SearchByName(ctx context.Context, query string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	results := make([]models.User, 0)
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), q) {
			results = append(results, u)
		}
	}
	return results, nil
}

// MemoryContactStore is an in-memory ContactStore.
type MemoryContactStore struct {
	mu       sync.Mutex
	contacts []models.Contact
}

func NewMemoryContactStore() *MemoryContactStore {
	return &MemoryContactStore{}
}

func (s *MemoryContactStore) Create(ctx context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if c.OwnerID == contact.OwnerID && c.PhoneNumber == contact.PhoneNumber {
			return ErrDuplicate
		}
	}
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
	}
	s.contacts = append(s.contacts, *contact)
	return nil
}

func (s *MemoryContactStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.contacts {
		if s.contacts[i].ID == id {
			c := s.contacts[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryContactStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.Contact, 0)
	for _, c := range s.contacts {
		if c.OwnerID == ownerID {
			results = append(results, c)
		}
	}
	return results, nil
}

func (s *MemoryContactStore) FirstByPhone(ctx context.Context, phoneNumber string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.contacts {
		if s.contacts[i].PhoneNumber == phoneNumber {
			c := s.contacts[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryContactStore) ListByPhone(ctx context.Context, phoneNumber string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.Contact, 0)
	for _, c := range s.contacts {
		if c.PhoneNumber == phoneNumber {
			results = append(results, c)
		}
	}
	return results, nil
}

func (s *MemoryContactStore) SearchByName(ctx context.Context, query string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	results := make([]models.Contact, 0)
	for _, c := range s.contacts {
		name := strings.ToLower(c.Name)
		// starts-with is subsumed by contains; both kept to match the
		// documented filter
		if strings.HasPrefix(name, q) || strings.Contains(name, q) {
			results = append(results, c)
		}
	}
	return results, nil
}

func (s *MemoryContactStore) OwnerHasPhone(ctx context.Context, ownerID uuid.UUID, phoneNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if c.OwnerID == ownerID && c.PhoneNumber == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryContactStore) Update(ctx context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.contacts {
		if s.contacts[i].ID == contact.ID {
			for j := range s.contacts {
				if j != i && s.contacts[j].OwnerID == contact.OwnerID && s.contacts[j].PhoneNumber == contact.PhoneNumber {
					return ErrDuplicate
				}
			}
			s.contacts[i] = *contact
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryContactStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemorySpamStore is an in-memory SpamStore. Increments hold the store lock
// for the whole read-modify-write, so concurrent reports never lose counts.
type MemorySpamStore struct {
	mu        sync.Mutex
	reports   map[string]*models.SpamReport
	reporters map[string]*models.SpamReporter // key: userID + "|" + phone
}

func NewMemorySpamStore() *MemorySpamStore {
	return &MemorySpamStore{
		reports:   make(map[string]*models.SpamReport),
		reporters: make(map[string]*models.SpamReporter),
	}
}

func (s *MemorySpamStore) IncrementReport(ctx context.Context, phoneNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[phoneNumber]
	if !ok {
		report = &models.SpamReport{PhoneNumber: phoneNumber}
		s.reports[phoneNumber] = report
	}
	report.SpamCount++
	report.LastReportedAt = time.Now()
	return nil
}

func (s *MemorySpamStore) IncrementReporter(ctx context.Context, userID uuid.UUID, phoneNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userID.String() + "|" + phoneNumber
	reporter, ok := s.reporters[key]
	if !ok {
		reporter = &models.SpamReporter{
			UserID:          userID,
			PhoneNumber:     phoneNumber,
			FirstReportedAt: time.Now(),
		}
		s.reporters[key] = reporter
	}
	reporter.ReportCount++
	reporter.LastReportedAt = time.Now()
	return nil
}

func (s *MemorySpamStore) GetReport(ctx context.Context, phoneNumber string) (*models.SpamReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.reports[phoneNumber]
	if !ok {
		return nil, ErrNotFound
	}
	r := *report
	return &r, nil
}

func (s *MemorySpamStore) GetReporter(ctx context.Context, userID uuid.UUID, phoneNumber string) (*models.SpamReporter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reporter, ok := s.reporters[userID.String()+"|"+phoneNumber]
	if !ok {
		return nil, ErrNotFound
	}
	r := *reporter
	return &r, nil
}

// NewMemoryStores returns a Stores bundle backed entirely by memory.
func NewMemoryStores() *Stores {
	return &Stores{
		Users:    NewMemoryUserStore(),
		Contacts: NewMemoryContactStore(),
		Spam:     NewMemorySpamStore(),
	}
}
