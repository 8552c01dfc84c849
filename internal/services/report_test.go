package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spamlookup/spamlookup-backend/internal/models"
	"github.com/spamlookup/spamlookup-backend/internal/store"
	"github.com/spamlookup/spamlookup-backend/pkg/utils"
)

func seedUser(t *testing.T, stores *store.Stores, name, username, phone, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Username: username, PhoneNumber: phone, Email: email}
	require.NoError(t, stores.Users.Create(context.Background(), user))
	return user
}

func TestReportCreatesAnonymousContact(t *testing.T) {
	ctx := context.Background()
	stores := store.NewMemoryStores()
	svc := NewReportService(stores)

	reporter := seedUser(t, stores, "User One", "user1", "+1234567890", "")

	require.NoError(t, svc.Report(ctx, reporter, "+1122334455"))

	// A shadow contact is created under the reporter
	contact, err := stores.Contacts.FirstByPhone(ctx, "+1122334455")
	require.NoError(t, err)
	assert.Equal(t, reporter.ID, contact.OwnerID)
	assert.Equal(t, "Anonymous", contact.Name)
	assert.True(t, contact.IsAnonymous)
	assert.True(t, contact.IsSpam)

	report, err := stores.Spam.GetReport(ctx, "+1122334455")
	require.NoError(t, err)
	assert.Equal(t, 1, report.SpamCount)

	reporterRecord, err := stores.Spam.GetReporter(ctx, reporter.ID, "+1122334455")
	require.NoError(t, err)
	assert.Equal(t, 1, reporterRecord.ReportCount)
}

func TestReportFlagsExistingContactAcrossOwners(t *testing.T) {
	ctx := context.Background()
	stores := store.NewMemoryStores()
	svc := NewReportService(stores)

	reporter := seedUser(t, stores, "User One", "user1", "+1234567890", "")
	other := seedUser(t, stores, "User Two", "user2", "+1987654321", "")

	// The contact belongs to another user; the lookup is global by design
	existing := &models.Contact{OwnerID: other.ID, Name: "Jane", PhoneNumber: "+1122334455"}
	require.NoError(t, stores.Contacts.Create(ctx, existing))

	require.NoError(t, svc.Report(ctx, reporter, "+1122334455"))

	got, err := stores.Contacts.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSpam)
	assert.Equal(t, other.ID, got.OwnerID)
	assert.False(t, got.IsAnonymous)

	// No second contact was created
	all, err := stores.Contacts.ListByPhone(ctx, "+1122334455")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepeatReportsKeepCounting(t *testing.T) {
	ctx := context.Background()
	stores := store.NewMemoryStores()
	svc := NewReportService(stores)

	reporter := seedUser(t, stores, "User One", "user1", "+1234567890", "")

	const n = 4
	for i := 0; i < n; i++ {
		require.NoError(t, svc.Report(ctx, reporter, "+1122334455"))
	}

	report, err := stores.Spam.GetReport(ctx, "+1122334455")
	require.NoError(t, err)
	assert.Equal(t, n, report.SpamCount)

	reporterRecord, err := stores.Spam.GetReporter(ctx, reporter.ID, "+1122334455")
	require.NoError(t, err)
	assert.Equal(t, n, reporterRecord.ReportCount)
}

func TestReportOwnNumberForbidden(t *testing.T) {
	ctx := context.Background()
	stores := store.NewMemoryStores()
	svc := NewReportService(stores)

	reporter := seedUser(t, stores, "User One", "user1", "+1234567890", "")

	err := svc.Report(ctx, reporter, "+1234567890")
	assert.ErrorIs(t, err, ErrSelfReport)

	// Nothing was written
	_, err = stores.Spam.GetReport(ctx, "+1234567890")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = stores.Contacts.FirstByPhone(ctx, "+1234567890")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReportAnotherUsersNumber(t *testing.T) {
	ctx := context.Background()
	stores := store.NewMemoryStores()
	svc := NewReportService(stores)

	reporter := seedUser(t, stores, "User One", "user1", "+1234567890", "")
	target := seedUser(t, stores, "User Two", "user2", "+1987654321", "")

	require.NoError(t, svc.Report(ctx, reporter, target.PhoneNumber))

	report, err := stores.Spam.GetReport(ctx, target.PhoneNumber)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SpamCount)
}

func TestReportInvalidPhone(t *testing.T) {
	ctx := context.Background()
	stores := store.NewMemoryStores()
	svc := NewReportService(stores)

	reporter := seedUser(t, stores, "User One", "user1", "+1234567890", "")

	err := svc.Report(ctx, reporter, "not-a-number")
	assert.ErrorIs(t, err, utils.ErrInvalidPhoneNumber)
}
