package utils

import (
	"log"
	"testing"

	"portal/src/db"
	"portal/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	sdb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sdb,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestListPortalMessagesClampsLimit(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)
	teamId := uuid.New()
	customerId := uuid.New()
	emptyRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "team_id", "customer_id", "message"})
	}

	t.Run("zero limit falls back to the default page size", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM "portal_messages"`).
			WithArgs(teamId, customerId, 100).
			WillReturnRows(emptyRows())

		messages, err := ListPortalMessages(teamId, customerId, 0)

		assert.Nil(t, err)
		assert.Empty(t, messages)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("oversized limit is clamped to the maximum", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM "portal_messages"`).
			WithArgs(teamId, customerId, 200).
			WillReturnRows(emptyRows())

		messages, err := ListPortalMessages(teamId, customerId, 5000)

		assert.Nil(t, err)
		assert.Empty(t, messages)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("in-range limit passes through", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM "portal_messages"`).
			WithArgs(teamId, customerId, 25).
			WillReturnRows(emptyRows())

		messages, err := ListPortalMessages(teamId, customerId, 25)

		assert.Nil(t, err)
		assert.Empty(t, messages)
		assert.Nil(t, mock.ExpectationsWereMet())
	})
}

func TestCreatePortalMessageRejectsWhitespaceOnlyBody(t *testing.T) {
	message, err := CreatePortalMessage(&CreatePortalMessageParams{
		TeamID:     uuid.New(),
		CustomerID: uuid.New(),
		SenderType: types.SenderTypeClient,
		Message:    "   ",
	})

	assert.Nil(t, message)
	perr, ok := err.(*types.PortalError)
	assert.True(t, ok)
	assert.Equal(t, types.ErrKindValidation, perr.Kind)
}

func TestCreatePortalMessageRejectsMalformedRequestId(t *testing.T) {
	badId := "not-a-uuid"
	message, err := CreatePortalMessage(&CreatePortalMessageParams{
		TeamID:     uuid.New(),
		CustomerID: uuid.New(),
		RequestID:  &badId,
		SenderType: types.SenderTypeClient,
		Message:    "hello",
	})

	assert.Nil(t, message)
	perr, ok := err.(*types.PortalError)
	assert.True(t, ok)
	assert.Equal(t, types.ErrKindValidation, perr.Kind)
}

func TestTrimOptional(t *testing.T) {
	assert.Nil(t, trimOptional(nil))

	blank := "   "
	assert.Nil(t, trimOptional(&blank))

	padded := "  someone  "
	trimmed := trimOptional(&padded)
	assert.NotNil(t, trimmed)
	assert.Equal(t, "someone", *trimmed)
}
