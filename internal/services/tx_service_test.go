package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/database"
	"github.com/chainchat-labs/txengine/internal/models"
	"github.com/chainchat-labs/txengine/internal/services"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	db        *database.Database
	publisher *fakePublisher
	tx        services.TransactionService
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	db, err := database.NewDatabase(":memory:")
	suite.Require().NoError(err)
	suite.db = db
	suite.publisher = &fakePublisher{}
	suite.tx = services.NewTransactionService(db.DB, suite.publisher, zap.NewNop())
}

func (suite *TransactionServiceTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *TransactionServiceTestSuite) transferArgs() services.CreatePendingTransactionArgs {
	return services.CreatePendingTransactionArgs{
		OperationType: models.OperationTransfer,
		ChainID:       1,
		To:            "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		Value:         "0x38d7ea4c68000",
		Data:          "0x",
		ButtonText:    "Send 0.001 ETH",
		Details:       map[string]string{"token": "ETH", "amount": "0.001"},
		ChatID:        "chat-1",
		UserID:        "user-1",
		UserAddress:   "0x1111111111111111111111111111111111111111",
	}
}

func (suite *TransactionServiceTestSuite) TestPrepareAndPublishPersistsAndNotifies() {
	record, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)
	suite.NotEmpty(record.ID)
	suite.Equal(models.TransactionStatusPending, record.Status)

	stored, err := suite.tx.GetPendingTransaction(record.ID)
	suite.Require().NoError(err)
	suite.Equal(record.ID, stored.ID)
	suite.Equal("ETH", stored.Details["token"])

	notices := suite.publisher.published()
	suite.Require().Len(notices, 1)
	suite.Equal(record.ID, notices[0].RecordID)
	suite.Equal("transfer", notices[0].OperationType)
}

func (suite *TransactionServiceTestSuite) TestPrepareAndPublishRejectsIncompleteArgs() {
	args := suite.transferArgs()
	args.ChatID = ""

	_, err := suite.tx.PrepareAndPublish(context.Background(), args)
	suite.Error(err)

	var count int64
	suite.Require().NoError(suite.db.DB.Model(&models.PendingTransaction{}).Count(&count).Error)
	suite.Zero(count)
	suite.Empty(suite.publisher.published())
}

func (suite *TransactionServiceTestSuite) TestPublishFailureDoesNotRollBack() {
	suite.publisher.err = errors.New("no connected client")

	record, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)

	// The record stays retrievable even though nobody was notified.
	stored, err := suite.tx.GetPendingTransaction(record.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TransactionStatusPending, stored.Status)
}

func (suite *TransactionServiceTestSuite) TestListPendingByUserNewestFirst() {
	first, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)

	// Force distinct created_at values; sqlite timestamps round coarsely.
	suite.Require().NoError(suite.db.DB.Model(&models.PendingTransaction{}).
		Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-time.Hour)).Error)

	second, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)

	records, err := suite.tx.ListPendingByUser("user-1")
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(second.ID, records[0].ID)
	suite.Equal(first.ID, records[1].ID)
}

func (suite *TransactionServiceTestSuite) TestListPendingExcludesOtherUsersAndStatuses() {
	record, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)

	other := suite.transferArgs()
	other.UserID = "user-2"
	_, err = suite.tx.PrepareAndPublish(context.Background(), other)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.tx.UpdateTransactionStatus(record.ID, models.TransactionStatusConfirmed, "0xhash"))

	records, err := suite.tx.ListPendingByUser("user-1")
	suite.Require().NoError(err)
	suite.Empty(records)
}

func (suite *TransactionServiceTestSuite) TestUpdateTransactionStatusRecordsHash() {
	record, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.tx.UpdateTransactionStatus(record.ID, models.TransactionStatusConfirmed, "0xdeadbeef"))

	stored, err := suite.tx.GetPendingTransaction(record.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TransactionStatusConfirmed, stored.Status)
	suite.Require().NotNil(stored.TransactionHash)
	suite.Equal("0xdeadbeef", *stored.TransactionHash)
}

func (suite *TransactionServiceTestSuite) TestUpdateWithoutHashKeepsHashEmpty() {
	record, err := suite.tx.PrepareAndPublish(context.Background(), suite.transferArgs())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.tx.UpdateTransactionStatus(record.ID, models.TransactionStatusFailed, ""))

	stored, err := suite.tx.GetPendingTransaction(record.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TransactionStatusFailed, stored.Status)
	suite.Nil(stored.TransactionHash)
}

func (suite *TransactionServiceTestSuite) TestGetPendingTransactionNotFound() {
	_, err := suite.tx.GetPendingTransaction("missing")
	suite.Error(err)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
