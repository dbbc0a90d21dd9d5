package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chainchat-labs/txengine/internal/apperrors"
	"github.com/chainchat-labs/txengine/internal/models"
	"github.com/chainchat-labs/txengine/internal/notify"
	"github.com/chainchat-labs/txengine/internal/registry"
)

// CreatePendingTransactionArgs describes the record persisted by
// PrepareAndPublish. UserAddress only keys the notification channel; it is
// not stored on the row.
type CreatePendingTransactionArgs struct {
	OperationType models.OperationType `validate:"required"`
	ChainID       int64                `validate:"required"`
	To            string               `validate:"required,eth_addr"`
	Value         string               `validate:"required"`
	Data          string               `validate:"required"`
	ButtonText    string               `validate:"required"`
	Details       map[string]string
	ChatID        string `validate:"required"`
	UserID        string `validate:"required"`
	UserAddress   string `validate:"required,eth_addr"`
	Approval      *notify.ApprovalHint
}

type TransactionService interface {
	// PrepareAndPublish persists one pending row then publishes it to the
	// user's notification channel. Publish failures are logged and
	// swallowed: the record stays retrievable either way.
	PrepareAndPublish(ctx context.Context, args CreatePendingTransactionArgs) (*models.PendingTransaction, error)
	GetPendingTransaction(id string) (*models.PendingTransaction, error)
	ListPendingByUser(userID string) ([]models.PendingTransaction, error)
	// UpdateTransactionStatus is the external confirmation write path: it
	// flips the status and records the hash without re-running business
	// rules.
	UpdateTransactionStatus(id string, status models.TransactionStatus, txHash string) error
}

type transactionService struct {
	db        *gorm.DB
	publisher notify.Publisher
	validator *validator.Validate
	logger    *zap.Logger
}

func NewTransactionService(db *gorm.DB, publisher notify.Publisher, logger *zap.Logger) TransactionService {
	return &transactionService{db: db, publisher: publisher, validator: validator.New(), logger: logger}
}

func (s *transactionService) PrepareAndPublish(ctx context.Context, args CreatePendingTransactionArgs) (*models.PendingTransaction, error) {
	if err := s.validator.Struct(args); err != nil {
		return nil, err
	}

	record := &models.PendingTransaction{
		ID:            uuid.New().String(),
		ChatID:        args.ChatID,
		UserID:        args.UserID,
		OperationType: args.OperationType,
		Status:        models.TransactionStatusPending,
		ChainID:       args.ChainID,
		To:            args.To,
		Value:         args.Value,
		Data:          args.Data,
		ButtonText:    args.ButtonText,
		Details:       args.Details,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, &apperrors.PersistenceError{Err: err}
	}

	notice := notify.TransactionNotice{
		RecordID:      record.ID,
		OperationType: string(record.OperationType),
		Status:        string(record.Status),
		ChainID:       record.ChainID,
		To:            record.To,
		Value:         record.Value,
		Data:          record.Data,
		ButtonText:    record.ButtonText,
		Details:       record.Details,
		ExplorerURL:   registry.ExplorerAddressURL(record.ChainID, record.To),
		Approval:      args.Approval,
	}
	if err := s.publisher.Publish(ctx, args.UserAddress, args.ChatID, notice); err != nil {
		// Never rolls back the persisted record; clients re-fetch pending
		// transactions instead.
		notifyErr := &apperrors.NotificationError{Err: err}
		s.logger.Warn("publish after persistence failed",
			zap.String("record_id", record.ID),
			zap.Error(notifyErr))
	}

	return record, nil
}

func (s *transactionService) GetPendingTransaction(id string) (*models.PendingTransaction, error) {
	var record models.PendingTransaction
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *transactionService) ListPendingByUser(userID string) ([]models.PendingTransaction, error) {
	var records []models.PendingTransaction
	err := s.db.
		Where("user_id = ? AND status = ?", userID, models.TransactionStatusPending).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (s *transactionService) UpdateTransactionStatus(id string, status models.TransactionStatus, txHash string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if txHash != "" {
		updates["transaction_hash"] = txHash
	}
	return s.db.Model(&models.PendingTransaction{}).Where("id = ?", id).Updates(updates).Error
}
