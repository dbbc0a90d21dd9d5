package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/chainchat-labs/txengine/internal/models"
	"github.com/chainchat-labs/txengine/internal/services"
)

type confirmRequest struct {
	TransactionHash string                   `json:"transaction_hash"`
	Status          models.TransactionStatus `json:"status"`
}

func (s *APIServer) handleTransfer(c *fiber.Ctx) error {
	var req services.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(services.NewErrorResponse(err))
	}
	result, err := s.engine.PrepareTransfer(c.Context(), req)
	if err != nil {
		s.logger.Info("transfer preparation failed", zap.Error(err))
		return c.JSON(services.NewErrorResponse(err))
	}
	return c.JSON(services.NewSuccessResponse(result))
}

func (s *APIServer) handleApprove(c *fiber.Ctx) error {
	var req services.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(services.NewErrorResponse(err))
	}
	result, err := s.engine.PrepareApprove(c.Context(), req)
	if err != nil {
		s.logger.Info("approve preparation failed", zap.Error(err))
		return c.JSON(services.NewErrorResponse(err))
	}
	return c.JSON(services.NewSuccessResponse(result))
}

func (s *APIServer) handleSwap(c *fiber.Ctx) error {
	var req services.SwapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(services.NewErrorResponse(err))
	}
	result, err := s.engine.PrepareSwap(c.Context(), req)
	if err != nil {
		s.logger.Info("swap preparation failed", zap.Error(err))
		return c.JSON(services.NewErrorResponse(err))
	}
	return c.JSON(services.NewSuccessResponse(result))
}

func (s *APIServer) handleQuote(c *fiber.Ctx) error {
	var req services.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(services.NewErrorResponse(err))
	}
	result, err := s.engine.GetQuotes(c.Context(), req)
	if err != nil {
		return c.JSON(services.NewErrorResponse(err))
	}
	return c.JSON(services.NewSuccessResponse(result))
}

func (s *APIServer) handleGetTransaction(c *fiber.Ctx) error {
	record, err := s.tx.GetPendingTransaction(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transaction not found"})
	}
	return c.JSON(record)
}

func (s *APIServer) handleListPending(c *fiber.Ctx) error {
	records, err := s.tx.ListPendingByUser(c.Params("user_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list transactions"})
	}
	return c.JSON(records)
}

// handleConfirmTransaction is the external confirmation write path: the
// signing client reports the hash and final status. Business rules are not
// re-validated here.
func (s *APIServer) handleConfirmTransaction(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Status != models.TransactionStatusConfirmed && req.Status != models.TransactionStatusFailed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be confirmed or failed"})
	}

	id := c.Params("id")
	if _, err := s.tx.GetPendingTransaction(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "transaction not found"})
	}
	if err := s.tx.UpdateTransactionStatus(id, req.Status, req.TransactionHash); err != nil {
		s.logger.Error("status update failed", zap.String("record_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update transaction"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
