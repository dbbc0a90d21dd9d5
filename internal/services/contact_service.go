package services

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"

	"github.com/chainchat-labs/txengine/internal/models"
)

type ContactService interface {
	CreateContact(userID, name, address string) (*models.Contact, error)
	FindContact(userID, name string) (*models.Contact, error)
	ListContacts(userID string) ([]models.Contact, error)
}

type contactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) ContactService {
	return &contactService{db: db}
}

func (s *contactService) CreateContact(userID, name, address string) (*models.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("contact name cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid address %q", address)
	}

	var existing models.Contact
	err := s.db.Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("contact %q already exists", name)
	}

	contact := &models.Contact{
		UserID:  userID,
		Name:    name,
		Address: common.HexToAddress(address).Hex(),
	}
	if err := s.db.Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) FindContact(userID, name string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(strings.TrimSpace(name))).First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *contactService) ListContacts(userID string) ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.Where("user_id = ?", userID).Order("name ASC").Find(&contacts).Error
	return contacts, err
}
