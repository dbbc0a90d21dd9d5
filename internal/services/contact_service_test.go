package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/chainchat-labs/txengine/internal/database"
	"github.com/chainchat-labs/txengine/internal/services"
)

type ContactServiceTestSuite struct {
	suite.Suite
	db       *database.Database
	contacts services.ContactService
}

func (suite *ContactServiceTestSuite) SetupTest() {
	db, err := database.NewDatabase(":memory:")
	suite.Require().NoError(err)
	suite.db = db
	suite.contacts = services.NewContactService(db.DB)
}

func (suite *ContactServiceTestSuite) TearDownTest() {
	suite.db.Close()
}

func (suite *ContactServiceTestSuite) TestCreateAndFind() {
	contact, err := suite.contacts.CreateContact("user-1", "Alice", "0x1111111111111111111111111111111111111111")
	suite.Require().NoError(err)
	suite.Equal("Alice", contact.Name)

	found, err := suite.contacts.FindContact("user-1", "ALICE")
	suite.Require().NoError(err)
	suite.Equal(contact.ID, found.ID)
}

func (suite *ContactServiceTestSuite) TestCreateRejectsDuplicateName() {
	_, err := suite.contacts.CreateContact("user-1", "alice", "0x1111111111111111111111111111111111111111")
	suite.Require().NoError(err)

	_, err = suite.contacts.CreateContact("user-1", "Alice", "0x2222222222222222222222222222222222222222")
	suite.Error(err)

	// Same name under a different user is fine.
	_, err = suite.contacts.CreateContact("user-2", "alice", "0x2222222222222222222222222222222222222222")
	suite.NoError(err)
}

func (suite *ContactServiceTestSuite) TestCreateRejectsBadInput() {
	_, err := suite.contacts.CreateContact("user-1", "", "0x1111111111111111111111111111111111111111")
	suite.Error(err)

	_, err = suite.contacts.CreateContact("user-1", "bob", "not-an-address")
	suite.Error(err)
}

func (suite *ContactServiceTestSuite) TestAddressStoredChecksummed() {
	contact, err := suite.contacts.CreateContact("user-1", "carol", "0x742d35cc6634c0532925a3b844bc454e4438f44e")
	suite.Require().NoError(err)
	suite.Equal("0x742d35Cc6634C0532925a3b844Bc454e4438f44e", contact.Address)
}

func (suite *ContactServiceTestSuite) TestListContactsSorted() {
	_, err := suite.contacts.CreateContact("user-1", "bob", "0x1111111111111111111111111111111111111111")
	suite.Require().NoError(err)
	_, err = suite.contacts.CreateContact("user-1", "alice", "0x2222222222222222222222222222222222222222")
	suite.Require().NoError(err)

	list, err := suite.contacts.ListContacts("user-1")
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)
	suite.Equal("alice", list[0].Name)
	suite.Equal("bob", list[1].Name)
}

func TestContactServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ContactServiceTestSuite))
}
