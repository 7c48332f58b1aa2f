// internal/services/customer_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
)

type CustomerServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	customers *CustomerService
}

func (s *CustomerServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.customers = NewCustomerService(s.db)
}

func (s *CustomerServiceTestSuite) TestResolveCreatesOnFirstAccess() {
	principalID := uuid.New()

	customer, err := s.customers.ResolveByPrincipal(principalID)
	s.Require().NoError(err)
	s.Equal(principalID, customer.PrincipalID)
	s.Equal(models.MembershipBronze, customer.Membership)
}

func (s *CustomerServiceTestSuite) TestResolveIsIdempotent() {
	principalID := uuid.New()

	first, err := s.customers.ResolveByPrincipal(principalID)
	s.Require().NoError(err)

	second, err := s.customers.ResolveByPrincipal(principalID)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	var count int64
	s.Require().NoError(s.db.Model(&models.Customer{}).Where("principal_id = ?", principalID).Count(&count).Error)
	s.EqualValues(1, count)
}

func (s *CustomerServiceTestSuite) TestUpdateByPrincipal() {
	principalID := uuid.New()
	birthDate := time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)

	customer, err := s.customers.UpdateByPrincipal(principalID, &UpdateCustomerRequest{
		Phone:      "555-0100",
		BirthDate:  &birthDate,
		Membership: models.MembershipGold,
	})
	s.Require().NoError(err)
	s.Equal("555-0100", customer.Phone)
	s.Equal(models.MembershipGold, customer.Membership)

	var reloaded models.Customer
	s.Require().NoError(s.db.First(&reloaded, "principal_id = ?", principalID).Error)
	s.Equal("555-0100", reloaded.Phone)
	s.Require().NotNil(reloaded.BirthDate)
	s.True(reloaded.BirthDate.Equal(birthDate))
}

func (s *CustomerServiceTestSuite) TestUpdateRejectsUnknownTier() {
	_, err := s.customers.UpdateByPrincipal(uuid.New(), &UpdateCustomerRequest{
		Membership: models.MembershipTier("platinum"),
	})
	s.True(IsValidation(err))
}

func (s *CustomerServiceTestSuite) TestAddresses() {
	principalID := uuid.New()

	_, err := s.customers.AddAddress(principalID, &AddAddressRequest{
		Street: "1 Main St",
		City:   "Springfield",
	})
	s.Require().NoError(err)

	_, err = s.customers.AddAddress(principalID, &AddAddressRequest{
		Street: "2 Oak Ave",
		City:   "Springfield",
	})
	s.Require().NoError(err)

	addresses, err := s.customers.ListAddresses(principalID)
	s.Require().NoError(err)
	s.Len(addresses, 2)

	// Missing fields are rejected.
	_, err = s.customers.AddAddress(principalID, &AddAddressRequest{Street: "3 Elm St"})
	s.True(IsValidation(err))
}

func (s *CustomerServiceTestSuite) TestGetCustomerNotFound() {
	_, err := s.customers.GetCustomer(uuid.New())
	s.True(IsNotFound(err))
}

func TestCustomerServiceSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
