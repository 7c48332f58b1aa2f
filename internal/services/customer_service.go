// internal/services/customer_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront/internal/models"
	"github.com/shopworks/storefront/internal/utils"
)

type CustomerService struct {
	db *gorm.DB
}

type UpdateCustomerRequest struct {
	Phone      string                `json:"phone" validate:"omitempty,max=255"`
	BirthDate  *time.Time            `json:"birth_date,omitempty"`
	Membership models.MembershipTier `json:"membership,omitempty"`
}

type AddAddressRequest struct {
	Street string `json:"street" validate:"required,max=255"`
	City   string `json:"city" validate:"required,max=255"`
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// ResolveByPrincipal maps the authenticated principal to its customer
// record, creating one with defaults on first access. The unique index
// on principal_id keeps concurrent first accesses from creating two
// rows: the insert that loses the race falls back to the winner's row.
func (s *CustomerService) ResolveByPrincipal(principalID uuid.UUID) (*models.Customer, error) {
	return resolveCustomer(s.db, principalID)
}

func resolveCustomer(db *gorm.DB, principalID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("principal_id = ?", principalID).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	customer = models.Customer{
		PrincipalID: principalID,
		Membership:  models.MembershipBronze,
	}
	err = db.Create(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent first access created the row between our lookup
		// and insert. Use theirs.
		if err := db.Where("principal_id = ?", principalID).First(&customer).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &customer, nil
	}
	return nil, fmt.Errorf("failed to create customer: %w", err)
}

func (s *CustomerService) UpdateByPrincipal(principalID uuid.UUID, req *UpdateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("invalid customer fields")
	}
	if req.Membership != "" && !req.Membership.Valid() {
		return nil, validationErrorf("unknown membership tier")
	}

	customer, err := s.ResolveByPrincipal(principalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.BirthDate != nil {
		updates["birth_date"] = req.BirthDate
	}
	if req.Membership != "" {
		updates["membership"] = req.Membership
	}

	if len(updates) > 0 {
		if err := s.db.Model(customer).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
	}

	return customer, nil
}

func (s *CustomerService) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Preload("Addresses").First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErrorf("customer")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}

func (s *CustomerService) ListCustomers(params utils.PaginationParams) ([]models.Customer, int64, error) {
	query := s.db.Model(&models.Customer{})

	if params.Search != "" {
		query = query.Where("phone LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	allowedSortFields := []string{"created_at", "membership", "phone"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	return customers, total, nil
}

func (s *CustomerService) AddAddress(principalID uuid.UUID, req *AddAddressRequest) (*models.Address, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationErrorf("street and city are required")
	}

	customer, err := s.ResolveByPrincipal(principalID)
	if err != nil {
		return nil, err
	}

	address := &models.Address{
		CustomerID: customer.ID,
		Street:     req.Street,
		City:       req.City,
	}
	if err := s.db.Create(address).Error; err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}
	return address, nil
}

func (s *CustomerService) ListAddresses(principalID uuid.UUID) ([]models.Address, error) {
	customer, err := s.ResolveByPrincipal(principalID)
	if err != nil {
		return nil, err
	}

	var addresses []models.Address
	if err := s.db.Where("customer_id = ?", customer.ID).Order("created_at").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}
	return addresses, nil
}
