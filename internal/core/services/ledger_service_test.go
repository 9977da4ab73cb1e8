package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	"github.com/gochicken/gochicken_backend/internal/core/domain"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/core/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionManager ---
type MockTxManager struct {
	mock.Mock
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock StockRepository ---
type MockStockRepository struct {
	mock.Mock
}

var _ portsrepo.StockRepositoryFacade = (*MockStockRepository)(nil)

func (m *MockStockRepository) FindLevel(ctx context.Context, key domain.StockKey) (*domain.StockLevel, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StockLevel), args.Error(1)
}

func (m *MockStockRepository) ListLevelsByBranch(ctx context.Context, branchID string, kind *domain.ItemKind) ([]domain.StockLevel, error) {
	args := m.Called(ctx, branchID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockLevel), args.Error(1)
}

func (m *MockStockRepository) FindLevelsForUpdate(ctx context.Context, tx pgx.Tx, keys []domain.StockKey) (map[domain.StockKey]domain.StockLevel, error) {
	args := m.Called(ctx, tx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.StockKey]domain.StockLevel), args.Error(1)
}

func (m *MockStockRepository) ApplyAdjustmentsInTx(ctx context.Context, tx pgx.Tx, adjustments map[domain.StockKey]decimal.Decimal, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, adjustments, updatedBy, now)
	return args.Error(0)
}

// --- Mock SaleRepository ---
type MockSaleRepository struct {
	mock.Mock
}

var _ portsrepo.SaleRepositoryFacade = (*MockSaleRepository)(nil)

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleTransaction, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleTransaction), args.Error(1)
}

func (m *MockSaleRepository) FindLineItemsBySaleID(ctx context.Context, saleID string) ([]domain.SaleLineItem, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleLineItem), args.Error(1)
}

func (m *MockSaleRepository) ListSalesByBranch(ctx context.Context, branchID string, status *domain.SaleStatus, limit int, nextToken *string) ([]domain.SaleTransaction, *string, error) {
	args := m.Called(ctx, branchID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.SaleTransaction), returnedNextToken, args.Error(2)
}

func (m *MockSaleRepository) CountSalesByCodePrefix(ctx context.Context, tx pgx.Tx, prefix string) (int64, error) {
	args := m.Called(ctx, tx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) CreateSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.SaleTransaction, lines []domain.SaleLineItem) error {
	args := m.Called(ctx, tx, sale, lines)
	return args.Error(0)
}

func (m *MockSaleRepository) UpdateSaleStatusInTx(ctx context.Context, tx pgx.Tx, saleID string, status domain.SaleStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, tx, saleID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockSaleRepository) DeleteSaleInTx(ctx context.Context, tx pgx.Tx, saleID string) error {
	args := m.Called(ctx, tx, saleID)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---
type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindLineItemsByExpenseID(ctx context.Context, expenseID string) ([]domain.ExpenseLineItem, error) {
	args := m.Called(ctx, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExpenseLineItem), args.Error(1)
}

func (m *MockExpenseRepository) ListExpensesByBranch(ctx context.Context, branchID string, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, branchID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Expense), returnedNextToken, args.Error(2)
}

func (m *MockExpenseRepository) CreateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, lines []domain.ExpenseLineItem) error {
	args := m.Called(ctx, tx, expense, lines)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense, lines []domain.ExpenseLineItem) error {
	args := m.Called(ctx, tx, expense, lines)
	return args.Error(0)
}

func (m *MockExpenseRepository) DeleteExpenseInTx(ctx context.Context, tx pgx.Tx, expenseID string) error {
	args := m.Called(ctx, tx, expenseID)
	return args.Error(0)
}

// --- Mock UsageRepository ---
type MockUsageRepository struct {
	mock.Mock
}

var _ portsrepo.UsageRepositoryFacade = (*MockUsageRepository)(nil)

func (m *MockUsageRepository) FindUsageByID(ctx context.Context, usageID string) (*domain.MaterialUsageRecord, error) {
	args := m.Called(ctx, usageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterialUsageRecord), args.Error(1)
}

func (m *MockUsageRepository) ListUsagesByDate(ctx context.Context, branchID string, date time.Time) ([]domain.MaterialUsageRecord, error) {
	args := m.Called(ctx, branchID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MaterialUsageRecord), args.Error(1)
}

func (m *MockUsageRepository) CreateUsageInTx(ctx context.Context, tx pgx.Tx, usage domain.MaterialUsageRecord) error {
	args := m.Called(ctx, tx, usage)
	return args.Error(0)
}

func (m *MockUsageRepository) UpdateUsageInTx(ctx context.Context, tx pgx.Tx, usage domain.MaterialUsageRecord) error {
	args := m.Called(ctx, tx, usage)
	return args.Error(0)
}

func (m *MockUsageRepository) DeleteUsageInTx(ctx context.Context, tx pgx.Tx, usageID string) error {
	args := m.Called(ctx, tx, usageID)
	return args.Error(0)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) AppendInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListEntries(ctx context.Context, filter portsrepo.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.AuditEntry), returnedNextToken, args.Error(2)
}

func (m *MockAuditRepository) ClearEntries(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock CatalogRepository ---
type MockCatalogRepository struct {
	mock.Mock
}

var _ portsrepo.CatalogRepositoryFacade = (*MockCatalogRepository)(nil)

func (m *MockCatalogRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockCatalogRepository) FindRawMaterialByID(ctx context.Context, rawMaterialID string) (*domain.RawMaterial, error) {
	args := m.Called(ctx, rawMaterialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawMaterial), args.Error(1)
}

func (m *MockCatalogRepository) FindRawMaterialsByIDs(ctx context.Context, rawMaterialIDs []string) (map[string]domain.RawMaterial, error) {
	args := m.Called(ctx, rawMaterialIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.RawMaterial), args.Error(1)
}

func (m *MockCatalogRepository) FindExpenseTypeByID(ctx context.Context, expenseTypeID string) (*domain.ExpenseType, error) {
	args := m.Called(ctx, expenseTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseType), args.Error(1)
}

func (m *MockCatalogRepository) FindBranchByID(ctx context.Context, branchID string) (*domain.Branch, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Branch), args.Error(1)
}

func (m *MockCatalogRepository) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Branch), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxManager   *MockTxManager
	mockStockRepo   *MockStockRepository
	mockSaleRepo    *MockSaleRepository
	mockExpenseRepo *MockExpenseRepository
	mockUsageRepo   *MockUsageRepository
	mockAuditRepo   *MockAuditRepository
	mockCatalogRepo *MockCatalogRepository
	service         portssvc.LedgerSvcFacade

	branch      domain.Branch
	product     domain.Product
	material    domain.RawMaterial
	purchaseTyp domain.ExpenseType
	utilityTyp  domain.ExpenseType
	actor       domain.Actor
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxManager = new(MockTxManager)
	suite.mockStockRepo = new(MockStockRepository)
	suite.mockSaleRepo = new(MockSaleRepository)
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockUsageRepo = new(MockUsageRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockCatalogRepo = new(MockCatalogRepository)
	suite.service = services.NewLedgerService(
		suite.mockTxManager,
		suite.mockStockRepo,
		suite.mockSaleRepo,
		suite.mockExpenseRepo,
		suite.mockUsageRepo,
		suite.mockAuditRepo,
		suite.mockCatalogRepo,
	)

	suite.branch = domain.Branch{BranchID: uuid.NewString(), Name: "Cabang Utama"}
	suite.product = domain.Product{
		ProductID: uuid.NewString(),
		Name:      "Ayam Goreng",
		UnitPrice: decimal.NewFromInt(15000),
	}
	suite.material = domain.RawMaterial{
		RawMaterialID: uuid.NewString(),
		Name:          "Minyak Goreng",
		Unit:          "liter",
		UnitPrice:     decimal.NewFromInt(20000),
	}
	suite.purchaseTyp = domain.ExpenseType{
		ExpenseTypeID: uuid.NewString(),
		Name:          "Pembelian bahan baku",
	}
	suite.utilityTyp = domain.ExpenseType{
		ExpenseTypeID: uuid.NewString(),
		Name:          "Listrik",
	}
	suite.actor = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleBranchAdmin}
}

// expectTransaction wires the happy-path transaction lifecycle: Begin
// succeeds, Commit succeeds, and the deferred Rollback is a no-op.
func (suite *LedgerServiceTestSuite) expectTransaction() {
	suite.mockTxManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxManager.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// expectRollbackOnly wires a transaction that never commits.
func (suite *LedgerServiceTestSuite) expectRollbackOnly() {
	suite.mockTxManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

func (suite *LedgerServiceTestSuite) productLevel(quantity int64) map[domain.StockKey]domain.StockLevel {
	key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.product.ProductID, ItemKind: domain.ItemKindProduct}
	return map[domain.StockKey]domain.StockLevel{
		key: {
			StockLevelID: uuid.NewString(),
			BranchID:     key.BranchID,
			ItemID:       key.ItemID,
			ItemKind:     key.ItemKind,
			Quantity:     decimal.NewFromInt(quantity),
		},
	}
}

func (suite *LedgerServiceTestSuite) materialLevel(quantity int64) map[domain.StockKey]domain.StockLevel {
	key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
	return map[domain.StockKey]domain.StockLevel{
		key: {
			StockLevelID: uuid.NewString(),
			BranchID:     key.BranchID,
			ItemID:       key.ItemID,
			ItemKind:     key.ItemKind,
			Quantity:     decimal.NewFromInt(quantity),
		},
	}
}

// --- Sale Tests ---

func (suite *LedgerServiceTestSuite) TestCreateSale_Success() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		BranchID:      suite.branch.BranchID,
		PaymentMethod: "CASH",
		Status:        domain.SaleCompleted,
		Origin:        domain.OriginManualWeb,
		Items: []dto.SaleItemRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(3)},
		},
	}

	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()
	suite.mockCatalogRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	suite.expectTransaction()
	suite.mockSaleRepo.On("CountSalesByCodePrefix", ctx, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.productLevel(10), nil).Once()
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.product.ProductID, ItemKind: domain.ItemKindProduct}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(-3))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockSaleRepo.On("CreateSaleInTx", ctx, mock.Anything, mock.AnythingOfType("domain.SaleTransaction"), mock.AnythingOfType("[]domain.SaleLineItem")).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.TableName == domain.AuditTableSales &&
			entry.Action == domain.AuditCreate &&
			entry.ActorUserID == suite.actor.UserID &&
			len(entry.NewData) > 0 && entry.OldData == nil
	})).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(sale)
	suite.True(strings.HasPrefix(sale.TransactionCode, domain.TransactionCodePrefix+"-"))
	// Total is recomputed server-side: 3 x 15000
	suite.True(sale.TotalAmount.Equal(decimal.NewFromInt(45000)))
	suite.Equal(domain.SaleCompleted, sale.Status)
	suite.Len(sale.LineItems, 1)
	suite.True(sale.LineItems[0].UnitPrice.Equal(suite.product.UnitPrice))

	suite.mockStockRepo.AssertExpectations(suite.T())
	suite.mockSaleRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
	suite.mockTxManager.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateSale_SameMinuteCollisionGetsSuffix() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		BranchID:      suite.branch.BranchID,
		PaymentMethod: "CASH",
		Status:        domain.SaleCompleted,
		Origin:        domain.OriginManualWeb,
		Items: []dto.SaleItemRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()
	suite.mockCatalogRepo.On("FindProductsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	suite.expectTransaction()
	// One sale already carries this minute's code.
	suite.mockSaleRepo.On("CountSalesByCodePrefix", ctx, mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.productLevel(10), nil).Once()
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockSaleRepo.On("CreateSaleInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	sale, err := suite.service.CreateSale(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(strings.HasSuffix(sale.TransactionCode, "-2"), "expected disambiguating suffix, got %s", sale.TransactionCode)
}

func (suite *LedgerServiceTestSuite) TestCreateSale_InsufficientStockRollsBack() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		BranchID:      suite.branch.BranchID,
		PaymentMethod: "CASH",
		Status:        domain.SaleCompleted,
		Origin:        domain.OriginManualWeb,
		Items: []dto.SaleItemRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(5)},
		},
	}

	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()
	suite.mockCatalogRepo.On("FindProductsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	suite.expectRollbackOnly()
	suite.mockSaleRepo.On("CountSalesByCodePrefix", ctx, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	// Only 1 on hand, sale needs 5.
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.productLevel(1), nil).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Contains(err.Error(), suite.product.Name)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "ApplyAdjustmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "CreateSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "AppendInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTxManager.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateSale_NonPositiveQuantity() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		BranchID:      suite.branch.BranchID,
		PaymentMethod: "CASH",
		Status:        domain.SaleCompleted,
		Origin:        domain.OriginManualWeb,
		Items: []dto.SaleItemRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.Zero},
		},
	}

	_, err := suite.service.CreateSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateSale_AuditAppendFailureAbortsCommit() {
	ctx := context.Background()
	req := dto.CreateSaleRequest{
		BranchID:      suite.branch.BranchID,
		PaymentMethod: "CASH",
		Status:        domain.SaleCompleted,
		Origin:        domain.OriginManualWeb,
		Items: []dto.SaleItemRequest{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()
	suite.mockCatalogRepo.On("FindProductsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	suite.expectRollbackOnly()
	suite.mockSaleRepo.On("CountSalesByCodePrefix", ctx, mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.productLevel(10), nil).Once()
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockSaleRepo.On("CreateSaleInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	_, err := suite.service.CreateSale(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTxManager.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVoidSale_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.SaleTransaction{
		SaleID:          saleID,
		TransactionCode: "TRNSK-01012026-1200",
		BranchID:        suite.branch.BranchID,
		Status:          domain.SaleCompleted,
		Origin:          domain.OriginManualWeb,
		TotalAmount:     decimal.NewFromInt(45000),
	}
	lines := []domain.SaleLineItem{
		{LineItemID: uuid.NewString(), SaleID: saleID, ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(3), UnitPrice: suite.product.UnitPrice, Subtotal: decimal.NewFromInt(45000)},
	}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()
	suite.mockSaleRepo.On("FindLineItemsBySaleID", ctx, saleID).Return(lines, nil).Once()
	suite.mockCatalogRepo.On("FindProductsByIDs", ctx, mock.Anything).
		Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.productLevel(7), nil).Once()
	// Voiding returns the sold quantity to stock.
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.product.ProductID, ItemKind: domain.ItemKindProduct}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(3))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockSaleRepo.On("DeleteSaleInTx", ctx, mock.Anything, saleID).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.Action == domain.AuditDelete && len(entry.OldData) > 0 && entry.NewData == nil
	})).Return(nil).Once()

	err := suite.service.VoidSale(ctx, saleID, suite.actor)

	suite.Require().NoError(err)
	suite.mockStockRepo.AssertExpectations(suite.T())
	suite.mockSaleRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVoidSale_MobileOriginForbidden() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.SaleTransaction{
		SaleID:   saleID,
		BranchID: suite.branch.BranchID,
		Origin:   domain.OriginMobilePOS,
	}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()

	err := suite.service.VoidSale(ctx, saleID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockSaleRepo.AssertNotCalled(suite.T(), "DeleteSaleInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestVoidSale_AlreadyVoidedNotFound() {
	ctx := context.Background()
	saleID := uuid.NewString()

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.VoidSale(ctx, saleID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateSaleStatus_Success() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.SaleTransaction{
		SaleID:          saleID,
		TransactionCode: "TRNSK-01012026-1200",
		BranchID:        suite.branch.BranchID,
		Status:          domain.SaleOnLoan,
		Origin:          domain.OriginManualWeb,
	}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()
	suite.expectTransaction()
	suite.mockSaleRepo.On("UpdateSaleStatusInTx", ctx, mock.Anything, saleID, domain.SaleCompleted, suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.Action == domain.AuditUpdate && len(entry.OldData) > 0 && len(entry.NewData) > 0
	})).Return(nil).Once()

	updated, err := suite.service.UpdateSaleStatus(ctx, saleID, domain.SaleCompleted, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, updated.Status)
	// Status changes never touch stock.
	suite.mockStockRepo.AssertNotCalled(suite.T(), "FindLevelsForUpdate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "ApplyAdjustmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateSaleStatus_SameStatusIsNoOp() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.SaleTransaction{
		SaleID:   saleID,
		BranchID: suite.branch.BranchID,
		Status:   domain.SaleCompleted,
		Origin:   domain.OriginManualWeb,
	}

	suite.mockSaleRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()

	updated, err := suite.service.UpdateSaleStatus(ctx, saleID, domain.SaleCompleted, suite.actor)

	suite.Require().NoError(err)
	suite.Equal(domain.SaleCompleted, updated.Status)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "AppendInTx", mock.Anything, mock.Anything, mock.Anything)
}

// --- Usage Tests ---

func (suite *LedgerServiceTestSuite) TestRecordMaterialUsage_Success() {
	ctx := context.Background()
	req := dto.CreateUsageRequest{
		BranchID:      suite.branch.BranchID,
		Date:          time.Now().UTC(),
		RawMaterialID: suite.material.RawMaterialID,
		QuantityUsed:  decimal.NewFromInt(5),
	}

	suite.mockCatalogRepo.On("FindRawMaterialByID", ctx, suite.material.RawMaterialID).Return(&suite.material, nil).Once()
	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(20), nil).Once()
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(-5))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockUsageRepo.On("CreateUsageInTx", ctx, mock.Anything, mock.AnythingOfType("domain.MaterialUsageRecord")).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.TableName == domain.AuditTableMaterialUsages && entry.Action == domain.AuditCreate
	})).Return(nil).Once()

	usage, err := suite.service.RecordMaterialUsage(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(usage)
	suite.True(usage.QuantityUsed.Equal(decimal.NewFromInt(5)))
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecordMaterialUsage_InsufficientStock() {
	ctx := context.Background()
	req := dto.CreateUsageRequest{
		BranchID:      suite.branch.BranchID,
		Date:          time.Now().UTC(),
		RawMaterialID: suite.material.RawMaterialID,
		QuantityUsed:  decimal.NewFromInt(25),
	}

	suite.mockCatalogRepo.On("FindRawMaterialByID", ctx, suite.material.RawMaterialID).Return(&suite.material, nil).Once()
	suite.expectRollbackOnly()
	// Only 20 on hand, usage asks for 25.
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(20), nil).Once()

	_, err := suite.service.RecordMaterialUsage(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Contains(err.Error(), suite.material.Name)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "ApplyAdjustmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockUsageRepo.AssertNotCalled(suite.T(), "CreateUsageInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "AppendInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockTxManager.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestUpdateMaterialUsage_AppliesNetDelta() {
	ctx := context.Background()
	usageID := uuid.NewString()
	existing := &domain.MaterialUsageRecord{
		UsageID:       usageID,
		BranchID:      suite.branch.BranchID,
		RawMaterialID: suite.material.RawMaterialID,
		QuantityUsed:  decimal.NewFromInt(5),
	}
	req := dto.UpdateUsageRequest{QuantityUsed: decimal.NewFromInt(8)}

	suite.mockUsageRepo.On("FindUsageByID", ctx, usageID).Return(existing, nil).Once()
	suite.mockCatalogRepo.On("FindRawMaterialByID", ctx, suite.material.RawMaterialID).Return(&suite.material, nil).Once()
	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(20), nil).Once()
	// Raising consumption from 5 to 8 costs 3 more units.
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(-3))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockUsageRepo.On("UpdateUsageInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := suite.service.UpdateMaterialUsage(ctx, usageID, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(updated.QuantityUsed.Equal(decimal.NewFromInt(8)))
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteMaterialUsage_RestoresStock() {
	ctx := context.Background()
	usageID := uuid.NewString()
	existing := &domain.MaterialUsageRecord{
		UsageID:       usageID,
		BranchID:      suite.branch.BranchID,
		RawMaterialID: suite.material.RawMaterialID,
		QuantityUsed:  decimal.NewFromInt(5),
	}

	suite.mockUsageRepo.On("FindUsageByID", ctx, usageID).Return(existing, nil).Once()
	suite.mockCatalogRepo.On("FindRawMaterialByID", ctx, suite.material.RawMaterialID).Return(&suite.material, nil).Once()
	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(15), nil).Once()
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(5))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockUsageRepo.On("DeleteUsageInTx", ctx, mock.Anything, usageID).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.Action == domain.AuditDelete
	})).Return(nil).Once()

	err := suite.service.DeleteMaterialUsage(ctx, usageID, suite.actor)

	suite.Require().NoError(err)
	suite.mockStockRepo.AssertExpectations(suite.T())
}

// --- Expense Tests ---

func (suite *LedgerServiceTestSuite) TestCreateExpense_NonPurchaseTypeHasNoStockEffect() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		BranchID:      suite.branch.BranchID,
		ExpenseTypeID: suite.utilityTyp.ExpenseTypeID,
		Date:          time.Now().UTC(),
		TotalAmount:   decimal.NewFromInt(500000),
		Description:   "Tagihan listrik bulanan",
	}

	suite.mockCatalogRepo.On("FindExpenseTypeByID", ctx, suite.utilityTyp.ExpenseTypeID).Return(&suite.utilityTyp, nil).Once()
	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()
	suite.expectTransaction()
	suite.mockExpenseRepo.On("CreateExpenseInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.TableName == domain.AuditTableExpenses && entry.Action == domain.AuditCreate
	})).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Require().NotNil(expense)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "FindLevelsForUpdate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockStockRepo.AssertNotCalled(suite.T(), "ApplyAdjustmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateExpense_PurchaseTypeRestocks() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		BranchID:      suite.branch.BranchID,
		ExpenseTypeID: suite.purchaseTyp.ExpenseTypeID,
		Date:          time.Now().UTC(),
		TotalAmount:   decimal.NewFromInt(200000),
		Description:   "Belanja minyak",
		Items: []dto.ExpenseItemRequest{
			{RawMaterialID: suite.material.RawMaterialID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(20000)},
		},
	}

	suite.mockCatalogRepo.On("FindExpenseTypeByID", ctx, suite.purchaseTyp.ExpenseTypeID).Return(&suite.purchaseTyp, nil).Once()
	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()
	suite.mockCatalogRepo.On("FindRawMaterialsByIDs", ctx, []string{suite.material.RawMaterialID}).
		Return(map[string]domain.RawMaterial{suite.material.RawMaterialID: suite.material}, nil).Once()

	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(2), nil).Once()
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(10))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockExpenseRepo.On("CreateExpenseInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, req, suite.actor)

	suite.Require().NoError(err)
	suite.Len(expense.LineItems, 1)
	suite.True(expense.LineItems[0].Subtotal.Equal(decimal.NewFromInt(200000)))
	suite.mockStockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateExpense_PurchaseTypeRequiresItems() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		BranchID:      suite.branch.BranchID,
		ExpenseTypeID: suite.purchaseTyp.ExpenseTypeID,
		Date:          time.Now().UTC(),
		TotalAmount:   decimal.NewFromInt(200000),
		Description:   "Belanja tanpa rincian",
	}

	suite.mockCatalogRepo.On("FindExpenseTypeByID", ctx, suite.purchaseTyp.ExpenseTypeID).Return(&suite.purchaseTyp, nil).Once()
	suite.mockCatalogRepo.On("FindBranchByID", ctx, suite.branch.BranchID).Return(&suite.branch, nil).Once()

	_, err := suite.service.CreateExpense(ctx, req, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestDeleteExpense_Success() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	existing := &domain.Expense{
		ExpenseID:     expenseID,
		BranchID:      suite.branch.BranchID,
		ExpenseTypeID: suite.purchaseTyp.ExpenseTypeID,
		TotalAmount:   decimal.NewFromInt(200000),
	}
	lines := []domain.ExpenseLineItem{
		{LineItemID: uuid.NewString(), ExpenseID: expenseID, RawMaterialID: suite.material.RawMaterialID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(20000), Subtotal: decimal.NewFromInt(200000)},
	}

	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(existing, nil).Once()
	suite.mockExpenseRepo.On("FindLineItemsByExpenseID", ctx, expenseID).Return(lines, nil).Once()
	suite.mockCatalogRepo.On("FindExpenseTypeByID", ctx, suite.purchaseTyp.ExpenseTypeID).Return(&suite.purchaseTyp, nil).Once()
	suite.mockCatalogRepo.On("FindRawMaterialsByIDs", ctx, mock.Anything).
		Return(map[string]domain.RawMaterial{suite.material.RawMaterialID: suite.material}, nil).Once()

	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(30), nil).Once()
	// Deleting the purchase takes its restocked quantity back out.
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(-10))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockExpenseRepo.On("DeleteExpenseInTx", ctx, mock.Anything, expenseID).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.TableName == domain.AuditTableExpenses &&
			entry.Action == domain.AuditDelete &&
			len(entry.OldData) > 0 && entry.NewData == nil
	})).Return(nil).Once()

	err := suite.service.DeleteExpense(ctx, expenseID, suite.actor)

	suite.Require().NoError(err)
	suite.mockStockRepo.AssertExpectations(suite.T())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestDeleteExpense_FloorViolationKeepsExpense() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	existing := &domain.Expense{
		ExpenseID:     expenseID,
		BranchID:      suite.branch.BranchID,
		ExpenseTypeID: suite.purchaseTyp.ExpenseTypeID,
		TotalAmount:   decimal.NewFromInt(200000),
	}
	lines := []domain.ExpenseLineItem{
		{LineItemID: uuid.NewString(), ExpenseID: expenseID, RawMaterialID: suite.material.RawMaterialID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(20000), Subtotal: decimal.NewFromInt(200000)},
	}

	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(existing, nil).Once()
	suite.mockExpenseRepo.On("FindLineItemsByExpenseID", ctx, expenseID).Return(lines, nil).Once()
	suite.mockCatalogRepo.On("FindExpenseTypeByID", ctx, suite.purchaseTyp.ExpenseTypeID).Return(&suite.purchaseTyp, nil).Once()
	suite.mockCatalogRepo.On("FindRawMaterialsByIDs", ctx, mock.Anything).
		Return(map[string]domain.RawMaterial{suite.material.RawMaterialID: suite.material}, nil).Once()

	suite.expectRollbackOnly()
	// Only 2 left on hand; reversing a 10-unit restock would go negative.
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(2), nil).Once()

	err := suite.service.DeleteExpense(ctx, expenseID, suite.actor)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "DeleteExpenseInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestUpdateExpense_ReversesOldAndAppliesNewLines() {
	ctx := context.Background()
	expenseID := uuid.NewString()
	existing := &domain.Expense{
		ExpenseID:     expenseID,
		BranchID:      suite.branch.BranchID,
		ExpenseTypeID: suite.purchaseTyp.ExpenseTypeID,
		TotalAmount:   decimal.NewFromInt(200000),
	}
	oldLines := []domain.ExpenseLineItem{
		{LineItemID: uuid.NewString(), ExpenseID: expenseID, RawMaterialID: suite.material.RawMaterialID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(20000), Subtotal: decimal.NewFromInt(200000)},
	}
	req := dto.UpdateExpenseRequest{
		ExpenseTypeID: suite.purchaseTyp.ExpenseTypeID,
		Date:          time.Now().UTC(),
		TotalAmount:   decimal.NewFromInt(140000),
		Description:   "Koreksi jumlah",
		Items: []dto.ExpenseItemRequest{
			{RawMaterialID: suite.material.RawMaterialID, Quantity: decimal.NewFromInt(7), UnitPrice: decimal.NewFromInt(20000)},
		},
	}

	suite.mockExpenseRepo.On("FindExpenseByID", ctx, expenseID).Return(existing, nil).Once()
	suite.mockExpenseRepo.On("FindLineItemsByExpenseID", ctx, expenseID).Return(oldLines, nil).Once()
	suite.mockCatalogRepo.On("FindExpenseTypeByID", ctx, suite.purchaseTyp.ExpenseTypeID).Return(&suite.purchaseTyp, nil).Once()
	suite.mockCatalogRepo.On("FindRawMaterialsByIDs", ctx, mock.Anything).
		Return(map[string]domain.RawMaterial{suite.material.RawMaterialID: suite.material}, nil).Twice()

	suite.expectTransaction()
	suite.mockStockRepo.On("FindLevelsForUpdate", ctx, mock.Anything, mock.Anything).Return(suite.materialLevel(12), nil).Once()
	// Net effect of replacing a 10-unit restock with a 7-unit one.
	suite.mockStockRepo.On("ApplyAdjustmentsInTx", ctx, mock.Anything, mock.MatchedBy(func(adj map[domain.StockKey]decimal.Decimal) bool {
		key := domain.StockKey{BranchID: suite.branch.BranchID, ItemID: suite.material.RawMaterialID, ItemKind: domain.ItemKindRawMaterial}
		delta, ok := adj[key]
		return ok && delta.Equal(decimal.NewFromInt(-3))
	}), suite.actor.UserID, mock.Anything).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("AppendInTx", ctx, mock.Anything, mock.MatchedBy(func(entry domain.AuditEntry) bool {
		return entry.Action == domain.AuditUpdate && len(entry.OldData) > 0 && len(entry.NewData) > 0
	})).Return(nil).Once()

	updated, err := suite.service.UpdateExpense(ctx, expenseID, req, suite.actor)

	suite.Require().NoError(err)
	suite.True(updated.TotalAmount.Equal(decimal.NewFromInt(140000)))
	suite.Len(updated.LineItems, 1)
	suite.mockStockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
