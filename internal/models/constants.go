package models

// Роли пользователей платформы.
const (
	RoleClient   = "client"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// OrderStatus константы статусов заказов.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ContractStatus константы статусов контрактов.
const (
	ContractStatusDraft           = "draft"
	ContractStatusPartiallySigned = "partially_signed"
	ContractStatusSigned          = "signed"
)

// BudgetTier константы бюджетных уровней заказа.
const (
	BudgetTierBasic    = "Basic"
	BudgetTierStandard = "Standard"
	BudgetTierPremium  = "Premium"
)

// SortBy ключи сортировки выдачи услуг.
const (
	SortByPriceAsc  = "price_asc"
	SortByPriceDesc = "price_desc"
	SortByRating    = "rating"
	SortByNewest    = "newest"
)

// ValidRoles список валидных ролей.
var ValidRoles = map[string]struct{}{
	RoleClient:   {},
	RoleProvider: {},
	RoleAdmin:    {},
}

// ValidOrderStatuses список валидных статусов заказов.
var ValidOrderStatuses = map[string]struct{}{
	OrderStatusPending:    {},
	OrderStatusInProgress: {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// ValidBudgetTiers список валидных бюджетных уровней.
var ValidBudgetTiers = map[string]struct{}{
	BudgetTierBasic:    {},
	BudgetTierStandard: {},
	BudgetTierPremium:  {},
}

// ValidSortKeys список валидных ключей сортировки.
var ValidSortKeys = map[string]struct{}{
	SortByPriceAsc:  {},
	SortByPriceDesc: {},
	SortByRating:    {},
	SortByNewest:    {},
}

// IsTerminalOrderStatus сообщает, является ли статус заказа конечным.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}
