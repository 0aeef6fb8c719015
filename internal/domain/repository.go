package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ и присваивает ему идентификатор,
	// если тот пуст. Возвращает заказ с заполненным ID.
	Create(order Order) (Order, error)
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// Exists проверяет наличие заказа без загрузки позиций.
	Exists(id string) (bool, error)
	// ListByCustomer возвращает заказы клиента от новых к старым
	// с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
	// Update перезаписывает заказ с учётом optimistic locking:
	// при расхождении версии возвращается ErrOrderVersionConflict.
	Update(order Order) error
}
