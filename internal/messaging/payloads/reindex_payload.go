package payloads

// ReindexEntity — тип сущности, документ которой нужно пересобрать в индексе.
type ReindexEntity string

const (
	ReindexPet  ReindexEntity = "pet"
	ReindexUser ReindexEntity = "user"
)

// ReindexRequest — задача на повторную синхронизацию документа индекса
// с основным хранилищем. Публикуется, когда запись в индекс не удалась.
type ReindexRequest struct {
	Entity ReindexEntity `json:"entity"`
	ID     int64         `json:"id"`
	Reason string        `json:"reason,omitempty"`
}
