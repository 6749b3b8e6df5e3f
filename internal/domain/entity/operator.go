package entity

// OperatorState состояние оператора в диалоге с ботом
type OperatorState string

const (
	StateIdle          OperatorState = "idle"           // В главном меню
	StateAwaitingPhoto OperatorState = "awaiting_photo" // Ожидание фото изделия
	StateProcessing    OperatorState = "processing"     // Идёт анализ
)

// Operator оператор линии контроля, работающий через бота
type Operator struct {
	ID           int64         // Telegram User ID
	ChatID       int64         // Telegram Chat ID
	State        OperatorState // Текущее состояние
	LastRecordID int64         // ID последнего сохранённого результата
}

// NewOperator создаёт оператора с начальным состоянием
func NewOperator(userID, chatID int64) *Operator {
	return &Operator{
		ID:     userID,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// SetState обновляет состояние оператора
func (o *Operator) SetState(state OperatorState) {
	o.State = state
}
