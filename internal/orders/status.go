package orders

type Status string

const (
	StatusPendiente  Status = "pendiente"
	StatusProcesando Status = "procesando"
	StatusEnviado    Status = "enviado"
	StatusEntregado  Status = "entregado"
	StatusCancelado  Status = "cancelado"
)

var allStatuses = []Status{
	StatusPendiente,
	StatusProcesando,
	StatusEnviado,
	StatusEntregado,
	StatusCancelado,
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Statuses returns the accepted estado values, for error messages.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}
