package enum

// TableStatus represents whether a restaurant table is seated
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
)
