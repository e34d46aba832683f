package models

// Vehicle is a bus in the fleet. PlateNumber and VehicleCode are unique.
type Vehicle struct {
	ID          int64  `json:"id"`
	VehicleCode string `json:"vehicleCode"`
	PlateNumber string `json:"plateNumber"`
	Model       string `json:"model,omitempty"`
	Capacity    *int   `json:"capacity,omitempty"`
	Status      string `json:"status,omitempty"`
	RouteID     *int64 `json:"routeId,omitempty"`
	LastService string `json:"lastService,omitempty"`
}

// MaintenanceRecord logs work done on a vehicle. Parts used decrement stock.
type MaintenanceRecord struct {
	ID          int64             `json:"id"`
	VehicleID   int64             `json:"vehicleId"`
	Description string            `json:"description"`
	ServiceDate string            `json:"serviceDate"`
	Cost        int64             `json:"cost"`
	Parts       []MaintenancePart `json:"parts,omitempty"`
}

// MaintenancePart ties a part and quantity to a maintenance record.
type MaintenancePart struct {
	PartID   int64 `json:"partId"`
	Quantity int   `json:"quantity"`
}

// FuelRecord logs a refuelling stop.
type FuelRecord struct {
	ID        int64   `json:"id"`
	VehicleID int64   `json:"vehicleId"`
	FillDate  string  `json:"fillDate"`
	Litres    float64 `json:"litres"`
	Cost      int64   `json:"cost"`
	Odometer  int64   `json:"odometer,omitempty"`
}

// Part is an inventory item. PartNumber is unique.
type Part struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	PartNumber   string `json:"partNumber"`
	Stock        int    `json:"stock"`
	UnitPrice    int64  `json:"unitPrice"`
	ReorderLevel int    `json:"reorderLevel,omitempty"`
}
