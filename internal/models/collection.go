package models

import (
	"time"

	"gorm.io/datatypes"
)

// RMAStatus is the lifecycle status of a branch return request.
type RMAStatus string

const (
	RMAApprovedForPickup RMAStatus = "APPROVED_FOR_PICKUP"
	RMAPickupScheduled   RMAStatus = "PICKUP_SCHEDULED"
	RMACollected         RMAStatus = "COLLECTED"
)

// CollectionStatus is the lifecycle status of a driver collection order.
type CollectionStatus string

const (
	CollectionPending      CollectionStatus = "PENDING"
	CollectionAssigned     CollectionStatus = "ASSIGNED"
	CollectionCollected    CollectionStatus = "COLLECTED"
	CollectionConsolidated CollectionStatus = "CONSOLIDATED"
)

// ManifestStatus is the lifecycle status of a shipment manifest.
type ManifestStatus string

const (
	ManifestInTransit ManifestStatus = "IN_TRANSIT"
	ManifestArrivedHQ ManifestStatus = "ARRIVED_HQ"
)

// ReturnRequest is a branch-approved RMA waiting for a driver pickup.
type ReturnRequest struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	RMANumber       string    `gorm:"uniqueIndex" json:"rmaNumber"`
	Status          RMAStatus `gorm:"index" json:"status"`
	CustomerName    string    `json:"customerName"`
	CustomerAddress string    `json:"customerAddress"`
	CustomerContact string    `json:"customerContact"`
	ItemSummary     string    `gorm:"type:text" json:"itemSummary"`
	Branch          string    `gorm:"index" json:"branch"`
	RequestedDate   string    `json:"requestedDate"`
	Notes           string    `gorm:"type:text" json:"notes"`

	// Set when the request is bundled into a collection order.
	CollectionOrderID string `gorm:"index" json:"collectionOrderId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for ReturnRequest model
func (ReturnRequest) TableName() string {
	return "return_requests"
}

// ProofOfCollection captures the driver's pickup evidence. A completed proof
// needs a timestamp, a signature reference, and at least one photo.
type ProofOfCollection struct {
	CollectedAt  string   `json:"collectedAt"`
	SignatureRef string   `json:"signatureRef"`
	PhotoRefs    []string `json:"photoRefs"`
	DriverNote   string   `json:"driverNote,omitempty"`
}

// Complete reports whether the proof satisfies the evidence requirements.
func (p ProofOfCollection) Complete() bool {
	return p.CollectedAt != "" && p.SignatureRef != "" && len(p.PhotoRefs) > 0
}

// CollectionOrder bundles one or more return requests into a single driver
// pickup job, e.g. COL-202406-001.
type CollectionOrder struct {
	ID           string           `gorm:"primaryKey" json:"id"`
	Status       CollectionStatus `gorm:"index" json:"status"`
	DriverID     string           `gorm:"index" json:"driverId"`
	VehiclePlate string           `json:"vehiclePlate"`

	// Pickup location, taken from the first RMA in the bundle.
	PickupName    string `json:"pickupName"`
	PickupAddress string `json:"pickupAddress"`
	PickupContact string `json:"pickupContact"`
	PickupDate    string `json:"pickupDate"`

	BoxCount    int    `json:"boxCount"`
	Description string `gorm:"type:text" json:"description"`

	RMAIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"rmaIds"`

	Proof *datatypes.JSONType[ProofOfCollection] `gorm:"type:jsonb" json:"proof,omitempty"`

	// Set when the order is consolidated onto a manifest.
	ManifestID string `gorm:"index" json:"manifestId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for CollectionOrder model
func (CollectionOrder) TableName() string {
	return "collection_orders"
}

// ShipmentManifest consolidates collected orders into one hub-bound shipment,
// e.g. SHP-2024-001.
type ShipmentManifest struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	Status          ManifestStatus `gorm:"index" json:"status"`
	CarrierName     string         `json:"carrierName"`
	TrackingNo      string         `json:"trackingNo"`
	TransportMethod string         `json:"transportMethod"`
	Description     string         `gorm:"type:text" json:"description"`
	DispatchDate    string         `json:"dispatchDate"`
	ArrivalDate     string         `json:"arrivalDate"`

	CollectionOrderIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"collectionOrderIds"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for ShipmentManifest model
func (ShipmentManifest) TableName() string {
	return "shipment_manifests"
}
