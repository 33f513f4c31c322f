package models

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/datatypes"
)

// ReturnStatus is the operations-hub lifecycle status of a ReturnRecord.
type ReturnStatus string

const (
	StatusRequested         ReturnStatus = "Requested"
	StatusColJobAccepted    ReturnStatus = "COL_JobAccepted"
	StatusColConsolidated   ReturnStatus = "COL_Consolidated"
	StatusColBranchReceived ReturnStatus = "COL_BranchReceived"
	StatusSettledOnField    ReturnStatus = "Settled_OnField"

	// StatusJobAccepted is the pre-migration spelling of COL_JobAccepted.
	// Still present on older records, treated as equivalent for branch receive.
	StatusJobAccepted ReturnStatus = "JobAccepted"
)

// Disposition is the post-decision routing of a record.
type Disposition string

const (
	DispositionRTV      Disposition = "RTV" // return to vendor
	DispositionSell     Disposition = "Sell"
	DispositionScrap    Disposition = "Scrap"
	DispositionInternal Disposition = "Internal"
	DispositionClaim    Disposition = "Claim"
	DispositionOther    Disposition = "Other"
	DispositionPending  Disposition = "Pending"
)

// DocumentOrigin tags which workflow produced a record. Legacy rows may be
// untagged and are resolved via ResolveOrigin.
type DocumentOrigin string

const (
	OriginNCR       DocumentOrigin = "NCR"
	OriginLogistics DocumentOrigin = "LOGISTICS"
	OriginUntagged  DocumentOrigin = ""
)

// ReturnRecord is the canonical operations unit. It can originate from an NCR
// submission or from the logistics collection flow.
type ReturnRecord struct {
	ID string `gorm:"primaryKey" json:"id"`

	// Reference numbers
	RefNo             string `gorm:"index" json:"refNo"`
	NeoRefNo          string `json:"neoRefNo"`
	NCRNumber         string `gorm:"column:ncr_number;index" json:"ncrNumber"`
	DocumentNo        string `gorm:"index" json:"documentNo"`
	CollectionOrderID string `gorm:"index" json:"collectionOrderId"`
	TMNo              string `gorm:"column:tm_no" json:"tmNo"`
	InvoiceNo         string `json:"invoiceNo"`

	// Descriptive fields
	ProductCode         string  `gorm:"index" json:"productCode"`
	ProductName         string  `json:"productName"`
	Quantity            float64 `json:"quantity"`
	Unit                string  `json:"unit"`
	CustomerName        string  `json:"customerName"`
	DestinationCustomer string  `json:"destinationCustomer"`
	Branch              string  `gorm:"index" json:"branch"`
	Category            string  `json:"category"`
	Condition           string  `json:"condition"`
	Notes               string  `gorm:"type:text" json:"notes"`

	// Dates are ISO (yyyy-mm-dd) strings so recency ordering is a plain
	// lexical compare, matching the grouping engine's contract.
	Date          string `json:"date"`
	DateRequested string `json:"dateRequested"`
	DateReceived  string `json:"dateReceived"`
	ControlDate   string `json:"controlDate"`

	Status              ReturnStatus `gorm:"index" json:"status"`
	Disposition         Disposition  `gorm:"index" json:"disposition"`
	PreliminaryDecision string       `json:"preliminaryDecision"`
	PreliminaryRoute    string       `json:"preliminaryRoute"`

	// DocumentType is the raw tag as received; Origin is the variant resolved
	// at ingestion (LOGISTICS tag wins over a stale NCR number).
	DocumentType DocumentOrigin `gorm:"index" json:"documentType"`
	Origin       DocumentOrigin `gorm:"index" json:"origin"`

	// ParentID links a record carved off another one by a split.
	ParentID *string `gorm:"index" json:"parentId,omitempty"`

	Founder       string `json:"founder"`
	Reason        string `gorm:"type:text" json:"reason"`
	RootCause     string `json:"rootCause"`
	ProblemSource string `json:"problemSource"`

	// Problem deep-dive analysis
	ProblemAnalysis       string `json:"problemAnalysis"`
	ProblemAnalysisSub    string `json:"problemAnalysisSub"`
	ProblemAnalysisCause  string `json:"problemAnalysisCause"`
	ProblemAnalysisDetail string `gorm:"type:text" json:"problemAnalysisDetail"`

	// Money
	Amount       float64 `json:"amount"`
	PriceBill    float64 `json:"priceBill"`
	PricePerUnit float64 `json:"pricePerUnit"`
	PriceSell    float64 `json:"priceSell"`

	HasCost         bool    `json:"hasCost"`
	CostAmount      float64 `json:"costAmount"`
	CostResponsible string  `json:"costResponsible"`

	// Field settlement (record never entered the collection pipeline)
	IsFieldSettled          bool    `json:"isFieldSettled"`
	FieldSettlementAmount   float64 `json:"fieldSettlementAmount"`
	FieldSettlementEvidence string  `json:"fieldSettlementEvidence"`
	FieldSettlementName     string  `json:"fieldSettlementName"`
	FieldSettlementPosition string  `json:"fieldSettlementPosition"`

	// Classification sets inherited from the NCR item when applicable
	Problems         datatypes.JSONSlice[ProblemKind] `gorm:"type:jsonb" json:"problems"`
	ProblemOtherText string                           `json:"problemOtherText"`
	ProblemDetail    string                           `gorm:"type:text" json:"problemDetail"`
	Actions          datatypes.JSONSlice[ActionEntry] `gorm:"type:jsonb" json:"actions"`

	// Cause & prevention, inherited from the NCR header
	CausePackaging    bool   `json:"causePackaging"`
	CauseTransport    bool   `json:"causeTransport"`
	CauseOperation    bool   `json:"causeOperation"`
	CauseEnv          bool   `json:"causeEnv"`
	CauseDetail       string `gorm:"type:text" json:"causeDetail"`
	PreventionDetail  string `gorm:"type:text" json:"preventionDetail"`
	PreventionDueDate string `json:"preventionDueDate"`

	ResponsiblePerson   string `json:"responsiblePerson"`
	ResponsiblePosition string `json:"responsiblePosition"`
	DueDate             string `json:"dueDate"`
	Approver            string `json:"approver"`
	ApproverPosition    string `json:"approverPosition"`
	ApproverDate        string `json:"approverDate"`

	Images datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for ReturnRecord model
func (ReturnRecord) TableName() string {
	return "return_records"
}

// ResolveOrigin collapses the legacy tag-plus-presence heuristic into an
// explicit variant. The explicit LOGISTICS tag always wins, so old records
// that still carry a stale NCR number route to the logistics screens.
func (r *ReturnRecord) ResolveOrigin() DocumentOrigin {
	switch {
	case r.DocumentType == OriginLogistics:
		return OriginLogistics
	case r.DocumentType == OriginNCR:
		return OriginNCR
	case r.NCRNumber != "":
		return OriginNCR
	default:
		return OriginLogistics
	}
}

// IsNCROrigin reports whether the record belongs to the NCR workflow,
// resolving on the fly when the stored Origin field was never set.
func (r *ReturnRecord) IsNCROrigin() bool {
	if r.Origin != OriginUntagged {
		return r.Origin == OriginNCR
	}
	return r.ResolveOrigin() == OriginNCR
}

// NewReturnRecordID builds an operations-hub record id, e.g.
// RT-2024-1718000000000-417.
func NewReturnRecordID(at time.Time) string {
	return fmt.Sprintf("RT-%d-%d-%d", at.Year(), at.UnixMilli(), rand.Intn(1000))
}
